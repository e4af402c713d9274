// Package paper holds the document model assembled from engine output.
//
// The model is pure data plus rendering: Author, Section, Reference, and
// Figure compose into a Paper, and the Paper renders itself to an IEEEtran
// LaTeX document and a BibTeX bibliography. Nothing here depends on the
// grammar engine; the generator package feeds expanded text in.
//
// Papers carry a UUIDv7 identity so that output artifacts sort by creation
// time when several papers land in one directory.
package paper
