// Package textproc prettifies engine output before it reaches a document.
//
// Grammar expansions come out mechanically joined: articles do not agree
// with the following word, punctuation trails a space, and sentence starts
// are lowercase. The processor fixes those, applies title or sentence
// casing, and leaves LaTeX command lines strictly alone.
//
// All input is NFC-normalized first so that casing and escaping operate on
// composed code points regardless of how the grammar files were authored.
package textproc
