// Package generator orchestrates paper production on top of the grammar
// engine.
//
// PaperGenerator owns one seeded engine per generation pass. It loads the
// grammar, injects runtime context (system name, author names), expands the
// title, abstract, sections, and bibliography, runs everything through the
// text processor, and assembles a paper.Paper.
//
// DiagramGenerator and FigureGenerator emit the plain-text artifacts the
// paper references: Graphviz DOT architecture diagrams (built on the lvlath
// graph library) and gnuplot scripts with data columns for performance
// figures. External toolchains render them; nothing here shells out.
package generator
