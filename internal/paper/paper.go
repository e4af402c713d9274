package paper

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Author is one paper author.
type Author struct {
	Name        string
	Email       string
	Institution string
}

// LaTeX renders the author block for a single-author paper.
func (a Author) LaTeX() string {
	if a.Institution != "" {
		return fmt.Sprintf("\\author{\\IEEEauthorblockN{%s}\n\\IEEEauthorblockA{%s}}", a.Name, a.Institution)
	}
	return fmt.Sprintf("\\author{%s}", a.Name)
}

// Reference is one bibliography entry.
type Reference struct {
	Key       string
	EntryType string
	Fields    map[string]string
}

// BibTeX renders the entry. Fields are emitted in sorted order so rendering
// is deterministic.
func (r Reference) BibTeX() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", r.EntryType, r.Key)

	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s = {%s},\n", name, r.Fields[name])
	}
	b.WriteString("}")
	return b.String()
}

// Section is one paper section with optional nested subsections.
type Section struct {
	Title       string
	Content     string
	Subsections []Section
	Label       string
}

// LaTeX renders the section and its subsections. Nesting depth selects the
// sectioning command, bottoming out at subsubsection.
func (s Section) LaTeX() string {
	return s.latexAt(0)
}

func (s Section) latexAt(depth int) string {
	commands := []string{"\\section", "\\subsection", "\\subsubsection"}
	if depth >= len(commands) {
		depth = len(commands) - 1
	}

	var lines []string
	if s.Label != "" {
		lines = append(lines, fmt.Sprintf("%s{%s}\\label{%s}", commands[depth], s.Title, s.Label))
	} else {
		lines = append(lines, fmt.Sprintf("%s{%s}", commands[depth], s.Title))
	}

	if s.Content != "" {
		lines = append(lines, "", s.Content)
	}
	for _, sub := range s.Subsections {
		lines = append(lines, "", sub.latexAt(depth+1))
	}
	return strings.Join(lines, "\n")
}

// Figure is an included graphic with caption and cross-reference label.
type Figure struct {
	Filename string
	Caption  string
	Label    string
	Width    string
}

// LaTeX renders the figure environment.
func (f Figure) LaTeX() string {
	width := f.Width
	if width == "" {
		width = "0.8\\linewidth"
	}
	return fmt.Sprintf(`\begin{figure}[t]
\centering
\includegraphics[width=%s]{%s}
\caption{%s}
\label{%s}
\end{figure}`, width, f.Filename, f.Caption, f.Label)
}

// Paper is a complete generated document.
type Paper struct {
	ID          string
	Title       string
	Authors     []Author
	Abstract    string
	Sections    []Section
	References  []Reference
	Figures     []Figure
	Metadata    map[string]string
	GeneratedAt time.Time
}

// New creates an empty paper with a fresh time-sortable identity.
func New(title string) *Paper {
	return &Paper{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Title:       title,
		Metadata:    make(map[string]string),
		GeneratedAt: time.Now(),
	}
}

// LaTeX renders the complete IEEEtran conference document.
func (p *Paper) LaTeX() string {
	var lines []string

	lines = append(lines,
		"\\documentclass[conference]{IEEEtran}",
		"\\IEEEoverridecommandlockouts",
		"\\usepackage{graphicx}",
		"\\usepackage{epsfig}",
		"\\usepackage{epstopdf}",
		"\\usepackage{amsmath}",
		"\\usepackage{hyperref}",
		"",
		"\\begin{document}",
		"",
		fmt.Sprintf("\\title{%s}", p.Title),
		"",
	)

	if len(p.Authors) == 1 {
		lines = append(lines, p.Authors[0].LaTeX())
	} else if len(p.Authors) > 1 {
		lines = append(lines, "\\author{")
		for i, a := range p.Authors {
			if i > 0 {
				lines = append(lines, "\\and")
			}
			lines = append(lines, fmt.Sprintf("\\IEEEauthorblockN{%s}", a.Name))
			if a.Institution != "" {
				lines = append(lines, fmt.Sprintf("\\IEEEauthorblockA{%s}", a.Institution))
			}
		}
		lines = append(lines, "}")
	}

	lines = append(lines, "", "\\maketitle", "")

	if p.Abstract != "" {
		lines = append(lines,
			"\\begin{abstract}",
			p.Abstract,
			"\\end{abstract}",
			"",
		)
	}

	for _, s := range p.Sections {
		lines = append(lines, s.LaTeX(), "")
	}

	if len(p.References) > 0 {
		// Trigger column balancing at the last reference.
		lines = append(lines,
			fmt.Sprintf("\\IEEEtriggeratref{%d}", len(p.References)),
			"\\bibliographystyle{IEEEtran}",
			"\\bibliography{references}",
		)
	}

	lines = append(lines, "\\end{document}")
	return strings.Join(lines, "\n")
}

// BibTeX renders every reference, blank-line separated.
func (p *Paper) BibTeX() string {
	entries := make([]string, 0, len(p.References))
	for _, r := range p.References {
		entries = append(entries, r.BibTeX())
	}
	return strings.Join(entries, "\n\n")
}

// SaveLaTeX writes the rendered document, creating parent directories.
func (p *Paper) SaveLaTeX(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(p.LaTeX()), 0o644)
}

// SaveBibTeX writes the rendered bibliography, creating parent directories.
func (p *Paper) SaveBibTeX(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(p.BibTeX()), 0o644)
}
