package generator

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/inkwell-labs/scrivener/internal/config"
	"github.com/inkwell-labs/scrivener/internal/grammar"
	"github.com/inkwell-labs/scrivener/internal/paper"
	"github.com/inkwell-labs/scrivener/internal/textproc"
)

// Version is stamped into generated paper metadata.
const Version = "1.0.0"

// sectionSpec maps a fixed paper section onto its grammar start symbol.
type sectionSpec struct {
	title string
	rule  string
	label string
}

var standardSections = []sectionSpec{
	{"Introduction", "SCI_INTRO", "sec:intro"},
	{"Model", "SCI_MODEL", "sec:model"},
	{"Implementation", "SCI_IMPL", "sec:impl"},
	{"Evaluation", "SCI_EVAL", "sec:eval"},
	{"Related Work", "SCI_RELWORK", "sec:related"},
	{"Conclusion", "SCI_CONCL", "sec:conclusion"},
}

var embeddedSectionRe = regexp.MustCompile(`\\section\{[^}]*\}\s*`)

// PaperGenerator coordinates one engine, the text processor, and the paper
// model into complete documents. It is single-use per goroutine, like the
// engine it owns.
type PaperGenerator struct {
	cfg    config.Config
	engine *grammar.Engine
	proc   *textproc.Processor
	rng    *rand.Rand
	log    *slog.Logger
}

// New builds a generator from cfg, loading the main rules file and, when
// present, the system-name dictionary. The config seed drives both the
// engine and the generator's own structural choices, so a fixed seed
// reproduces the whole paper.
func New(cfg config.Config) (*PaperGenerator, error) {
	g := &PaperGenerator{
		cfg:    cfg,
		engine: grammar.New(grammar.WithSeed(cfg.Seed)),
		proc:   textproc.New(),
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		log:    slog.Default(),
	}

	if err := g.engine.Load(cfg.RulesFile()); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.SystemNamesFile()); err == nil {
		if err := g.engine.Load(cfg.SystemNamesFile()); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Engine exposes the underlying engine, mainly for tests and the expand CLI.
func (g *PaperGenerator) Engine() *grammar.Engine {
	return g.engine
}

// Generate produces one complete paper.
func (g *PaperGenerator) Generate() (*paper.Paper, error) {
	g.engine.Reset()

	sysname := g.SystemName()
	g.engine.SetContext("SYSNAME", sysname)
	g.engine.SetContext("AUTHOR_NAME", g.cfg.Authors...)

	p := paper.New(g.generateTitle())
	p.Authors = g.authors()
	p.Abstract = g.generateBody("SCI_ABSTRACT")
	for _, spec := range standardSections {
		p.Sections = append(p.Sections, paper.Section{
			Title:   spec.title,
			Content: g.generateBody(spec.rule),
			Label:   spec.label,
		})
	}
	p.References = g.generateReferences(sysname)
	p.Metadata["seed"] = fmt.Sprintf("%d", g.cfg.Seed)
	p.Metadata["generator_version"] = Version
	p.Metadata["system_name"] = sysname

	g.log.Info("paper generated",
		"id", p.ID,
		"title", p.Title,
		"sections", len(p.Sections),
		"references", len(p.References))
	return p, nil
}

// SystemName expands a fresh system name, capitalized for use in titles.
func (g *PaperGenerator) SystemName() string {
	name := g.engine.Expand("SYSTEM_NAME")
	if name == "" || name == "SYSTEM_NAME" {
		return "SysX"
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func (g *PaperGenerator) generateTitle() string {
	title := g.engine.Expand("SCI_TITLE")
	if g.cfg.PrettyPrint {
		title = g.proc.FixArticles(g.proc.CapitalizeTitle(title))
	}
	return title
}

func (g *PaperGenerator) generateBody(rule string) string {
	content := g.engine.Expand(rule)
	if g.cfg.PrettyPrint {
		content = g.proc.PrettyPrint(content, textproc.CaseSentence)
	}
	// Section headers come from the paper model; embedded ones would
	// duplicate them.
	return embeddedSectionRe.ReplaceAllString(content, "")
}

func (g *PaperGenerator) authors() []paper.Author {
	authors := make([]paper.Author, 0, len(g.cfg.Authors))
	for _, name := range g.cfg.Authors {
		authors = append(authors, paper.Author{Name: name, Institution: g.cfg.Institution})
	}
	return authors
}

// generateReferences expands 10-30 bibliography entries. Each entry gets its
// own system name and citation label; configured authors are folded into the
// citation-source pool so they show up among the references.
func (g *PaperGenerator) generateReferences(sysname string) []paper.Reference {
	for i := 0; i < 10; i++ {
		for _, name := range g.cfg.Authors {
			g.engine.AddRule("SCI_SOURCE", name, 1)
		}
	}

	count := 10 + g.rng.Intn(21)
	refs := make([]paper.Reference, 0, count)
	for i := 0; i < count; i++ {
		label := fmt.Sprintf("cite:%d", i)
		g.engine.SetRule("CITE_LABEL_GIVEN", label)
		g.engine.SetContext("SYSNAME", g.SystemName())

		entry := g.engine.Expand("BIBTEX_ENTRY")
		ref, ok := parseBibTeXEntry(entry, label)
		if !ok {
			g.log.Warn("skipping unparseable bibliography entry", "label", label)
			continue
		}
		refs = append(refs, ref)
	}

	g.engine.SetContext("SYSNAME", sysname)
	return refs
}

var (
	bibEntryTypeRe = regexp.MustCompile(`@(\w+)\s*\{`)
	// Bare values stop at whitespace, field separators, and the closing
	// brace so `year = 1999,}` captures just the number.
	bibFieldRe = regexp.MustCompile(`(\w+)\s*=\s*\{([^}]+)\}|(\w+)\s*=\s*([^\s,}]+)`)
)

// parseBibTeXEntry extracts the entry type and fields from grammar-produced
// BibTeX text. Entries the grammar mangled beyond recognition are dropped by
// the caller rather than failing the run.
func parseBibTeXEntry(text, key string) (paper.Reference, bool) {
	m := bibEntryTypeRe.FindStringSubmatch(text)
	if m == nil {
		return paper.Reference{}, false
	}

	fields := make(map[string]string)
	for _, f := range bibFieldRe.FindAllStringSubmatch(text, -1) {
		if f[1] != "" {
			fields[f[1]] = f[2]
		} else {
			fields[f[3]] = f[4]
		}
	}

	return paper.Reference{
		Key:       key,
		EntryType: strings.ToLower(m[1]),
		Fields:    fields,
	}, true
}

// SimpleGenerator is the low-level interface: one rules file, one start
// symbol, no paper structure.
type SimpleGenerator struct {
	engine *grammar.Engine
	proc   *textproc.Processor
}

// NewSimple loads rulesFile into a seeded engine.
func NewSimple(rulesFile string, seed int64) (*SimpleGenerator, error) {
	e := grammar.New(grammar.WithSeed(seed))
	if err := e.Load(rulesFile); err != nil {
		return nil, err
	}
	return &SimpleGenerator{engine: e, proc: textproc.New()}, nil
}

// Engine exposes the underlying engine for context injection.
func (s *SimpleGenerator) Engine() *grammar.Engine {
	return s.engine
}

// Generate expands start, optionally pretty-printed.
func (s *SimpleGenerator) Generate(start string, pretty bool) string {
	text := s.engine.Expand(start)
	if pretty {
		text = s.proc.PrettyPrint(text, textproc.CaseSentence)
	}
	return text
}
