package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/scrivener/internal/config"
)

const testGrammar = `# minimal paper grammar for tests
SYSTEM_NAME marmot
SCI_TITLE deconstructing SYSNAME
SCI_ABSTRACT we argue that SYSNAME is optimal.
SCI_INTRO \section{Introduction} in this work we motivate SYSNAME.
SCI_MODEL our model of SYSNAME follows.
SCI_IMPL the implementation of SYSNAME is straightforward.
SCI_EVAL SYSNAME performs well.
SCI_RELWORK prior work resembles SYSNAME.
SCI_CONCL in conclusion, SYSNAME works.
SCI_SOURCE A. Turing
BIBTEX_ENTRY @article{CITE_LABEL_GIVEN, author = {SCI_SOURCE}, title = {a study of SYSNAME}, year = 2001,}
`

func testConfig(t *testing.T, seed int64) config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.txt"), []byte(testGrammar), 0o644))

	cfg := config.Default()
	cfg.Seed = seed
	cfg.DataDir = dir
	cfg.Authors = []string{"Alice P. Hacker"}
	return cfg
}

func TestNew_MissingRules(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "nowhere")

	_, err := New(cfg)
	require.Error(t, err)
}

func TestPaperGenerator_Generate(t *testing.T) {
	g, err := New(testConfig(t, 42))
	require.NoError(t, err)

	p, err := g.Generate()
	require.NoError(t, err)

	assert.Equal(t, "Deconstructing Marmot", p.Title)
	assert.Equal(t, "We argue that Marmot is optimal.", p.Abstract)

	require.Len(t, p.Sections, 6)
	assert.Equal(t, "Introduction", p.Sections[0].Title)
	assert.Equal(t, "Conclusion", p.Sections[5].Title)
	// Embedded section headers are stripped; the paper model owns them.
	assert.NotContains(t, p.Sections[0].Content, `\section`)
	assert.Contains(t, p.Sections[0].Content, "we motivate Marmot")

	require.Len(t, p.Authors, 1)
	assert.Equal(t, "Alice P. Hacker", p.Authors[0].Name)

	assert.GreaterOrEqual(t, len(p.References), 10)
	assert.LessOrEqual(t, len(p.References), 30)
	for i, ref := range p.References {
		assert.Equal(t, "article", ref.EntryType, "reference %d", i)
		assert.Equal(t, "a study of Marmot", ref.Fields["title"])
		assert.Equal(t, "2001", ref.Fields["year"])
		assert.NotEmpty(t, ref.Fields["author"])
	}
	assert.Equal(t, "cite:0", p.References[0].Key)

	assert.Equal(t, "42", p.Metadata["seed"])
	assert.Equal(t, "Marmot", p.Metadata["system_name"])
}

func TestPaperGenerator_SeedReproducibility(t *testing.T) {
	g1, err := New(testConfig(t, 7))
	require.NoError(t, err)
	g2, err := New(testConfig(t, 7))
	require.NoError(t, err)

	p1, err := g1.Generate()
	require.NoError(t, err)
	p2, err := g2.Generate()
	require.NoError(t, err)

	assert.Equal(t, p1.Title, p2.Title)
	assert.Equal(t, p1.Abstract, p2.Abstract)
	assert.Equal(t, len(p1.References), len(p2.References))
	for i := range p1.Sections {
		assert.Equal(t, p1.Sections[i].Content, p2.Sections[i].Content)
	}
}

func TestSystemName_Capitalized(t *testing.T) {
	g, err := New(testConfig(t, 1))
	require.NoError(t, err)

	assert.Equal(t, "Marmot", g.SystemName())
}

func TestParseBibTeXEntry(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		ok    bool
		etype string
		check map[string]string
	}{
		{
			name:  "braced fields",
			text:  `@article{x, author = {A. Turing}, title = {On Computable Numbers}}`,
			ok:    true,
			etype: "article",
			check: map[string]string{"author": "A. Turing", "title": "On Computable Numbers"},
		},
		{
			name:  "bare field value",
			text:  "@inproceedings{x, year = 1999,}",
			ok:    true,
			etype: "inproceedings",
			check: map[string]string{"year": "1999"},
		},
		{
			name:  "bare value before another field",
			text:  "@book{x, year = 2004, publisher = {ACM},}",
			ok:    true,
			etype: "book",
			check: map[string]string{"year": "2004", "publisher": "ACM"},
		},
		{
			name: "no entry marker",
			text: "just some prose the grammar produced",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := parseBibTeXEntry(tt.text, "cite:9")
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, "cite:9", ref.Key)
			assert.Equal(t, tt.etype, ref.EntryType)
			for k, v := range tt.check {
				assert.Equal(t, v, ref.Fields[k])
			}
		})
	}
}

func TestSimpleGenerator(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.txt")
	require.NoError(t, os.WriteFile(path, []byte("GREETING hello, world.\n"), 0o644))

	g, err := NewSimple(path, 3)
	require.NoError(t, err)

	assert.Equal(t, "hello, world.", g.Generate("GREETING", false))
	assert.Equal(t, "Hello, world.", g.Generate("GREETING", true))
}

func TestSimpleGenerator_MissingFile(t *testing.T) {
	_, err := NewSimple(filepath.Join(t.TempDir(), "nope.txt"), 0)
	require.Error(t, err)
}
