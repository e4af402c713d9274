package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRules drops a rules file into dir and returns its path.
func writeRules(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_SimpleRules(t *testing.T) {
	dir := t.TempDir()
	path := writeRules(t, dir, "rules.txt", `
# comment line
GREETING hello world
FAREWELL goodbye
`)

	e := New(WithSeed(1))
	require.NoError(t, e.Load(path))

	assert.True(t, e.Rules().Contains("GREETING"))
	assert.True(t, e.Rules().Contains("FAREWELL"))

	r, _ := e.Rules().Get("GREETING")
	assert.Equal(t, []string{"hello world"}, r.Expansions)
}

func TestLoad_MissingFile(t *testing.T) {
	e := New(WithSeed(1))
	err := e.Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestParse_WeightSuffix(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse("TEST+3 value\n", "."))

	r, ok := e.Rules().Get("TEST")
	require.True(t, ok)
	assert.Len(t, r.Expansions, 3)
	for _, exp := range r.Expansions {
		assert.Equal(t, "value", exp)
	}
}

func TestParse_ZeroWeightSuffixIsPartOfName(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse("TEST+0 value\nTEST other\n", "."))

	// A zero weight is not a multiplier; the suffix stays in the name.
	r, ok := e.Rules().Get("TEST+0")
	require.True(t, ok)
	assert.Equal(t, []string{"value"}, r.Expansions)

	r, ok = e.Rules().Get("TEST")
	require.True(t, ok)
	assert.Len(t, r.Expansions, 1)
}

func TestParse_DedupMarkerLine(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse(`
COLOR!
COLOR red
COLOR green
`, "."))

	r, ok := e.Rules().Get("COLOR")
	require.True(t, ok)
	assert.True(t, r.NoDuplicates)
	assert.Len(t, r.Expansions, 2, "marker line defines no expansion")
}

func TestParse_DedupMarkerAfterDefinitions(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse("COLOR red\nCOLOR!\n", "."))

	r, _ := e.Rules().Get("COLOR")
	assert.True(t, r.NoDuplicates)
}

func TestParse_MultiLineBody(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse(`MULTI {
This is a
multiline
expansion
}
`, "."))

	r, ok := e.Rules().Get("MULTI")
	require.True(t, ok)
	require.Len(t, r.Expansions, 1)
	assert.Equal(t, "This is a\nmultiline\nexpansion", r.Expansions[0])
}

func TestParse_MultiLineBodyTrimsTrailingWhitespace(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse("MULTI {\nline one   \nline two\t\n}\n", "."))

	r, _ := e.Rules().Get("MULTI")
	assert.Equal(t, "line one\nline two", r.Expansions[0])
}

func TestParse_EscapedOperatorInName(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse("CITATIONLABEL\\+ the label\n", "."))

	// The stored name carries a literal + suffix.
	assert.True(t, e.Rules().Contains("CITATIONLABEL+"))
	assert.False(t, e.Rules().Contains("CITATIONLABEL"))
}

func TestParse_EscapedOperatorWithoutBodyIsDiscarded(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse("CITATIONLABEL\\+\n", "."))

	// Declares only that the literal-operator form is not a rule; the
	// reference falls through to counter handling at expansion time.
	assert.False(t, e.Rules().Contains("CITATIONLABEL+"))
	assert.Equal(t, 0, e.Rules().Len())
}

func TestParse_EscapedBang(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse(`WOW\! amazing`+"\n", "."))

	r, ok := e.Rules().Get("WOW!")
	require.True(t, ok)
	assert.False(t, r.NoDuplicates, "escaped bang is a literal, not a marker")
	assert.Equal(t, []string{"amazing"}, r.Expansions)
}

func TestLoad_IncludeDirective(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "common.txt", "SHARED common value\n")
	main := writeRules(t, dir, "main.txt", ".include common.txt\nLOCAL local value\n")

	e := New(WithSeed(1))
	require.NoError(t, e.Load(main))

	assert.True(t, e.Rules().Contains("SHARED"))
	assert.True(t, e.Rules().Contains("LOCAL"))
}

func TestLoad_IncludeResolvesRelativeToIncludingFile(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, filepath.Join("sub", "leaf.txt"), "LEAF leaf value\n")
	writeRules(t, dir, filepath.Join("sub", "mid.txt"), ".include leaf.txt\n")
	main := writeRules(t, dir, "main.txt", ".include sub/mid.txt\n")

	e := New(WithSeed(1))
	require.NoError(t, e.Load(main))
	assert.True(t, e.Rules().Contains("LEAF"))
}

func TestLoad_IncludeIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "common.txt", "SHARED value\n")
	// Two include paths resolving to the same file must not duplicate rules.
	main := writeRules(t, dir, "main.txt",
		".include common.txt\n.include ./common.txt\n")

	e := New(WithSeed(1))
	require.NoError(t, e.Load(main))

	r, _ := e.Rules().Get("SHARED")
	assert.Len(t, r.Expansions, 1, "diamond includes must not duplicate definitions")
}

func TestLoad_IncludeCycleTerminates(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "a.txt", ".include b.txt\nA from a\n")
	b := writeRules(t, dir, "b.txt", ".include a.txt\nB from b\n")
	_ = b

	e := New(WithSeed(1))
	require.NoError(t, e.Load(filepath.Join(dir, "a.txt")))
	assert.True(t, e.Rules().Contains("A"))
	assert.True(t, e.Rules().Contains("B"))
}

func TestLoad_IncludeMissingTarget(t *testing.T) {
	dir := t.TempDir()
	main := writeRules(t, dir, "main.txt", ".include missing.txt\n")

	e := New(WithSeed(1))
	err := e.Load(main)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestLoad_MalformedInclude(t *testing.T) {
	dir := t.TempDir()
	main := writeRules(t, dir, "main.txt", "OK fine\n.include\n")

	e := New(WithSeed(1))
	err := e.Load(main)
	require.Error(t, err)
	assert.True(t, IsMalformedDirective(err))

	// Rules loaded before the failure survive.
	assert.True(t, e.Rules().Contains("OK"))
}

func TestParse_BlankAndCommentLinesIgnored(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse("\n\n# nothing here\n   \nREAL value\n", "."))
	assert.Equal(t, 1, e.Rules().Len())
}

func TestParse_AdditiveDefinitionAcrossLines(t *testing.T) {
	e := New(WithSeed(1))
	require.NoError(t, e.Parse("NOUN cat\nNOUN dog\nNOUN+2 fish\n", "."))

	r, _ := e.Rules().Get("NOUN")
	assert.Len(t, r.Expansions, 4)
}
