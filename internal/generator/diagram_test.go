package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/scrivener/internal/grammar"
)

func TestDiagramGenerator_Bounds(t *testing.T) {
	d := NewDiagram(1, nil)

	_, err := d.Generate("x", 1, 5)
	assert.Error(t, err)
	_, err = d.Generate("x", 5, 4)
	assert.Error(t, err)
}

func TestDiagramGenerator_Generate(t *testing.T) {
	d := NewDiagram(42, nil)

	diag, err := d.Generate("Marmot", 4, 8)
	require.NoError(t, err)

	n := diag.NodeCount()
	assert.GreaterOrEqual(t, n, 4)
	assert.LessOrEqual(t, n, 8)
	// The spanning pass attaches every node after the first to an earlier
	// one, so at least n-1 edges exist.
	assert.GreaterOrEqual(t, diag.EdgeCount(), n-1)
}

func TestDiagramGenerator_Deterministic(t *testing.T) {
	render := func() string {
		d := NewDiagram(99, nil)
		diag, err := d.Generate("Marmot", 5, 10)
		require.NoError(t, err)
		var b strings.Builder
		require.NoError(t, diag.WriteDOT(&b))
		return b.String()
	}

	assert.Equal(t, render(), render())
}

func TestDiagram_WriteDOT(t *testing.T) {
	d := NewDiagram(7, nil)
	diag, err := d.Generate("my system!", 3, 3)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, diag.WriteDOT(&b))
	dot := b.String()

	assert.True(t, strings.HasPrefix(dot, "digraph my_system_ {\n"))
	assert.Contains(t, dot, "    layout=dot;\n")
	assert.Contains(t, dot, "    node [shape=box];\n")
	assert.Contains(t, dot, `n00 [label=`)
	assert.Contains(t, dot, " -> ")
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}

func TestDiagramGenerator_GrammarLabels(t *testing.T) {
	e := grammar.New(grammar.WithSeed(1))
	require.NoError(t, e.Parse("NODE_LABEL Cache Bank\nEDGE_LABEL flush\n", "."))

	d := NewDiagram(3, e)
	diag, err := d.Generate("g", 3, 3)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, diag.WriteDOT(&b))
	assert.Contains(t, b.String(), `[label="Cache Bank"]`)
	assert.Contains(t, b.String(), `[label="flush"]`)
}

func TestDiagram_SaveDOT(t *testing.T) {
	d := NewDiagram(5, nil)
	diag, err := d.Generate("g", 3, 4)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "figures", "arch.dot")
	require.NoError(t, diag.SaveDOT(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph g {")
}
