package generator

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/katalvlaran/lvlath/core"

	"github.com/inkwell-labs/scrivener/internal/grammar"
)

// DiagramGenerator produces the architecture diagrams papers love: a random
// connected digraph with grammar-expanded labels, serialized as Graphviz DOT.
//
// Node identifiers are zero-padded so lexicographic vertex order matches
// creation order and the DOT output is stable for a fixed seed.
type DiagramGenerator struct {
	rng    *rand.Rand
	engine *grammar.Engine
}

// NewDiagram builds a diagram generator. engine may be nil; labels then fall
// back to a built-in vocabulary.
func NewDiagram(seed int64, engine *grammar.Engine) *DiagramGenerator {
	return &DiagramGenerator{
		rng:    rand.New(rand.NewSource(seed)),
		engine: engine,
	}
}

// Diagram is a labeled digraph ready for DOT serialization.
type Diagram struct {
	Name       string
	graph      *core.Graph
	nodeLabels map[string]string
	edgeLabels map[string]string
}

var fallbackNodeLabels = []string{
	"Kernel", "Scheduler", "Cache", "Disk", "Network", "JVM",
	"Userspace", "Simulator", "Emulator", "Shell",
}

var fallbackEdgeLabels = []string{
	"yes", "no", "goto", "stop", "start",
}

// Generate builds a connected digraph with nodes in [minNodes, maxNodes].
// Every node after the first attaches to an earlier one, so the diagram has
// no orphans; a handful of extra edges make it look suitably tangled.
func (d *DiagramGenerator) Generate(name string, minNodes, maxNodes int) (*Diagram, error) {
	if minNodes < 2 || maxNodes < minNodes {
		return nil, fmt.Errorf("diagram: invalid node bounds [%d, %d]", minNodes, maxNodes)
	}

	n := minNodes + d.rng.Intn(maxNodes-minNodes+1)
	g, err := core.NewGraph(core.WithDirected(true))
	if err != nil {
		return nil, fmt.Errorf("diagram: creating graph: %w", err)
	}
	diag := &Diagram{
		Name:       name,
		graph:      g,
		nodeLabels: make(map[string]string, n),
		edgeLabels: make(map[string]string),
	}

	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("n%02d", i)
		if err := diag.graph.AddVertex(ids[i]); err != nil {
			return nil, fmt.Errorf("diagram: adding node %s: %w", ids[i], err)
		}
		diag.nodeLabels[ids[i]] = d.nodeLabel(i)
	}

	seen := make(map[[2]string]bool)
	addEdge := func(from, to string) error {
		key := [2]string{from, to}
		if from == to || seen[key] {
			return nil
		}
		id, err := diag.graph.AddEdge(from, to, 0)
		if err != nil {
			return fmt.Errorf("diagram: adding edge %s->%s: %w", from, to, err)
		}
		seen[key] = true
		diag.edgeLabels[id] = d.edgeLabel()
		return nil
	}

	for i := 1; i < n; i++ {
		if err := addEdge(ids[d.rng.Intn(i)], ids[i]); err != nil {
			return nil, err
		}
	}
	extra := n/3 + d.rng.Intn(n-n/3+1)
	for i := 0; i < extra; i++ {
		if err := addEdge(ids[d.rng.Intn(n)], ids[d.rng.Intn(n)]); err != nil {
			return nil, err
		}
	}
	return diag, nil
}

func (d *DiagramGenerator) nodeLabel(i int) string {
	if d.engine != nil && d.engine.Rules().Contains("NODE_LABEL") {
		return d.engine.Expand("NODE_LABEL")
	}
	if i < len(fallbackNodeLabels) {
		return fallbackNodeLabels[i]
	}
	return fmt.Sprintf("%s %d", fallbackNodeLabels[d.rng.Intn(len(fallbackNodeLabels))], i)
}

func (d *DiagramGenerator) edgeLabel() string {
	if d.engine != nil && d.engine.Rules().Contains("EDGE_LABEL") {
		return d.engine.Expand("EDGE_LABEL")
	}
	return fallbackEdgeLabels[d.rng.Intn(len(fallbackEdgeLabels))]
}

// NodeCount reports the number of nodes.
func (g *Diagram) NodeCount() int {
	return len(g.graph.Vertices())
}

// EdgeCount reports the number of edges.
func (g *Diagram) EdgeCount() int {
	return len(g.graph.Edges())
}

// WriteDOT serializes the diagram as Graphviz DOT. Nodes come out in
// identifier order and edges in insertion order, so output is deterministic.
func (g *Diagram) WriteDOT(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", sanitizeDOTName(g.Name))
	b.WriteString("    layout=dot;\n")
	b.WriteString("    node [shape=box];\n")

	vertices := g.graph.Vertices()
	sort.Strings(vertices)
	for _, v := range vertices {
		fmt.Fprintf(&b, "    %s [label=%q];\n", v, g.nodeLabels[v])
	}
	// Edge IDs are "e" plus a counter; sort numerically to recover
	// insertion order.
	edges := g.graph.Edges()
	sort.Slice(edges, func(i, j int) bool {
		return len(edges[i].ID) < len(edges[j].ID) ||
			(len(edges[i].ID) == len(edges[j].ID) && edges[i].ID < edges[j].ID)
	})
	for _, e := range edges {
		fmt.Fprintf(&b, "    %s -> %s [label=%q];\n", e.From, e.To, g.edgeLabels[e.ID])
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// SaveDOT writes the DOT file to path, creating parent directories.
func (g *Diagram) SaveDOT(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("diagram: creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("diagram: creating %s: %w", path, err)
	}
	defer f.Close()
	return g.WriteDOT(f)
}

func sanitizeDOTName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "G"
	}
	return b.String()
}
