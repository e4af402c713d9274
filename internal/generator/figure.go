package generator

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkwell-labs/scrivener/internal/grammar"
)

// PlotKind selects the shape of a generated figure.
type PlotKind int

const (
	PlotLine PlotKind = iota
	PlotScatter
	PlotBar
)

func (k PlotKind) String() string {
	switch k {
	case PlotLine:
		return "line"
	case PlotScatter:
		return "scatter"
	case PlotBar:
		return "bar"
	default:
		return fmt.Sprintf("PlotKind(%d)", int(k))
	}
}

// Figure holds a rendered gnuplot script and its data file. Both are plain
// text; gnuplot turns them into EPS for the paper.
type Figure struct {
	Name   string
	Kind   PlotKind
	Script string
	Data   string
	Title  string
	XLabel string
	YLabel string
}

// FigureGenerator fabricates performance figures: plausible data series with
// trend plus noise, and axis labels from the grammar when one is provided.
type FigureGenerator struct {
	rng    *rand.Rand
	engine *grammar.Engine
}

// NewFigure builds a figure generator. engine may be nil; labels then fall
// back to generic performance-speak.
func NewFigure(seed int64, engine *grammar.Engine) *FigureGenerator {
	return &FigureGenerator{
		rng:    rand.New(rand.NewSource(seed)),
		engine: engine,
	}
}

const (
	linePoints    = 20
	lineSeries    = 3
	scatterPoints = 100
	barCount      = 10
)

// Generate produces a figure of the given kind named name. The name becomes
// the script and data file basenames.
func (f *FigureGenerator) Generate(name string, kind PlotKind) *Figure {
	fig := &Figure{
		Name:   name,
		Kind:   kind,
		Title:  f.label("GRAPH_TITLE", "System Performance"),
		XLabel: f.label("GRAPH_XLABEL", "Time (ms)"),
		YLabel: f.label("GRAPH_YLABEL", "Throughput (MB/s)"),
	}

	switch kind {
	case PlotScatter:
		fig.Data = f.scatterData()
		fig.Script = f.script(fig, fmt.Sprintf("plot %q using 1:2 with points pt 7 ps 0.6 notitle", name+".dat"))
	case PlotBar:
		fig.Data = f.barData()
		fig.Script = f.script(fig,
			"set style fill solid 0.6 border -1\n"+
				"set boxwidth 0.6\n"+
				fmt.Sprintf("plot %q using 1:3:xtic(2) with boxes notitle", name+".dat"))
	default:
		fig.Data = f.lineData()
		plots := make([]string, lineSeries)
		for i := 0; i < lineSeries; i++ {
			plots[i] = fmt.Sprintf("%q using 1:%d with linespoints title %q",
				name+".dat", i+2, fmt.Sprintf("Method %d", i+1))
		}
		fig.Script = f.script(fig, "plot "+strings.Join(plots, ", \\\n     "))
	}
	return fig
}

func (f *FigureGenerator) label(rule, fallback string) string {
	if f.engine != nil && f.engine.Rules().Contains(rule) {
		return f.engine.Expand(rule)
	}
	return fallback
}

func (f *FigureGenerator) script(fig *Figure, plotCmd string) string {
	var b strings.Builder
	b.WriteString("set terminal postscript eps enhanced monochrome 14\n")
	fmt.Fprintf(&b, "set output %q\n", fig.Name+".eps")
	fmt.Fprintf(&b, "set title %q\n", fig.Title)
	fmt.Fprintf(&b, "set xlabel %q\n", fig.XLabel)
	fmt.Fprintf(&b, "set ylabel %q\n", fig.YLabel)
	b.WriteString("set grid\n")
	b.WriteString(plotCmd)
	b.WriteString("\n")
	return b.String()
}

// lineData emits linePoints rows of x plus lineSeries y columns. Each series
// gets an increasing, decreasing, or flat trend with Gaussian noise, clamped
// at zero.
func (f *FigureGenerator) lineData() string {
	type series struct {
		slope, offset, sigma float64
	}
	ss := make([]series, lineSeries)
	for i := range ss {
		switch f.rng.Intn(3) {
		case 0:
			ss[i] = series{0.5 + f.rng.Float64()*1.5, f.rng.Float64() * 50, 2 + f.rng.Float64()*8}
		case 1:
			ss[i] = series{-(0.5 + f.rng.Float64()*1.5), 50 + f.rng.Float64()*100, 2 + f.rng.Float64()*8}
		default:
			ss[i] = series{0, 20 + f.rng.Float64()*60, 2 + f.rng.Float64()*8}
		}
	}

	var b strings.Builder
	b.WriteString("# x")
	for i := 0; i < lineSeries; i++ {
		fmt.Fprintf(&b, " y%d", i+1)
	}
	b.WriteString("\n")
	for p := 0; p < linePoints; p++ {
		x := float64(p) * 100 / float64(linePoints-1)
		fmt.Fprintf(&b, "%.2f", x)
		for _, s := range ss {
			y := s.slope*x + s.offset + f.rng.NormFloat64()*s.sigma
			if y < 0 {
				y = 0
			}
			fmt.Fprintf(&b, " %.2f", y)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// scatterData emits x/y pairs with one of a few fixed correlations.
func (f *FigureGenerator) scatterData() string {
	correlations := []float64{-0.8, -0.5, 0, 0.5, 0.8}
	corr := correlations[f.rng.Intn(len(correlations))]

	var b strings.Builder
	b.WriteString("# x y\n")
	for i := 0; i < scatterPoints; i++ {
		x := f.rng.Float64() * 100
		y := x*corr + 50 + f.rng.NormFloat64()*15
		if y < 0 {
			y = 0
		}
		fmt.Fprintf(&b, "%.2f %.2f\n", x, y)
	}
	return b.String()
}

// barData emits index, configuration label, and height per bar.
func (f *FigureGenerator) barData() string {
	var b strings.Builder
	b.WriteString("# idx config height\n")
	for i := 0; i < barCount; i++ {
		h := 20 + f.rng.Float64()*80
		fmt.Fprintf(&b, "%d C%d %.2f\n", i, i+1, h)
	}
	return b.String()
}

// Save writes the script (.gp) and data (.dat) files under dir.
func (fig *Figure) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("figure: creating output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, fig.Name+".gp"), []byte(fig.Script), 0o644); err != nil {
		return fmt.Errorf("figure: writing script: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, fig.Name+".dat"), []byte(fig.Data), 0o644); err != nil {
		return fmt.Errorf("figure: writing data: %w", err)
	}
	return nil
}
