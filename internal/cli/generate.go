package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/scrivener/internal/config"
	"github.com/inkwell-labs/scrivener/internal/generator"
	"github.com/inkwell-labs/scrivener/internal/grammar"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	OutputDir string
	Name      string
	Diagram   bool
	Figures   bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a complete paper",
		Long: `Generate a randomized paper from the grammar rules.

Writes the LaTeX source and BibTeX bibliography to the output directory,
optionally with an architecture diagram (Graphviz DOT) and performance
figures (gnuplot).

Example:
  scrivener generate --seed 42 -o ./out
  scrivener generate --config scrivener.yaml --diagram --figures`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputDir, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.Name, "name", "paper", "output file basename")
	cmd.Flags().BoolVar(&opts.Diagram, "diagram", false, "also emit an architecture diagram")
	cmd.Flags().BoolVar(&opts.Figures, "figures", false, "also emit performance figures")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}

	gen, err := generator.New(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load grammar", err)
	}

	p, err := gen.Generate()
	if err != nil {
		return WrapExitError(ExitFailure, "generation failed", err)
	}

	texPath := filepath.Join(cfg.OutputDir, opts.Name+".tex")
	if err := p.SaveLaTeX(texPath); err != nil {
		return WrapExitError(ExitFailure, "failed to write LaTeX", err)
	}
	bibPath := filepath.Join(cfg.OutputDir, "references.bib")
	if err := p.SaveBibTeX(bibPath); err != nil {
		return WrapExitError(ExitFailure, "failed to write BibTeX", err)
	}

	if opts.Diagram {
		if err := emitDiagram(cfg, opts, p.Metadata["system_name"]); err != nil {
			return WrapExitError(ExitFailure, "failed to write diagram", err)
		}
	}
	if opts.Figures {
		if err := emitFigures(cfg, opts); err != nil {
			return WrapExitError(ExitFailure, "failed to write figures", err)
		}
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(map[string]interface{}{
			"title":      p.Title,
			"seed":       cfg.Seed,
			"latex":      texPath,
			"bibtex":     bibPath,
			"references": len(p.References),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Title: %s\n", p.Title)
	fmt.Fprintf(out, "Seed:  %d\n", cfg.Seed)
	fmt.Fprintf(out, "Wrote %s and %s (%d references)\n", texPath, bibPath, len(p.References))
	return nil
}

func emitDiagram(cfg config.Config, opts *GenerateOptions, sysname string) error {
	var labelEngine *grammar.Engine
	if _, err := os.Stat(cfg.GraphvizRulesFile()); err == nil {
		labelEngine = grammar.New(grammar.WithSeed(cfg.Seed))
		if err := labelEngine.Load(cfg.GraphvizRulesFile()); err != nil {
			return err
		}
	}

	diag, err := generator.NewDiagram(cfg.Seed, labelEngine).Generate(sysname, 5, 12)
	if err != nil {
		return err
	}
	return diag.SaveDOT(filepath.Join(cfg.OutputDir, opts.Name+"-arch.dot"))
}

func emitFigures(cfg config.Config, opts *GenerateOptions) error {
	fg := generator.NewFigure(cfg.Seed, nil)
	for _, spec := range []struct {
		name string
		kind generator.PlotKind
	}{
		{opts.Name + "-perf", generator.PlotLine},
		{opts.Name + "-bench", generator.PlotBar},
	} {
		if err := fg.Generate(spec.name, spec.kind).Save(cfg.OutputDir); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig layers the config file, the --seed flag, and an entropy seed.
// The picked seed is logged so any run can be reproduced.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		cfg, err = config.LoadFile(opts.ConfigFile)
		if err != nil {
			return cfg, err
		}
	}
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
		slog.Info("picked random seed", "seed", cfg.Seed)
	}
	if opts.Verbose {
		cfg.Verbosity = 1
	}
	return cfg, nil
}
