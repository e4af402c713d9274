package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/scrivener/internal/generator"
)

// ExpandOptions holds flags for the expand command.
type ExpandOptions struct {
	*RootOptions
	RulesFile string
	Start     string
	Pretty    bool
	Count     int
}

// NewExpandCommand creates the expand command.
func NewExpandCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExpandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "expand [NAME=VALUE...]",
		Short: "Expand a single grammar symbol",
		Long: `Expand a start symbol against a rules file and print the result.

Positional NAME=VALUE arguments inject context variables that shadow
grammar rules during expansion.

Example:
  scrivener expand --file data/rules.txt --start SCI_TITLE
  scrivener expand --file data/rules.txt --start SCI_ABSTRACT SYSNAME=Marmot`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExpand(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.RulesFile, "file", "f", "", "path to rules file (required)")
	cmd.Flags().StringVar(&opts.Start, "start", "START", "start symbol")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "apply text cleanup to the output")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of expansions to print")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runExpand(opts *ExpandOptions, args []string, cmd *cobra.Command) error {
	context, err := parseContextArgs(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid context argument", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen, err := generator.NewSimple(opts.RulesFile, seed)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load rules", err)
	}
	gen.Engine().SetContextMap(context)

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	for i := 0; i < opts.Count; i++ {
		if err := formatter.Success(gen.Generate(opts.Start, opts.Pretty)); err != nil {
			return err
		}
	}
	return nil
}

// parseContextArgs turns NAME=VALUE pairs into context variables. Repeating
// a name accumulates values.
func parseContextArgs(args []string) (map[string][]string, error) {
	context := make(map[string][]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected NAME=VALUE, got %q", arg)
		}
		context[name] = append(context[name], value)
	}
	return context, nil
}
