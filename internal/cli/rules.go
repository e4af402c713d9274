package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-labs/scrivener/internal/grammar"
)

// RulesOptions holds flags for the rules command.
type RulesOptions struct {
	*RootOptions
	Names bool
}

// ruleSummary is the JSON shape of one rule in the listing.
type ruleSummary struct {
	Name         string `json:"name"`
	Alternatives int    `json:"alternatives"`
	NoDuplicates bool   `json:"no_duplicates,omitempty"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rules <rules-file>",
		Short: "Inspect a grammar rules file",
		Long: `Load a rules file (following includes) and summarize its contents.

Example:
  scrivener rules data/rules.txt
  scrivener rules --names data/rules.txt --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Names, "names", false, "list every rule instead of totals")

	return cmd
}

func runRules(opts *RulesOptions, path string, cmd *cobra.Command) error {
	engine := grammar.New()
	if err := engine.Load(path); err != nil {
		return WrapExitError(ExitCommandError, "failed to load rules", err)
	}
	rs := engine.Rules()

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		if !opts.Names {
			return formatter.Success(map[string]interface{}{
				"path":  path,
				"rules": rs.Len(),
			})
		}
		summaries := make([]ruleSummary, 0, rs.Len())
		for _, name := range rs.Names() {
			rule, _ := rs.Get(name)
			summaries = append(summaries, ruleSummary{
				Name:         name,
				Alternatives: len(rule.Expansions),
				NoDuplicates: rule.NoDuplicates,
			})
		}
		return formatter.Success(summaries)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d rules\n", path, rs.Len())
	if !opts.Names {
		return nil
	}
	for _, name := range rs.Names() {
		rule, _ := rs.Get(name)
		marker := ""
		if rule.NoDuplicates {
			marker = " (dedup)"
		}
		fmt.Fprintf(out, "  %-30s %d alternatives%s\n", name, len(rule.Expansions), marker)
	}
	return nil
}
