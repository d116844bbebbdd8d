package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tropism/lsys/internal/grammars"
)

// GrammarInfo describes one registered grammar.
type GrammarInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AxiomLength int    `json:"axiom_length"`
	Rules       int    `json:"rules"`
	HasParam    bool   `json:"has_param"`
}

// NewGrammarsCommand creates the grammars command.
func NewGrammarsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammars",
		Short: "List the registered grammars",
		Long: `List the registered grammar definitions.

Examples:
  lsys grammars
  lsys grammars --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listGrammars(rootOpts, cmd)
		},
	}
	return cmd
}

func listGrammars(opts *RootOptions, cmd *cobra.Command) error {
	names := grammars.Names()

	infos := make([]GrammarInfo, 0, len(names))
	for _, name := range names {
		def, err := grammars.Lookup(name)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to resolve grammar", err)
		}
		infos = append(infos, GrammarInfo{
			Name:        def.Name,
			Description: def.Description,
			AxiomLength: len(def.Axiom),
			Rules:       def.Grammar.Len(),
			HasParam:    def.DefaultParam != nil,
		})
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), infos)
	}

	w := cmd.OutOrStdout()
	styles := NewStyles(DefaultTheme)
	if len(infos) == 0 {
		fmt.Fprintln(w, "No grammars registered.")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(w, "%s  %s\n", styles.Header.Render(info.Name), styles.Meta.Render(info.Description))
		if opts.Verbose {
			fmt.Fprintf(w, "  axiom length %d, %d rules, parameterized: %t\n",
				info.AxiomLength, info.Rules, info.HasParam)
		}
	}
	return nil
}
