package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/lintcfg/pkg/preset"
	"github.com/macropower/lintcfg/pkg/rule"
)

const rulesExamples = `  # Print the resolved typescript rules:
  lintcfg rules

  # Print the vue rules that are turned off:
  lintcfg rules -l vue --filter 'severity == "off"'

  # Print the stylistic rules with options, as JSON:
  lintcfg rules --filter 'plugin == "stylistic" && size(options) > 0' -o json`

type RulesArgs struct {
	*RootArgs

	Language string
	Filter   string
	Format   string
}

func NewRulesArgs(rootArgs *RootArgs) *RulesArgs {
	return &RulesArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RulesArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ra.Language, "language", "l", preset.TypeScript, "Language whose rule table is printed")
	cmd.Flags().StringVar(&ra.Filter, "filter", "", "CEL expression selecting rules")
	addFormatFlag(cmd, &ra.Format, FormatTable, FormatTable, FormatJSON, FormatYAML)

	err := cmd.RegisterFlagCompletionFunc("language",
		cobra.FixedCompletions(preset.MustLoad().Names(), cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewRulesCmd(ra *RulesArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Short:   "Print the resolved rule table of a language",
		Example: rulesExamples,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	return cmd
}

func runRules(cmd *cobra.Command, ra *RulesArgs) error {
	err := checkFormat(ra.Format, FormatTable, FormatJSON, FormatYAML)
	if err != nil {
		return err
	}

	var q *rule.Query
	if ra.Filter != "" {
		q, err = rule.NewQuery(ra.Filter)
		if err != nil {
			return fmt.Errorf("parse filter: %w", err)
		}
	}

	p, err := loadProject(cmd, ra.RootArgs, ".")
	if err != nil {
		return err
	}

	t, err := p.Composer().Table(cmd.Context(), ra.Language)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	if q != nil {
		t = q.Filter(t)
	}

	if ra.Format == FormatTable {
		renderRules(cmd.OutOrStdout(), t)

		return nil
	}

	return encode(cmd.OutOrStdout(), ra.Format, t)
}
