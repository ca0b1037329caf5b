package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/macropower/lintcfg/pkg/preset"
)

type AuditArgs struct {
	*RootArgs

	Format string
}

func NewAuditArgs(rootArgs *RootArgs) *AuditArgs {
	return &AuditArgs{
		RootArgs: rootArgs,
	}
}

func (aa *AuditArgs) AddFlags(cmd *cobra.Command) {
	addFormatFlag(cmd, &aa.Format, FormatTable, FormatTable, FormatJSON, FormatYAML)
}

func NewAuditCmd(aa *AuditArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report preset rules that do not exist or repeat their defaults",
		Long: `Report preset rules that do not exist or repeat their defaults.

Exits with a non-zero status when there are findings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd, aa)
		},
	}
	aa.AddFlags(cmd)

	return cmd
}

func runAudit(cmd *cobra.Command, aa *AuditArgs) error {
	err := checkFormat(aa.Format, FormatTable, FormatJSON, FormatYAML)
	if err != nil {
		return err
	}

	p, err := loadProject(cmd, aa.RootArgs, ".")
	if err != nil {
		return err
	}

	findings, err := p.Composer().Audit(cmd.Context())
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	if len(findings) == 0 {
		if aa.Format == FormatTable {
			mustN(fmt.Fprintln(cmd.OutOrStdout(), "no findings"))

			return nil
		}

		return encode(cmd.OutOrStdout(), aa.Format, []preset.Finding{})
	}

	if aa.Format == FormatTable {
		renderFindings(cmd.OutOrStdout(), findings)
	} else {
		err = encode(cmd.OutOrStdout(), aa.Format, findings)
		if err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: %d", ErrFindings, len(findings))
}

func renderFindings(w io.Writer, findings []preset.Finding) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Preset", "Rule", "Kind", "Entry"})

	for _, f := range findings {
		tw.AppendRow(table.Row{f.Preset, f.Key, f.Kind, f.Entry})
	}

	tw.Render()
}
