package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/lintcfg/pkg/rule"
	"github.com/macropower/lintcfg/pkg/yaml"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// ErrUnknownFormat indicates an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

func addFormatFlag(cmd *cobra.Command, p *string, def string, formats ...string) {
	cmd.Flags().StringVarP(p, "format", "o", def, fmt.Sprintf("Output format, one of: %s", formats))

	err := cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func checkFormat(format string, formats ...string) error {
	if !slices.Contains(formats, format) {
		return fmt.Errorf("%w: %q, one of: %s", ErrUnknownFormat, format, formats)
	}

	return nil
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")

		err := enc.Encode(v)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil

	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		_, err = w.Write(b)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func renderRules(w io.Writer, t rule.Table) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Rule", "Severity", "Options"})

	for _, key := range t.Keys() {
		e := t[key]

		var opts string
		if e.HasOptions() {
			b, err := json.Marshal(e.Options)
			if err == nil {
				opts = string(b)
			}
		}

		tw.AppendRow(table.Row{key, e.Severity, opts})
	}

	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d rules", len(t))})
	tw.Render()
}

// isTerminal reports whether w is a terminal, for colored error excerpts.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
