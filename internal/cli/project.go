package cli

import (
	"github.com/spf13/cobra"

	"github.com/macropower/lintcfg/pkg/config"
)

// loadProject loads the composition named by --config, or the one found by
// searching up from target.
func loadProject(cmd *cobra.Command, ra *RootArgs, target string) (*config.Project, error) {
	ctx := cmd.Context()
	opts := []config.LoaderOpt{config.WithColor(isTerminal(cmd.ErrOrStderr()))}

	if ra.ConfigPath != "" {
		return config.LoadProjectFile(ctx, ra.ConfigPath, opts...) //nolint:wrapcheck // Already wrapped.
	}

	return config.LoadProject(ctx, target, opts...) //nolint:wrapcheck // Already wrapped.
}
