package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/macropower/lintcfg/api/v1beta1/compositions"
)

type InitArgs struct {
	*RootArgs

	Force bool
	Vue   bool
}

func NewInitArgs(rootArgs *RootArgs) *InitArgs {
	return &InitArgs{
		RootArgs: rootArgs,
	}
}

func (ia *InitArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ia.Force, "force", false, "Back up and replace an existing composition file")
	cmd.Flags().BoolVar(&ia.Vue, "vue", false, "Enable the vue dialect in the written file")
}

func NewInitCmd(ia *InitArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write the default composition file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ia.ConfigPath
			if path == "" {
				dir := "."
				if len(args) > 0 {
					dir = args[0]
				}

				path = filepath.Join(dir, compositions.FileNames[0])
			}

			return compositions.WriteDefault(path, ia.Force, ia.Vue) //nolint:wrapcheck // Already wrapped.
		},
		ValidArgsFunction: dirCompletion,
	}
	ia.AddFlags(cmd)

	return cmd
}
