package cli

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/macropower/lintcfg/api/v1beta1/compositions"
	"github.com/macropower/lintcfg/pkg/compose"
	"github.com/macropower/lintcfg/pkg/config"
	"github.com/macropower/lintcfg/pkg/log"
	"github.com/macropower/lintcfg/pkg/watch"
)

const composeExamples = `  # Compose the configuration for the current directory:
  lintcfg compose

  # Compose with the vue dialect, as YAML:
  lintcfg compose --vue -o yaml

  # Re-compose whenever the composition or ignore files change:
  lintcfg compose ./web --watch`

type ComposeArgs struct {
	*RootArgs

	Path   string
	Format string
	Vue    bool
	Watch  bool
}

func NewComposeArgs(rootArgs *RootArgs) *ComposeArgs {
	return &ComposeArgs{
		RootArgs: rootArgs,
	}
}

func (ca *ComposeArgs) AddFlags(cmd *cobra.Command) {
	addFormatFlag(cmd, &ca.Format, FormatJSON, FormatJSON, FormatYAML)
	cmd.Flags().BoolVar(&ca.Vue, "vue", false, "Enable the vue dialect regardless of the composition file")
	cmd.Flags().BoolVarP(&ca.Watch, "watch", "w", false, "Watch for changes and compose again")
}

func NewComposeCmd(ca *ComposeArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "compose [path]",
		Short:             "Print the composed configuration sequence",
		Example:           composeExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: dirCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			ca.Path = "."
			if len(args) > 0 {
				ca.Path = args[0]
			}

			return runCompose(cmd, ca)
		},
	}
	ca.AddFlags(cmd)

	return cmd
}

func runCompose(cmd *cobra.Command, ca *ComposeArgs) error {
	err := checkFormat(ca.Format, FormatJSON, FormatYAML)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if !ca.Watch {
		return composeOnce(cmd, ca, out)
	}

	p, err := loadProject(cmd, ca.RootArgs, ca.Path)
	if err != nil {
		return err
	}

	w, err := watch.New(watchedFiles(p))
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	defer func() {
		err := w.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("err", err))
		}
	}()

	return w.Run(cmd.Context(), func(ctx context.Context) error { //nolint:wrapcheck // Already wrapped.
		err := composeOnce(cmd, ca, out)
		if err != nil {
			return err
		}

		log.WithContext(ctx).InfoContext(ctx, "composed, waiting for changes",
			slog.Int("files", w.Files()),
		)

		return nil
	})
}

func composeOnce(cmd *cobra.Command, ca *ComposeArgs, w io.Writer) error {
	p, err := loadProject(cmd, ca.RootArgs, ca.Path)
	if err != nil {
		return err
	}

	if ca.Vue {
		enableVue(p.Composition)
	}

	seq, err := p.Compose(cmd.Context())
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	return encode(w, ca.Format, seq)
}

func enableVue(c *compositions.Composition) {
	if c.Vue == nil {
		c.Vue = &compose.VueOptions{}
	}

	c.Vue.Enabled = true
}

// watchedFiles returns the composition file and the ignore files it reads.
// Without a composition file, the default file names of the project
// directory are watched so that creating one triggers a reload.
func watchedFiles(p *config.Project) []string {
	var files []string

	if p.Path != "" {
		files = append(files, p.Path)
	} else {
		for _, name := range compositions.FileNames {
			files = append(files, filepath.Join(p.Dir, name))
		}
	}

	for _, name := range p.Composition.IgnoreFiles {
		files = append(files, filepath.Join(p.Dir, filepath.FromSlash(name)))
	}

	return files
}

func dirCompletion(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}

	return nil, cobra.ShellCompDirectiveNoFileComp
}
