package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/lintcfg/pkg/log"
	"github.com/macropower/lintcfg/pkg/snapshot"
)

type SnapshotArgs struct {
	*RootArgs

	Dir string
}

func NewSnapshotArgs(rootArgs *RootArgs) *SnapshotArgs {
	return &SnapshotArgs{
		RootArgs: rootArgs,
	}
}

func (sa *SnapshotArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sa.Dir, "dir", "d", "rules", "Directory the snapshots are written to")

	err := cmd.MarkFlagDirname("dir")
	if err != nil {
		panic(fmt.Errorf("mark dir flag: %w", err))
	}
}

func NewSnapshotCmd(sa *SnapshotArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write rule snapshots and key declarations for every language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd, sa)
		},
	}
	sa.AddFlags(cmd)

	return cmd
}

func runSnapshot(cmd *cobra.Command, sa *SnapshotArgs) error {
	ctx := cmd.Context()

	p, err := loadProject(cmd, sa.RootArgs, ".")
	if err != nil {
		return err
	}

	c := p.Composer()

	tables, err := c.Tables(ctx)
	if err != nil {
		return err //nolint:wrapcheck // Already wrapped.
	}

	w := snapshot.NewWriter(sa.Dir)

	for _, name := range c.Languages() {
		err := w.WriteTable(name, tables[name])
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", name, err)
		}
	}

	err = w.WriteIntersection(c.RuleKeys())
	if err != nil {
		return fmt.Errorf("snapshot intersection: %w", err)
	}

	log.WithContext(ctx).InfoContext(ctx, "wrote snapshots",
		slog.String("dir", sa.Dir),
		slog.Int("languages", len(tables)),
	)

	return nil
}
