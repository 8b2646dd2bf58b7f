package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanupCmd() *cobra.Command {
	var (
		keep []string
		yes  bool
	)
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Drop every database except the application's and --keep",
		Long: `cleanup lists all databases on the MongoDB server and drops the ones that
are not admin, config, local, the configured MONGO_DATABASE or named in
--keep. Without --yes it only prints what would be dropped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, b *backend) error {
				if b.dbs == nil {
					return errors.New("cleanup needs a MongoDB store")
				}
				out := cmd.OutOrStdout()
				names, err := b.dbs.DropDatabasesExcept(ctx, keep, !yes)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					success(out, "nothing to drop")
					return nil
				}
				for _, n := range names {
					fmt.Fprintf(out, "  %s\n", n)
				}
				if !yes {
					warn(out, "%d database(s) would be dropped, rerun with --yes", len(names))
					return nil
				}
				success(out, "dropped %d database(s)", len(names))
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&keep, "keep", nil, "databases to keep besides the application's")
	cmd.Flags().BoolVar(&yes, "yes", false, "actually drop the databases")
	return cmd
}
