package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute each event's registeredCount from its active registrations",
		Long: `Cancelling a registration keeps the seat counted. reconcile counts the
non-cancelled registrations of every event and writes the result back to
registeredCount, printing each event whose stored value drifted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, b *backend) error {
				out := cmd.OutOrStdout()
				drift, err := b.svc.ReconcileCounts(ctx, dryRun)
				if err != nil {
					return err
				}
				if len(drift) == 0 {
					success(out, "all counters match")
					return nil
				}
				for _, d := range drift {
					fmt.Fprintf(out, "  %s %-30q stored=%d actual=%d\n", d.EventID, d.Title, d.Stored, d.Actual)
				}
				if dryRun {
					warn(out, "%d event(s) drifted, dry run so nothing written", len(drift))
					return nil
				}
				success(out, "%d event(s) corrected", len(drift))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report drift without writing")
	return cmd
}
