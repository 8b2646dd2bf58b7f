package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin and project metadata if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, b *backend) error {
				out := cmd.OutOrStdout()
				created, err := b.svc.SeedAdmin(ctx, b.cfg.AdminUsername, b.cfg.AdminPassword)
				if err != nil {
					return err
				}
				if created {
					success(out, "admin %q created", b.cfg.AdminUsername)
				} else {
					warn(out, "admin %q already exists", b.cfg.AdminUsername)
				}

				created, err = b.svc.SeedProjectMeta(ctx)
				if err != nil {
					return err
				}
				if created {
					success(out, "project metadata initialized")
				} else {
					warn(out, "project metadata already present")
				}
				return nil
			})
		},
	}
}
