// Package commands implements the campusctl maintenance CLI.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"campusevents/internal/campus"
	"campusevents/internal/config"
	"campusevents/internal/logging"
	"campusevents/internal/queue"
	"campusevents/internal/store"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// databases lists and drops whole databases on the server.
type databases interface {
	DropDatabasesExcept(ctx context.Context, keep []string, dryRun bool) ([]string, error)
}

// backend is what the subcommands operate on.
type backend struct {
	cfg     config.App
	svc     *campus.Service
	dbs     databases
	closeFn func()
}

func (b *backend) Close() {
	if b.closeFn != nil {
		b.closeFn()
	}
}

// openBackend connects to the configured store. Tests replace it.
var openBackend = func(ctx context.Context) (*backend, error) {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)
	m, err := store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	st, err := campus.NewMongoStore(ctx, m.DB)
	if err != nil {
		_ = m.Close(context.Background())
		return nil, err
	}
	return &backend{
		cfg:     cfg,
		svc:     campus.NewService(st, log, discard{}),
		dbs:     m,
		closeFn: func() { _ = m.Close(context.Background()) },
	}, nil
}

// discard drops notices; maintenance commands never register anyone.
type discard struct{}

func (discard) Publish(context.Context, queue.Message) error { return nil }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "campusctl",
		Short: "Maintenance tasks for the campus events store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newSeedCmd(), newReconcileCmd(), newCleanupCmd())
	return root
}

var rootCmd = newRootCmd()

// SetVersion sets the version printed by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the CLI and prints any error in red.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		red.Fprintf(rootCmd.ErrOrStderr(), "error: %v\n", err)
	}
	return err
}

// withBackend opens the store for the duration of fn.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := openBackend(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer b.Close()
	return fn(ctx, b)
}

func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ "+format+"\n", a...)
}

func warn(w io.Writer, format string, a ...any) {
	yellow.Fprintf(w, "! "+format+"\n", a...)
}
