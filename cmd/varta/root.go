package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/icemedialab/varta/internal/app"
	"github.com/icemedialab/varta/internal/config"
	"github.com/icemedialab/varta/internal/version"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	dbDriver    string
	databaseURL string
	verbose     bool

	// extra options for app.New, used by tests
	appOptions []app.Option
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "varta",
		Short: "Ad intelligence reports from the command line",
		Long: `varta generates AI ad intelligence reports for a keyword, region and platform
and keeps them in the signed-in employee's history.

The CLI shares its workspace and session with the varta server.`,
		Version:       version.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dbDriver, "db-driver", "", "Storage driver (sqlite, postgres, memory); overrides DB_DRIVER")
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "SQLite path or PostgreSQL URL; overrides DATABASE_URL")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newRegisterCmd(opts))
	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newWhoamiCmd(opts))
	cmd.AddCommand(newUsersCmd(opts))
	cmd.AddCommand(newProfileCmd(opts))
	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newKeyCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withApp opens the workspace for the duration of fn.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg := config.FromEnv()
	if o.dbDriver != "" {
		cfg.DBDriver = o.dbDriver
	}
	if o.databaseURL != "" {
		cfg.DatabaseURL = o.databaseURL
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := app.NewLogger(cmd.ErrOrStderr(), level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	appOpts := append([]app.Option{app.WithVersion(version.Version())}, o.appOptions...)
	a, err := app.New(ctx, cfg, logger, appOpts...)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
