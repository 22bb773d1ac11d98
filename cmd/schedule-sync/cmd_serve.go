package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/app"
	"github.com/noah-isme/schedule-sync/pkg/config"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP bridge",
	Long: `Restores the session and serves the client state on 127.0.0.1.

Trigger endpoints dispatch events and answer 202 with the current snapshot, or 200 once every
workflow has settled when called with ?wait=true. GET /state/stream pushes snapshots as
server-sent events. Swagger UI is mounted on /docs outside production.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if servePort > 0 {
			cfg.Port = servePort
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if cfg.Cache.Enabled {
				if _, _, err := a.Directory.Preload(ctx); err != nil {
					logr.Warn("directory cache warm-up failed", zap.Error(err))
				}
			}
			a.Bootstrap()
			if err := a.Serve(ctx); err != nil {
				return fmt.Errorf("serve bridge: %w", err)
			}
			return nil
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the session store schema",
	Long: `Applies the embedded migrations to the sql session backend selected by SESSION_BACKEND
(sqlite or postgres). The client migrates on startup as well.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(ctx context.Context, m *app.Migrator) error {
			return m.Run(ctx)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(ctx context.Context, m *app.Migrator) error {
			return m.Down(ctx)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withMigrator(cmd, func(ctx context.Context, m *app.Migrator) error {
			version, err := m.Version(ctx)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), outputFormat, map[string]interface{}{
				"backend": cfg.Session.Backend,
				"version": version,
			})
		})
	},
}

func withMigrator(cmd *cobra.Command, fn func(ctx context.Context, m *app.Migrator) error) error {
	if cfg.Session.Backend != config.SessionBackendSQLite && cfg.Session.Backend != config.SessionBackendPostgres {
		return fmt.Errorf("session backend %q has no schema to migrate", cfg.Session.Backend)
	}
	ctx := cmd.Context()
	db, err := app.OpenSessionDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := app.NewMigrator(db.DB, cfg.Session.Backend, logr.Named("migrate"))
	if err != nil {
		return err
	}
	return fn(ctx, m)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Bridge port (default PORT from the environment)")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}
