package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/pkg/config"
	"github.com/noah-isme/schedule-sync/pkg/logger"
)

// @title Schedule Sync Bridge
// @version 0.1.0
// @description Local bridge to the schedule client state. Trigger endpoints dispatch events and answer with the aggregate snapshot.
// @BasePath /
// @schemes http

var (
	outputFormat string
	timeout      time.Duration
	verbose      bool

	cfg  *config.Config
	logr *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "schedule-sync",
	Short: "Course schedule client for the terminal",
	Long: `schedule-sync keeps a local copy of the course schedule client state in sync with the
schedule backend and the public timetable API.

Every command dispatches its events, waits until all workflows they started have finished
and prints the resulting slice to stdout. Logs go to stderr.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if outputFormat != outputYAML && outputFormat != outputJSON {
			return fmt.Errorf("unknown output format %q", outputFormat)
		}

		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if logr, err = logger.New(cfg); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logr != nil {
			_ = logr.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputYAML, "Output format: yaml or json")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "How long to wait for workflows to settle")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(teachersCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
