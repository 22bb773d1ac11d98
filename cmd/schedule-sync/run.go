package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/app"
	"github.com/noah-isme/schedule-sync/internal/state"
	"github.com/noah-isme/schedule-sync/internal/store"
)

// errWorkflowFailed marks a command whose workflow ran but recorded a failure in its slice.
var errWorkflowFailed = errors.New("workflow failed")

// tabular results can be drawn as terminal tables.
type tabular interface {
	writeTable(w io.Writer) error
}

// withApp assembles the client, starts the orchestrator and hands it to fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logr.Warn("close client", zap.Error(cerr))
		}
	}()

	a.Start(ctx)
	return fn(ctx, a)
}

// dispatchAndPrint runs events to completion and prints the part of the snapshot selected by
// pick. pick returns a non-empty message when the slice recorded a failure.
func dispatchAndPrint(cmd *cobra.Command, pick func(state.RootState) (interface{}, string), events ...store.Event) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if refreshDirectory {
			if err := a.Directory.Invalidate(runCtx); err != nil {
				logr.Warn("directory cache not invalidated", zap.Error(err))
			}
		}
		s, err := a.Run(runCtx, events...)
		if err != nil {
			return fmt.Errorf("wait for workflows: %w", err)
		}
		result, failure := pick(s)
		if t, ok := result.(tabular); ok && showTable {
			err = t.writeTable(cmd.OutOrStdout())
		} else {
			err = printResult(cmd.OutOrStdout(), outputFormat, result)
		}
		if err != nil {
			return err
		}
		if failure != "" {
			return fmt.Errorf("%w: %s", errWorkflowFailed, failure)
		}
		return nil
	})
}
