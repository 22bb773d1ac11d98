package saga

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/store"
)

// Effects is the handle a workflow run uses to read state and emit events.
type Effects[S any] struct {
	store  *store.Store[S]
	run    *run
	logger *zap.Logger
}

// Context is cancelled when the run is superseded or the orchestrator stops.
func (fx *Effects[S]) Context() context.Context {
	return fx.run.ctx
}

// Select returns the current snapshot without suspending.
func (fx *Effects[S]) Select() S {
	return fx.store.State()
}

// Put dispatches e unless the run has been cancelled. It reports whether e was applied.
func (fx *Effects[S]) Put(e store.Event) bool {
	applied := fx.store.DispatchIf(e, func() bool { return !fx.run.cancelled.Load() })
	if !applied {
		fx.logger.Debug("event from cancelled run dropped", zap.String("dropped", e.EventName()))
	}
	return applied
}

// Commit runs apply under the store lock and dispatches e only if the run is still current and
// apply succeeds. No event can supersede the run between apply and e, so apply must not dispatch.
func (fx *Effects[S]) Commit(e store.Event, apply func(ctx context.Context) error) (bool, error) {
	var err error
	applied := fx.store.DispatchIf(e, func() bool {
		if fx.run.cancelled.Load() {
			return false
		}
		err = apply(fx.run.ctx)
		return err == nil
	})
	if !applied && err == nil {
		fx.logger.Debug("commit of cancelled run skipped", zap.String("dropped", e.EventName()))
	}
	return applied, err
}

// Cancelled reports whether the run has been superseded or stopped.
func (fx *Effects[S]) Cancelled() bool {
	return fx.run.cancelled.Load()
}

// Logger returns a logger annotated with the workflow, event and run id.
func (fx *Effects[S]) Logger() *zap.Logger {
	return fx.logger
}
