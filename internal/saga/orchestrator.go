// Package saga runs asynchronous workflows in reaction to store events.
//
// A workflow is registered for one event type with either the take-every policy (one run per
// event, runs overlap freely) or the take-latest policy (a new event cancels every run still
// executing for the same registration). A cancelled run's context is cancelled and its Put
// calls are dropped; the drop is decided under the store lock, so no event of a superseded run
// can be applied after the event that superseded it.
package saga

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/store"
)

// Outcomes reported to Metrics.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomePanicked  = "panicked"
)

// Metrics receives run lifecycle notifications.
type Metrics interface {
	WorkflowStarted(workflow string)
	WorkflowFinished(workflow, outcome string)
}

type policy int

const (
	takeEvery policy = iota
	takeLatest
)

func (p policy) String() string {
	if p == takeLatest {
		return "take-latest"
	}
	return "take-every"
}

type registration[S any] struct {
	name   string
	event  string
	policy policy
	run    func(ctx context.Context, fx *Effects[S], e store.Event)
}

type run struct {
	id        string
	workflow  string
	policy    policy
	ctx       context.Context
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

// Orchestrator starts registered workflows for events applied to a store.
type Orchestrator[S any] struct {
	store   *store.Store[S]
	logger  *zap.Logger
	metrics Metrics

	mu            sync.Mutex
	started       bool
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	registrations map[string][]registration[S]
	runs          map[string]*run
	idle          chan struct{}
}

// Option configures an Orchestrator.
type Option func(*config)

type config struct {
	logger  *zap.Logger
	metrics Metrics
}

// WithLogger sets the orchestrator logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics registers a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// New attaches an orchestrator to s. Workflows only start after Start.
func New[S any](s *store.Store[S], opts ...Option) *Orchestrator[S] {
	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	idle := make(chan struct{})
	close(idle)

	o := &Orchestrator[S]{
		store:         s,
		logger:        cfg.logger,
		metrics:       cfg.metrics,
		registrations: map[string][]registration[S]{},
		runs:          map[string]*run{},
		idle:          idle,
	}
	s.Intercept(o.intercept)
	s.Observe(o.observe)
	return o
}

// TakeEvery runs worker once for every applied event of type E.
func TakeEvery[E store.Event, S any](o *Orchestrator[S], name string, worker func(context.Context, *Effects[S], E)) {
	register(o, name, takeEvery, worker)
}

// TakeLatest runs worker for every applied event of type E, cancelling the runs of this
// registration that are still executing.
func TakeLatest[E store.Event, S any](o *Orchestrator[S], name string, worker func(context.Context, *Effects[S], E)) {
	register(o, name, takeLatest, worker)
}

func register[E store.Event, S any](o *Orchestrator[S], name string, p policy, worker func(context.Context, *Effects[S], E)) {
	var zero E
	event := zero.EventName()
	reg := registration[S]{
		name:   name,
		event:  event,
		policy: p,
		run: func(ctx context.Context, fx *Effects[S], e store.Event) {
			typed, ok := e.(E)
			if !ok {
				panic(fmt.Sprintf("workflow %s: event %s has type %T", name, event, e))
			}
			worker(ctx, fx, typed)
		},
	}

	o.mu.Lock()
	o.registrations[event] = append(o.registrations[event], reg)
	o.mu.Unlock()
	o.logger.Debug("workflow registered", zap.String("workflow", name), zap.String("event", event), zap.Stringer("policy", p))
}

// Start enables workflow execution. Safe to call once.
func (o *Orchestrator[S]) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return
	}
	o.ctx, o.cancel = context.WithCancel(ctx)
	o.started = true
	o.logger.Sugar().Infow("orchestrator started", "workflows", o.countRegistrations())
}

// Stop cancels every run, drops their pending events and waits for them to return.
func (o *Orchestrator[S]) Stop() {
	o.mu.Lock()
	if !o.started {
		o.mu.Unlock()
		return
	}
	o.started = false
	for _, r := range o.runs {
		r.cancelled.Store(true)
	}
	o.cancel()
	o.mu.Unlock()
	o.wg.Wait()
	o.logger.Sugar().Infow("orchestrator stopped")
}

// Wait blocks until no run is executing or ctx is done.
func (o *Orchestrator[S]) Wait(ctx context.Context) error {
	o.mu.Lock()
	idle := o.idle
	o.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight returns the number of executing runs.
func (o *Orchestrator[S]) InFlight() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.runs)
}

// intercept runs under the store lock before the reducer.
func (o *Orchestrator[S]) intercept(e store.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, reg := range o.registrations[e.EventName()] {
		if reg.policy != takeLatest {
			continue
		}
		for _, r := range o.runs {
			if r.workflow != reg.name || r.cancelled.Load() {
				continue
			}
			r.cancelled.Store(true)
			r.cancel()
			o.logger.Debug("workflow superseded", zap.String("workflow", r.workflow), zap.String("run_id", r.id))
		}
	}
}

// observe runs after the event has been reduced and subscribers were notified.
func (o *Orchestrator[S]) observe(_ S, e store.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	regs := o.registrations[e.EventName()]
	if len(regs) == 0 {
		return
	}
	if !o.started {
		o.logger.Warn("event ignored, orchestrator not running", zap.String("event", e.EventName()))
		return
	}

	for _, reg := range regs {
		ctx, cancel := context.WithCancel(o.ctx)
		r := &run{id: uuid.NewString(), workflow: reg.name, policy: reg.policy, ctx: ctx, cancel: cancel}
		if len(o.runs) == 0 {
			o.idle = make(chan struct{})
		}
		o.runs[r.id] = r
		o.wg.Add(1)
		if o.metrics != nil {
			o.metrics.WorkflowStarted(reg.name)
		}
		go o.execute(reg, r, e)
	}
}

func (o *Orchestrator[S]) execute(reg registration[S], r *run, e store.Event) {
	outcome := OutcomeCompleted
	logger := o.logger.With(zap.String("workflow", reg.name), zap.String("event", e.EventName()), zap.String("run_id", r.id))

	defer func() {
		if rec := recover(); rec != nil {
			outcome = OutcomePanicked
			logger.Error("workflow panicked", zap.Any("panic", rec), zap.Stack("stack"))
		}
		if outcome == OutcomeCompleted && r.cancelled.Load() {
			outcome = OutcomeCancelled
		}
		r.cancel()

		o.mu.Lock()
		delete(o.runs, r.id)
		if len(o.runs) == 0 {
			close(o.idle)
		}
		o.mu.Unlock()

		if o.metrics != nil {
			o.metrics.WorkflowFinished(reg.name, outcome)
		}
		logger.Debug("workflow finished", zap.String("outcome", outcome))
		o.wg.Done()
	}()

	reg.run(r.ctx, &Effects[S]{store: o.store, run: r, logger: logger}, e)
}

func (o *Orchestrator[S]) countRegistrations() int {
	n := 0
	for _, regs := range o.registrations {
		n += len(regs)
	}
	return n
}
