package saga

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/noah-isme/schedule-sync/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testState struct {
	Results []string
}

type started struct{ ID string }

func (started) EventName() string { return "STARTED" }

type finished struct{ ID string }

func (finished) EventName() string { return "FINISHED" }

type boom struct{}

func (boom) EventName() string { return "BOOM" }

func reduce(s testState, e store.Event) testState {
	if ev, ok := e.(finished); ok {
		s.Results = append(append([]string(nil), s.Results...), ev.ID)
	}
	return s
}

type metricsStub struct {
	mu       sync.Mutex
	started  map[string]int
	outcomes map[string][]string
}

func newMetricsStub() *metricsStub {
	return &metricsStub{started: map[string]int{}, outcomes: map[string][]string{}}
}

func (m *metricsStub) WorkflowStarted(workflow string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started[workflow]++
}

func (m *metricsStub) WorkflowFinished(workflow, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[workflow] = append(m.outcomes[workflow], outcome)
}

func (m *metricsStub) outcomesOf(workflow string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.outcomes[workflow]...)
}

func newOrchestrator(t *testing.T, metrics Metrics) (*store.Store[testState], *Orchestrator[testState]) {
	t.Helper()
	s := store.New(testState{}, reduce)
	o := New(s, WithMetrics(metrics))
	o.Start(context.Background())
	t.Cleanup(o.Stop)
	return s, o
}

func waitIdle(t *testing.T, o *Orchestrator[testState]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, o.Wait(ctx))
}

func TestTakeEveryRunsEachEvent(t *testing.T) {
	metrics := newMetricsStub()
	s, o := newOrchestrator(t, metrics)

	release := make(chan struct{})
	TakeEvery(o, "echo", func(ctx context.Context, fx *Effects[testState], e started) {
		<-release
		fx.Put(finished{ID: e.ID})
	})

	s.Dispatch(started{ID: "a"})
	s.Dispatch(started{ID: "b"})
	assert.Equal(t, 2, o.InFlight())

	close(release)
	waitIdle(t, o)

	assert.ElementsMatch(t, []string{"a", "b"}, s.State().Results)
	assert.Equal(t, []string{OutcomeCompleted, OutcomeCompleted}, metrics.outcomesOf("echo"))
}

func TestTakeLatestDropsSupersededRun(t *testing.T) {
	metrics := newMetricsStub()
	s, o := newOrchestrator(t, metrics)

	gates := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	var (
		mu      sync.Mutex
		applied = map[string]bool{}
		ctxErr  = map[string]error{}
	)
	TakeLatest(o, "latest", func(ctx context.Context, fx *Effects[testState], e started) {
		<-gates[e.ID]
		ok := fx.Put(finished{ID: e.ID})
		mu.Lock()
		applied[e.ID] = ok
		ctxErr[e.ID] = ctx.Err()
		mu.Unlock()
	})

	s.Dispatch(started{ID: "first"})
	s.Dispatch(started{ID: "second"})

	// The superseded run ignores its context and still tries to emit.
	close(gates["first"])
	close(gates["second"])
	waitIdle(t, o)

	assert.Equal(t, []string{"second"}, s.State().Results)
	assert.False(t, applied["first"])
	assert.True(t, applied["second"])
	assert.ErrorIs(t, ctxErr["first"], context.Canceled)
	assert.NoError(t, ctxErr["second"])
	assert.ElementsMatch(t, []string{OutcomeCancelled, OutcomeCompleted}, metrics.outcomesOf("latest"))
}

func TestCommitAppliesSideEffectAndEventTogether(t *testing.T) {
	s, o := newOrchestrator(t, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		mu      sync.Mutex
		commits []string
	)
	TakeLatest(o, "commit", func(ctx context.Context, fx *Effects[testState], e started) {
		applied, err := fx.Commit(finished{ID: e.ID}, func(context.Context) error {
			if e.ID == "first" {
				close(entered)
				<-release
			}
			mu.Lock()
			commits = append(commits, e.ID)
			mu.Unlock()
			return nil
		})
		assert.NoError(t, err)
		assert.True(t, applied)
	})

	s.Dispatch(started{ID: "first"})
	<-entered

	dispatched := make(chan struct{})
	go func() {
		s.Dispatch(started{ID: "second"})
		close(dispatched)
	}()
	assert.Never(t, func() bool {
		select {
		case <-dispatched:
			return true
		default:
			return false
		}
	}, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	<-dispatched
	waitIdle(t, o)

	assert.Equal(t, []string{"first", "second"}, s.State().Results)
	assert.Equal(t, []string{"first", "second"}, commits)
}

func TestCommitSkipsSupersededRun(t *testing.T) {
	s, o := newOrchestrator(t, nil)

	gates := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	var (
		mu      sync.Mutex
		commits []string
		applied = map[string]bool{}
	)
	TakeLatest(o, "commit", func(ctx context.Context, fx *Effects[testState], e started) {
		<-gates[e.ID]
		ok, err := fx.Commit(finished{ID: e.ID}, func(context.Context) error {
			mu.Lock()
			commits = append(commits, e.ID)
			mu.Unlock()
			return nil
		})
		assert.NoError(t, err)
		mu.Lock()
		applied[e.ID] = ok
		mu.Unlock()
	})

	s.Dispatch(started{ID: "first"})
	s.Dispatch(started{ID: "second"})
	close(gates["first"])
	close(gates["second"])
	waitIdle(t, o)

	assert.Equal(t, []string{"second"}, commits)
	assert.Equal(t, []string{"second"}, s.State().Results)
	assert.False(t, applied["first"])
	assert.True(t, applied["second"])
}

func TestCommitErrorLeavesStateUntouched(t *testing.T) {
	s, o := newOrchestrator(t, nil)

	errs := make(chan error, 1)
	TakeEvery(o, "commit", func(ctx context.Context, fx *Effects[testState], e started) {
		applied, err := fx.Commit(finished{ID: e.ID}, func(context.Context) error {
			return assert.AnError
		})
		assert.False(t, applied)
		errs <- err
	})

	version := s.Version()
	s.Dispatch(started{ID: "a"})
	waitIdle(t, o)

	assert.ErrorIs(t, <-errs, assert.AnError)
	assert.Empty(t, s.State().Results)
	assert.Equal(t, version+1, s.Version())
}

func TestTakeLatestOnlyCancelsItsOwnRegistration(t *testing.T) {
	s, o := newOrchestrator(t, nil)

	release := make(chan struct{})
	TakeEvery(o, "every", func(ctx context.Context, fx *Effects[testState], e started) {
		<-release
		fx.Put(finished{ID: "every-" + e.ID})
	})
	TakeLatest(o, "latest", func(ctx context.Context, fx *Effects[testState], e started) {
		<-release
		fx.Put(finished{ID: "latest-" + e.ID})
	})

	s.Dispatch(started{ID: "1"})
	s.Dispatch(started{ID: "2"})
	close(release)
	waitIdle(t, o)

	assert.ElementsMatch(t, []string{"every-1", "every-2", "latest-2"}, s.State().Results)
}

func TestPanicIsRecovered(t *testing.T) {
	metrics := newMetricsStub()
	s, o := newOrchestrator(t, metrics)

	TakeEvery(o, "explode", func(context.Context, *Effects[testState], boom) {
		panic("kaboom")
	})
	TakeEvery(o, "echo", func(_ context.Context, fx *Effects[testState], e started) {
		fx.Put(finished{ID: e.ID})
	})

	s.Dispatch(boom{})
	waitIdle(t, o)
	s.Dispatch(started{ID: "after"})
	waitIdle(t, o)

	assert.Equal(t, []string{"after"}, s.State().Results)
	assert.Equal(t, []string{OutcomePanicked}, metrics.outcomesOf("explode"))
}

func TestStopCancelsRunsAndDropsTheirEvents(t *testing.T) {
	s := store.New(testState{}, reduce)
	o := New(s)
	o.Start(context.Background())

	running := make(chan struct{})
	TakeEvery(o, "blocking", func(ctx context.Context, fx *Effects[testState], e started) {
		close(running)
		<-ctx.Done()
		fx.Put(finished{ID: e.ID})
	})

	s.Dispatch(started{ID: "x"})
	<-running
	o.Stop()

	assert.Empty(t, s.State().Results)
	assert.Equal(t, 0, o.InFlight())
}

func TestEventsBeforeStartAreIgnored(t *testing.T) {
	s := store.New(testState{}, reduce)
	o := New(s)
	TakeEvery(o, "echo", func(_ context.Context, fx *Effects[testState], e started) {
		fx.Put(finished{ID: e.ID})
	})

	s.Dispatch(started{ID: "early"})
	assert.Equal(t, 0, o.InFlight())
	assert.Empty(t, s.State().Results)
}

func TestWaitHonoursContext(t *testing.T) {
	s, o := newOrchestrator(t, nil)

	release := make(chan struct{})
	TakeEvery(o, "slow", func(ctx context.Context, _ *Effects[testState], _ started) {
		select {
		case <-release:
		case <-ctx.Done():
		}
	})
	s.Dispatch(started{ID: "slow"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, o.Wait(ctx), context.DeadlineExceeded)

	close(release)
	waitIdle(t, o)
}

func TestChainedRunsKeepOrchestratorBusy(t *testing.T) {
	s, o := newOrchestrator(t, nil)

	TakeEvery(o, "first", func(_ context.Context, fx *Effects[testState], e started) {
		fx.Put(boom{})
	})
	TakeEvery(o, "second", func(_ context.Context, fx *Effects[testState], _ boom) {
		time.Sleep(10 * time.Millisecond)
		fx.Put(finished{ID: "chained"})
	})

	s.Dispatch(started{ID: "go"})
	waitIdle(t, o)

	assert.Equal(t, []string{"chained"}, s.State().Results)
}

func TestSelectReadsCurrentState(t *testing.T) {
	s, o := newOrchestrator(t, nil)
	s.Dispatch(finished{ID: "seed"})

	var seen []string
	TakeEvery(o, "reader", func(_ context.Context, fx *Effects[testState], _ started) {
		seen = fx.Select().Results
	})
	s.Dispatch(started{ID: "read"})
	waitIdle(t, o)

	assert.Equal(t, []string{"seed"}, seen)
}
