// Package store implements a generic snapshot store driven by a pure reducer.
package store

import (
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Event is anything the store can reduce. EventName is used for logs and metrics.
type Event interface {
	EventName() string
}

// Reducer computes the next state. It must not mutate its input.
type Reducer[S any] func(state S, event Event) S

// Listener receives the state produced by an event.
type Listener[S any] func(state S, event Event)

// EventCounter is notified for every reduced event.
type EventCounter interface {
	EventApplied(name string)
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	counter EventCounter
}

// WithLogger sets the logger used for per-event debug output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEventCounter registers a metrics sink.
func WithEventCounter(c EventCounter) Option {
	return func(o *options) { o.counter = c }
}

// Store owns the aggregate state. Reductions are serialized by one mutex and listeners see
// states in the order they were produced. Listeners, interceptors and observers must not
// dispatch synchronously; workflows dispatch from their own goroutines.
type Store[S any] struct {
	mu      sync.Mutex
	state   S
	version uint64
	reducer Reducer[S]

	// notifyMu is taken before mu is released so notifications keep dispatch order.
	notifyMu sync.Mutex

	hooksMu      sync.RWMutex
	subscribers  map[uint64]Listener[S]
	nextSubID    uint64
	interceptors []func(Event)
	observers    []Listener[S]

	logger  *zap.Logger
	counter EventCounter
}

// New creates a store holding initial.
func New[S any](initial S, reducer Reducer[S], opts ...Option) *Store[S] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[S]{
		state:       initial,
		reducer:     reducer,
		subscribers: map[uint64]Listener[S]{},
		logger:      o.logger,
		counter:     o.counter,
	}
}

// State returns the current snapshot.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Version counts reduced events.
func (s *Store[S]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Snapshot returns the current state together with its version.
func (s *Store[S]) Snapshot() (S, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.version
}

// Dispatch reduces e and notifies subscribers, then observers.
func (s *Store[S]) Dispatch(e Event) {
	s.DispatchIf(e, nil)
}

// DispatchIf reduces e only when guard, evaluated under the store lock, returns true.
// A nil guard always passes. It reports whether e was applied.
func (s *Store[S]) DispatchIf(e Event, guard func() bool) bool {
	s.mu.Lock()
	if guard != nil && !guard() {
		s.mu.Unlock()
		s.logger.Debug("event dropped", zap.String("event", e.EventName()))
		return false
	}

	s.hooksMu.RLock()
	interceptors := s.interceptors
	s.hooksMu.RUnlock()
	for _, fn := range interceptors {
		fn(e)
	}

	s.state = s.reducer(s.state, e)
	s.version++
	state, version := s.state, s.version

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	if s.counter != nil {
		s.counter.EventApplied(e.EventName())
	}
	s.logger.Debug("event applied", zap.String("event", e.EventName()), zap.Uint64("version", version))

	s.hooksMu.RLock()
	subscribers := make([]Listener[S], 0, len(s.subscribers))
	for _, id := range sortedIDs(s.subscribers) {
		subscribers = append(subscribers, s.subscribers[id])
	}
	observers := s.observers
	s.hooksMu.RUnlock()

	for _, fn := range subscribers {
		fn(state, e)
	}
	for _, fn := range observers {
		fn(state, e)
	}
	return true
}

// Subscribe registers fn for every future state and returns a function that removes it.
func (s *Store[S]) Subscribe(fn Listener[S]) (cancel func()) {
	s.hooksMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.hooksMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.hooksMu.Lock()
			delete(s.subscribers, id)
			s.hooksMu.Unlock()
		})
	}
}

// Intercept registers fn to run under the store lock before the reducer sees an event.
// fn must not call any Store method.
func (s *Store[S]) Intercept(fn func(Event)) {
	s.hooksMu.Lock()
	s.interceptors = append(s.interceptors, fn)
	s.hooksMu.Unlock()
}

// Observe registers fn to run after subscribers for every applied event.
func (s *Store[S]) Observe(fn Listener[S]) {
	s.hooksMu.Lock()
	s.observers = append(s.observers, fn)
	s.hooksMu.Unlock()
}

func sortedIDs[S any](m map[uint64]Listener[S]) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
