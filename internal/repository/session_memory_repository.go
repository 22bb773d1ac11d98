package repository

import (
	"context"
	"sync"
)

// MemorySessionRepository keeps the session in process memory. Nothing survives a restart.
type MemorySessionRepository struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemorySessionRepository returns an empty in-memory repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{entries: map[string]string{}}
}

func (r *MemorySessionRepository) Load(_ context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out, nil
}

func (r *MemorySessionRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	r.entries[key] = value
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, keys ...string) error {
	r.mu.Lock()
	for _, k := range keys {
		delete(r.entries, k)
	}
	r.mu.Unlock()
	return nil
}
