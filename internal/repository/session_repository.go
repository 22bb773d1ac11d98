package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SessionRepository persists session entries in the session_entries table. The same queries run
// against sqlite and postgres; placeholders are rebound for the driver in use.
type SessionRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

type sessionEntry struct {
	Name  string `db:"name"`
	Value string `db:"value"`
}

// Load returns every stored entry.
func (r *SessionRepository) Load(ctx context.Context) (map[string]string, error) {
	const query = `SELECT name, value FROM session_entries`
	var rows []sessionEntry
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load session entries: %w", err)
	}
	entries := make(map[string]string, len(rows))
	for _, row := range rows {
		entries[row.Name] = row.Value
	}
	return entries, nil
}

// Set upserts one entry.
func (r *SessionRepository) Set(ctx context.Context, key, value string) error {
	query := r.db.Rebind(`INSERT INTO session_entries (name, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, key, value, r.now().UTC()); err != nil {
		return fmt.Errorf("set session entry %s: %w", key, err)
	}
	return nil
}

// Delete removes the given entries. Missing keys are ignored.
func (r *SessionRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM session_entries WHERE name IN (?)`, keys)
	if err != nil {
		return fmt.Errorf("build session delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete session entries: %w", err)
	}
	return nil
}
