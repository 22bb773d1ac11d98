// Package session holds the persisted client credentials and the selected group/teacher.
// Reads are served from memory; writes go to the repository first.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-sync/internal/models"
)

// Persisted keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserID       = "user_id"
	KeyGroupID      = "groupId"
	KeyTeacherID    = "teacherId"
)

// Repository is the key-value store behind a Context.
type Repository interface {
	Load(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Context is the typed session store. It is safe for concurrent use.
type Context struct {
	mu      sync.RWMutex
	repo    Repository
	entries map[string]string
	logger  *zap.Logger
}

// New loads the stored entries from repo.
func New(ctx context.Context, repo Repository, logger *zap.Logger) (*Context, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Context{repo: repo, entries: map[string]string{}, logger: logger}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the in-memory copy with the repository contents.
func (c *Context) Reload(ctx context.Context) error {
	entries, err := c.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if entries == nil {
		entries = map[string]string{}
	}
	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

func (c *Context) get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key]
}

// AccessToken returns the stored access token or "".
func (c *Context) AccessToken() string { return c.get(KeyAccessToken) }

// RefreshToken returns the stored refresh token or "".
func (c *Context) RefreshToken() string { return c.get(KeyRefreshToken) }

// UserID returns the signed-in user id or "".
func (c *Context) UserID() string { return c.get(KeyUserID) }

// GroupID returns the last selected group or "".
func (c *Context) GroupID() string { return c.get(KeyGroupID) }

// TeacherID returns the last selected teacher or "".
func (c *Context) TeacherID() string { return c.get(KeyTeacherID) }

// StoreAuth persists the tokens and user id of a successful login or registration.
func (c *Context) StoreAuth(ctx context.Context, auth models.AuthResponse) error {
	values := []struct{ key, value string }{
		{KeyAccessToken, auth.AccessToken},
		{KeyRefreshToken, auth.RefreshToken},
		{KeyUserID, auth.User.ID},
	}
	for _, v := range values {
		if err := c.set(ctx, v.key, v.value); err != nil {
			return err
		}
	}
	c.logger.Debug("session credentials stored", zap.String("user_id", auth.User.ID))
	return nil
}

// ClearAuth removes the tokens and user id. The selected group and teacher are kept.
func (c *Context) ClearAuth(ctx context.Context) error {
	keys := []string{KeyAccessToken, KeyRefreshToken, KeyUserID}
	if err := c.repo.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
	c.logger.Debug("session credentials cleared")
	return nil
}

// SetGroupID remembers the selected group.
func (c *Context) SetGroupID(ctx context.Context, id string) error {
	return c.set(ctx, KeyGroupID, id)
}

// SetTeacherID remembers the selected teacher.
func (c *Context) SetTeacherID(ctx context.Context, id string) error {
	return c.set(ctx, KeyTeacherID, id)
}

func (c *Context) set(ctx context.Context, key, value string) error {
	if err := c.repo.Set(ctx, key, value); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
	return nil
}

// AccessTokenValid reports whether an access token is stored and, when it carries an exp claim,
// has not expired at now. The signature is not verified; the backend remains the authority.
func (c *Context) AccessTokenValid(now time.Time) bool {
	token := c.AccessToken()
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		c.logger.Debug("stored access token is not a JWT", zap.Error(err))
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}
	return now.Before(exp.Time)
}
