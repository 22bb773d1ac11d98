package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-sync/internal/models"
	"github.com/noah-isme/schedule-sync/internal/repository"
)

type failingRepo struct {
	*repository.MemorySessionRepository
	failSet bool
}

func (f *failingRepo) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return assert.AnError
	}
	return f.MemorySessionRepository.Set(ctx, key, value)
}

func TestContextLoadsStoredEntries(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	require.NoError(t, repo.Set(context.Background(), KeyGroupID, "g1"))
	require.NoError(t, repo.Set(context.Background(), KeyAccessToken, "tok"))

	sc, err := New(context.Background(), repo, nil)
	require.NoError(t, err)
	assert.Equal(t, "g1", sc.GroupID())
	assert.Equal(t, "tok", sc.AccessToken())
	assert.Empty(t, sc.UserID())
}

func TestContextStoreAndClearAuth(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	sc, err := New(context.Background(), repo, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, sc.SetGroupID(ctx, "g1"))
	require.NoError(t, sc.StoreAuth(ctx, models.AuthResponse{AccessToken: "a", RefreshToken: "r", User: models.AuthUser{ID: "u1"}}))
	assert.Equal(t, "a", sc.AccessToken())
	assert.Equal(t, "r", sc.RefreshToken())
	assert.Equal(t, "u1", sc.UserID())
	assert.Equal(t, "g1", sc.GroupID())

	require.NoError(t, sc.ClearAuth(ctx))
	assert.Empty(t, sc.AccessToken())
	assert.Empty(t, sc.RefreshToken())
	assert.Empty(t, sc.UserID())
	assert.Equal(t, "g1", sc.GroupID())

	stored, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyGroupID: "g1"}, stored)
}

func TestContextKeepsMemoryOnPersistFailure(t *testing.T) {
	repo := &failingRepo{MemorySessionRepository: repository.NewMemorySessionRepository()}
	sc, err := New(context.Background(), repo, nil)
	require.NoError(t, err)

	repo.failSet = true
	err = sc.SetTeacherID(context.Background(), "t1")
	require.Error(t, err)
	assert.Empty(t, sc.TeacherID())
}

func TestContextConcurrentAccess(t *testing.T) {
	sc, err := New(context.Background(), repository.NewMemorySessionRepository(), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = sc.SetGroupID(context.Background(), "g")
		}()
		go func() {
			defer wg.Done()
			_ = sc.AccessToken()
		}()
	}
	wg.Wait()
	assert.Equal(t, "g", sc.GroupID())
}

func TestAccessTokenValid(t *testing.T) {
	now := time.Date(2024, 9, 2, 12, 0, 0, 0, time.UTC)
	sign := func(claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "no token", token: "", want: false},
		{name: "not a jwt", token: "opaque", want: false},
		{name: "expired", token: sign(jwt.MapClaims{"sub": "u1", "exp": now.Add(-time.Minute).Unix()}), want: false},
		{name: "live", token: sign(jwt.MapClaims{"sub": "u1", "exp": now.Add(time.Hour).Unix()}), want: true},
		{name: "no expiry", token: sign(jwt.MapClaims{"sub": "u1"}), want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := repository.NewMemorySessionRepository()
			if tc.token != "" {
				require.NoError(t, repo.Set(context.Background(), KeyAccessToken, tc.token))
			}
			sc, err := New(context.Background(), repo, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sc.AccessTokenValid(now))
		})
	}
}
