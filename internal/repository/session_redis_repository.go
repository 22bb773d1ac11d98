package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSessionRepository keeps the session as a single redis hash, so several clients on one
// machine can share a login.
type RedisSessionRepository struct {
	client *redis.Client
	key    string
}

// NewRedisSessionRepository constructs a redis-backed session repository.
func NewRedisSessionRepository(client *redis.Client, key string) *RedisSessionRepository {
	if key == "" {
		key = "schedule-sync:session"
	}
	return &RedisSessionRepository{client: client, key: key}
}

// Load returns every stored entry.
func (r *RedisSessionRepository) Load(ctx context.Context) (map[string]string, error) {
	entries, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", r.key, err)
	}
	return entries, nil
}

// Set stores one entry.
func (r *RedisSessionRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.HSet(ctx, r.key, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s.%s: %w", r.key, key, err)
	}
	return nil
}

// Delete removes the given entries.
func (r *RedisSessionRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.HDel(ctx, r.key, keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", r.key, err)
	}
	return nil
}
