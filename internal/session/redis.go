package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prepvoice/backend/internal/models"
)

const keyPrefix = "interview:"

// RedisStore keeps sessions as JSON values with a key TTL, so idle eviction
// is delegated to Redis. Sessions are single-caller (one request at a time
// per id), so Mutate is a plain read-modify-write without optimistic locking.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store with idle TTL ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(id string) string { return keyPrefix + id }

func (s *RedisStore) set(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := s.ttl
	if sess.Completed() {
		ttl = completedGrace
	}
	if err := s.client.Set(ctx, key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Create inserts a new session.
func (s *RedisStore) Create(ctx context.Context, sess *models.Session) error {
	return s.set(ctx, sess)
}

// Get returns the session or ErrNotFound, refreshing the idle TTL.
func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	val, err := s.client.Get(ctx, key(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	ttl := s.ttl
	if sess.Completed() {
		ttl = completedGrace
	}
	_ = s.client.Expire(ctx, key(id), ttl).Err()
	return &sess, nil
}

// Mutate loads the session, applies fn, and writes the result back.
func (s *RedisStore) Mutate(ctx context.Context, id string, fn func(*models.Session) error) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	return s.set(ctx, sess)
}

// Delete removes the session; unknown ids are a no-op.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, key(id)).Err()
}

// Close is a no-op; the shared Redis client is closed by its owner.
func (s *RedisStore) Close() error { return nil }
