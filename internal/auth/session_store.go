package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore maps opaque session IDs to user IDs.
type SessionStore interface {
	Create(ctx context.Context, userID uint, ttl time.Duration) (string, error)
	Lookup(ctx context.Context, sessionID string) (userID uint, ok bool, err error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions in Redis with a TTL. Unlike the profile
// cache it surfaces Redis errors: a session that was not stored must not be
// handed out.
type RedisSessionStore struct {
	rdb *redis.Client
}

// Ensure RedisSessionStore implements SessionStore
var _ SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore creates a new session store.
func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

// Create stores a new session mapping sessionID -> userID.
func (s *RedisSessionStore) Create(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	sid := uuid.New().String()
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sid, strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sid, nil
}

// Lookup returns the user bound to a session; ok is false when the session
// is unknown or expired.
func (s *RedisSessionStore) Lookup(ctx context.Context, sessionID string) (uint, bool, error) {
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup session: %w", err)
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session %s: %w", sessionID, err)
	}
	return uint(id), true, nil
}

// Delete removes a session.
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
