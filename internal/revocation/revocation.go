// Package revocation remembers logged-out token IDs until the tokens expire.
package revocation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// KeyPrefix namespaces revoked token IDs in Redis.
const KeyPrefix = "careauth:revoked:"

// Store records revoked token IDs.
type Store interface {
	// Revoke marks id as revoked for ttl. A non-positive ttl is a no-op.
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	// IsRevoked reports whether id was revoked and has not aged out yet.
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// RedisStore keeps revoked IDs as expiring Redis keys.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, KeyPrefix+id, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	err := s.client.Get(ctx, KeyPrefix+id).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore keeps revoked IDs in a map. Expired entries are purged on write.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, k)
		}
	}
	s.entries[id] = now.Add(ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.entries[id]
	return ok && s.now().Before(exp), nil
}
