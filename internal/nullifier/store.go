// Package nullifier provides the backing stores for replay detection.
package nullifier

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "nullifier:"

// RedisStore records nullifiers with SETNX so concurrent submissions of the
// same proof race safely: exactly one caller sees it as fresh.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) MarkSeen(ctx context.Context, nullifier string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, keyPrefix+nullifier, "1", ttl).Result()
}

// MemoryStore is an in-process store for tests and single-node deployments.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) MarkSeen(_ context.Context, nullifier string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if exp, ok := s.seen[nullifier]; ok && now.Before(exp) {
		return false, nil
	}
	s.seen[nullifier] = now.Add(ttl)
	return true, nil
}
