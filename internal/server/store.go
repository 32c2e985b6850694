package server

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store caches rendered responses. Implementations treat every failure as
// a miss: the cache is an optimization, never a dependency.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type memoryEntry struct {
	body    []byte
	expires time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore returns an in-process Store. Expired entries are dropped
// lazily on access; suitable for single-instance deployments.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]memoryEntry)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		delete(m.entries, key)
		return nil, false
	}
	return entry.body, true
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{body: value, expires: time.Now().Add(ttl)}
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by the Redis instance at addr,
// for deployments with multiple server replicas sharing one cache.
func NewRedisStore(addr string) Store {
	return &redisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Get treats any Redis error, including an unreachable instance, as a
// cache miss so responses degrade to uncached rather than failing.
func (r *redisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	body, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return body, true
}

func (r *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = r.client.Set(ctx, key, value, ttl).Err()
}
