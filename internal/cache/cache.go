// Package cache implements the request/response cache layer: an in-memory
// store by default, auto-promoted to Redis when REDIS_ADDR is set. Grounded
// on the teacher's data/cache.Cache interface and NewAuto() selector. Each
// in-memory entry holds its key's byte payload, an expiry time and a
// last-access time; entries carry no venue or fetch timestamp.
package cache

import (
	"context"
	"os"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Store is the cache contract every component depends on — never a concrete
// backend — so the HTTP Engine and venue adapters are oblivious to whether
// Redis is in play.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, val []byte, ttl time.Duration)
	Delete(key string)
	Len() int
}

type memoryEntry struct {
	b          []byte
	exp        time.Time
	lastAccess time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	maxLen  int
}

// New builds an in-process, mutex-guarded cache bounded at maxLen entries.
// Once full, Set evicts the least-recently-accessed entry, per the cache
// layer's eviction rule.
func New(maxLen int) Store {
	if maxLen <= 0 {
		maxLen = 5000
	}
	return &memoryStore{entries: make(map[string]memoryEntry), maxLen: maxLen}
}

func (c *memoryStore) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(c.entries, key)
		return nil, false
	}
	e.lastAccess = time.Now()
	c.entries[key] = e
	return e.b, true
}

func (c *memoryStore) Set(key string, val []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxLen {
		if _, exists := c.entries[key]; !exists {
			c.evictLRULocked()
		}
	}

	now := time.Now()
	e := memoryEntry{b: append([]byte(nil), val...), lastAccess: now}
	if ttl > 0 {
		e.exp = now.Add(ttl)
	}
	c.entries[key] = e
}

func (c *memoryStore) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *memoryStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CleanExpired sweeps lazily-missed expired entries; callers run this
// periodically rather than on every Get so a burst of reads doesn't pay for
// a full-map scan (spec: "opportunistically on periodic sweep").
func (c *memoryStore) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	cleaned := 0
	for k, e := range c.entries {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.entries, k)
			cleaned++
		}
	}
	return cleaned
}

func (c *memoryStore) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	first := true
	for k, e := range c.entries {
		if first || e.lastAccess.Before(oldestAccess) {
			oldestKey, oldestAccess = k, e.lastAccess
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// redisStore adapts a redis.Client to Store. Len is approximate (DBSize
// includes any keys set by other processes sharing the same database).
type redisStore struct {
	client *redis.Client
	prefix string
}

func (r *redisStore) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return v, true
}

func (r *redisStore) Set(key string, val []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = r.client.Set(ctx, r.prefix+key, val, ttl).Err()
}

func (r *redisStore) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = r.client.Del(ctx, r.prefix+key).Err()
}

func (r *redisStore) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := r.client.DBSize(ctx).Result()
	if err != nil {
		return -1
	}
	return int(n)
}

// NewAuto selects Redis when REDIS_ADDR is set, otherwise the in-process
// store. This is the single decision point: no other component re-checks
// the environment for a cache backend.
func NewAuto(maxLen int) Store {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return &redisStore{
			client: redis.NewClient(&redis.Options{Addr: addr}),
			prefix: "skinarb:",
		}
	}
	return New(maxLen)
}
