package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"skillbridge/internal/cache"
)

// Store counts hits per key in fixed windows.
type Store interface {
	// Hit records one request for key and returns the count in the current
	// window and the time until the window resets.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type entry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps counters in process memory. Expired windows are only
// reclaimed by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{resetAt: now.Add(window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt.Sub(now), nil
}

// Sweep drops expired windows and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ScheduleSweep registers a cron job that sweeps the store on spec
// (for example "@every 5m"). The caller starts and stops the scheduler.
func ScheduleSweep(c *cron.Cron, store *MemoryStore, spec string) error {
	_, err := c.AddFunc(spec, func() {
		if n := store.Sweep(); n > 0 {
			log.Printf("rate limit sweep: removed %d expired windows", n)
		}
	})
	return err
}

// RedisStore shares counters between instances through redis.
type RedisStore struct {
	cache  *cache.Client
	prefix string
}

// NewRedisStore creates a store that namespaces its keys with prefix.
func NewRedisStore(c *cache.Client, prefix string) *RedisStore {
	return &RedisStore{cache: c, prefix: prefix}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return s.cache.IncrWindow(ctx, s.prefix+key, window)
}
