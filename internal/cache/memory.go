package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charlesng35/sitecms/pkg/metrics"
)

// Memory is a process-local key/value cache with per-entry expiry. Reads, writes and deletes
// never wait on one another.
type Memory struct {
	entries sync.Map // string -> *memoryEntry
	now     func() time.Time
	name    string
}

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// WithName labels the cache in hit/miss metrics.
func WithName(name string) MemoryOption {
	return func(m *Memory) {
		if strings.TrimSpace(name) != "" {
			m.name = name
		}
	}
}

// NewMemory constructs an empty cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{now: time.Now, name: "content"}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the value stored under key. Expired entries are removed and reported as a miss.
func (m *Memory) Get(key string) (any, bool) {
	raw, ok := m.entries.Load(key)
	if !ok {
		metrics.CacheRequests.WithLabelValues(m.name, "miss").Inc()
		return nil, false
	}

	entry := raw.(*memoryEntry)
	if entry.expired(m.now()) {
		// a concurrent Set may have replaced the entry; only drop the one we saw
		m.entries.CompareAndDelete(key, entry)
		metrics.CacheRequests.WithLabelValues(m.name, "miss").Inc()
		return nil, false
	}

	metrics.CacheRequests.WithLabelValues(m.name, "hit").Inc()
	return entry.value, true
}

// Set stores value under key until now+ttl, replacing any existing entry. A non-positive ttl
// stores an entry that is already expired.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	expiresAt := m.now()
	if ttl > 0 {
		expiresAt = expiresAt.Add(ttl)
	}
	m.entries.Store(key, &memoryEntry{value: value, expiresAt: expiresAt})
}

// Delete removes keys. Missing keys are ignored.
func (m *Memory) Delete(keys ...string) {
	for _, key := range keys {
		m.entries.Delete(key)
	}
}

// DeletePrefix removes every key starting with prefix.
func (m *Memory) DeletePrefix(prefix string) int {
	removed := 0
	m.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			m.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Sweep removes every expired entry and returns how many were dropped.
func (m *Memory) Sweep() int {
	now := m.now()
	removed := 0
	m.entries.Range(func(key, raw any) bool {
		if raw.(*memoryEntry).expired(now) && m.entries.CompareAndDelete(key, raw) {
			removed++
		}
		return true
	})
	return removed
}

// Len reports the number of stored entries, including expired ones not yet swept.
func (m *Memory) Len() int {
	count := 0
	m.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// GetOrCompute returns the cached value for key or calls compute and caches its result for ttl.
//
// Concurrent misses for the same key are not coalesced: each caller that misses runs compute
// and the last writer wins. Errors from compute are returned and never cached. A cached value
// of a different type than T is treated as a miss.
func GetOrCompute[T any](ctx context.Context, m *Memory, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	if raw, ok := m.Get(key); ok {
		if value, ok := raw.(T); ok {
			return value, nil
		}
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	m.Set(key, value, ttl)
	return value, nil
}
