package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type window struct {
	start  time.Time
	length time.Duration
	count  int64
}

func (w *window) end() time.Time {
	return w.start.Add(w.length)
}

// MemoryStore keeps windows in process memory. Each key owns an atomic pointer that is
// replaced with compare-and-swap, so concurrent requests never take a lock.
type MemoryStore struct {
	windows sync.Map // string -> *atomic.Pointer[window]
	now     func() time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryClock overrides the time source.
func WithMemoryClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Increment implements Store. A window resets once more than its length has elapsed since it began.
func (s *MemoryStore) Increment(_ context.Context, key string, length time.Duration) (int64, time.Duration, error) {
	if length <= 0 {
		length = time.Minute
	}

	now := s.now()
	slot := s.slot(key)
	for {
		current := slot.Load()

		var next *window
		if current == nil || now.Sub(current.start) > length {
			next = &window{start: now, length: length, count: 1}
		} else {
			next = &window{start: current.start, length: current.length, count: current.count + 1}
		}

		if slot.CompareAndSwap(current, next) {
			return next.count, next.end().Sub(now), nil
		}
	}
}

// Sweep drops windows that have ended and returns how many were removed. A request racing
// with the removal of its key starts a fresh window, which it would have done anyway.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	removed := 0
	s.windows.Range(func(key, value any) bool {
		current := value.(*atomic.Pointer[window]).Load()
		if current != nil && now.After(current.end()) && s.windows.CompareAndDelete(key, value) {
			removed++
		}
		return true
	})
	return removed
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	count := 0
	s.windows.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (s *MemoryStore) slot(key string) *atomic.Pointer[window] {
	if existing, ok := s.windows.Load(key); ok {
		return existing.(*atomic.Pointer[window])
	}
	actual, _ := s.windows.LoadOrStore(key, new(atomic.Pointer[window]))
	return actual.(*atomic.Pointer[window])
}
