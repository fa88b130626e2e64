package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/charlesng35/sitecms/internal/cache"
)

// CacheStore shares counters between instances through a cache.Store (database or Redis).
type CacheStore struct {
	store cache.Store
}

// NewCacheStore wraps a shared cache store.
func NewCacheStore(store cache.Store) (*CacheStore, error) {
	if store == nil {
		return nil, errors.New("ratelimit: cache store is required")
	}
	return &CacheStore{store: store}, nil
}

// Increment implements Store.
func (s *CacheStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if window <= 0 {
		window = time.Minute
	}
	return s.store.IncrementWithTTL(ctx, "ratelimit:"+key, window)
}
