package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented cache shared between application instances.
type Store interface {
	// IncrementWithTTL increments the counter at key and returns the new count together with the
	// time left in the window. The expiry is set when the counter is created and is not extended
	// by later increments.
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, keys ...string) error
}
