package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreConcurrentIncrementsAreCounted(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const workers, perWorker = 16, 250
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, _, err := store.Increment(ctx, "k", time.Hour); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	count, _, err := store.Increment(ctx, "k", time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, workers*perWorker+1, count)
}

func TestMemoryStoreTTL(t *testing.T) {
	c := newClock()
	store := NewMemoryStore(WithMemoryClock(c.Now))
	ctx := context.Background()

	_, ttl, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.Equal(t, time.Minute, ttl)

	c.Advance(45 * time.Second)
	count, ttl, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
	require.Equal(t, 15*time.Second, ttl)
}

func TestMemoryStoreSweep(t *testing.T) {
	c := newClock()
	store := NewMemoryStore(WithMemoryClock(c.Now))
	ctx := context.Background()

	_, _, err := store.Increment(ctx, "short", time.Second)
	require.NoError(t, err)
	_, _, err = store.Increment(ctx, "long", time.Hour)
	require.NoError(t, err)

	require.Zero(t, store.Sweep())

	c.Advance(time.Minute)
	require.Equal(t, 1, store.Sweep())
	require.Equal(t, 1, store.Len())

	count, _, err := store.Increment(ctx, "long", time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}
