package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/database/testutil"
)

func TestNewCacheStoreRequiresStore(t *testing.T) {
	_, err := NewCacheStore(nil)
	require.Error(t, err)
}

func TestLimiterOverRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	redisStore, err := cache.NewRedisStore(context.Background(), cache.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisStore.Close() })

	store, err := NewCacheStore(redisStore)
	require.NoError(t, err)
	limiter, err := NewLimiter(store)
	require.NoError(t, err)

	policy := Policy{Name: "login", Window: time.Minute, MaxRequests: 2}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		decision, err := limiter.Check(ctx, "1.2.3.4", policy)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}

	decision, err := limiter.Check(ctx, "1.2.3.4", policy)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Greater(t, decision.RetryAfter, time.Duration(0))
	require.True(t, mr.Exists("sitecms:ratelimit:login|1.2.3.4"))

	mr.FastForward(time.Minute + time.Second)
	decision, err = limiter.Check(ctx, "1.2.3.4", policy)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestLimiterOverDatabaseStore(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store, err := NewCacheStore(cache.NewDatabaseStore(db))
	require.NoError(t, err)
	limiter, err := NewLimiter(store)
	require.NoError(t, err)

	policy := Policy{Name: "upload", Window: time.Hour, MaxRequests: 1}
	ctx := context.Background()

	first, err := limiter.Check(ctx, "user-1", policy)
	require.NoError(t, err)
	require.True(t, first.Allowed)

	second, err := limiter.Check(ctx, "user-1", policy)
	require.NoError(t, err)
	require.False(t, second.Allowed)
}

func TestStoresAgreeAtWindowBoundary(t *testing.T) {
	c := newClock()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	dbStore, err := NewCacheStore(cache.NewDatabaseStore(db, cache.WithDatabaseClock(c.Now)))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory":   NewMemoryStore(WithMemoryClock(c.Now)),
		"database": dbStore,
	}
	policy := Policy{Name: "login", Window: time.Minute, MaxRequests: 1}
	ctx := context.Background()

	check := func(name string) Decision {
		limiter, err := NewLimiter(stores[name], WithClock(c.Now))
		require.NoError(t, err)
		decision, err := limiter.Check(ctx, "1.2.3.4", policy)
		require.NoError(t, err)
		return decision
	}

	for name := range stores {
		require.True(t, check(name).Allowed, name)
	}

	// The window is still open when exactly its length has elapsed.
	c.Advance(time.Minute)
	for name := range stores {
		decision := check(name)
		require.False(t, decision.Allowed, name)
		require.Zero(t, decision.RetryAfter, name)
	}

	c.Advance(time.Millisecond)
	for name := range stores {
		decision := check(name)
		require.True(t, decision.Allowed, name)
		require.EqualValues(t, 1, decision.Count, name)
	}
}
