package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/database/testutil"
	"github.com/charlesng35/sitecms/internal/models"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type contentFixture struct {
	db    *gorm.DB
	cache *cache.Memory
	clock *testClock
	cfg   ContentConfig
}

func newContentFixture(t *testing.T) *contentFixture {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	clock := newTestClock()
	memory := cache.NewMemory(cache.WithClock(clock.Now))
	return &contentFixture{
		db:    db,
		cache: memory,
		clock: clock,
		cfg:   ContentConfig{DB: db, Cache: memory, TTL: time.Minute, Timeout: 5 * time.Second},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func published() *models.PublishStatus {
	return ptr(models.PublishStatusPublished)
}

func requireAppStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, status, appErr.StatusCode)
}
