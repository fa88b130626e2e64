package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charlesng35/sitecms/internal/app"
	"github.com/charlesng35/sitecms/internal/blob"
	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/database"
	"github.com/charlesng35/sitecms/internal/database/testutil"
	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/internal/ratelimit"
	"github.com/charlesng35/sitecms/pkg/crypto"
)

func testConfig(t *testing.T) *app.Config {
	t.Helper()
	cfg, err := app.LoadConfig("", t.TempDir())
	require.NoError(t, err)
	cfg.Database.Path = filepath.Join(t.TempDir(), "sitecms.sqlite")
	return cfg
}

func TestBootstrapRuntimeServesHealth(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bootstrap.Admin = app.AdminBootstrap{Email: "Owner@Example.com", Password: "correct-horse"}

	generated, err := app.ApplyRuntimeDefaults(cfg)
	require.NoError(t, err)

	stack, err := bootstrapRuntime(context.Background(), cfg, generated, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { stack.Shutdown(context.Background(), zap.NewNop()) })

	require.NotNil(t, stack.Cleaner)
	require.NotNil(t, stack.Windows)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health/ready", nil)
	stack.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var owner models.User
	require.NoError(t, stack.DB.Where("email = ?", "owner@example.com").Take(&owner).Error)
	require.Equal(t, models.RoleAdmin, owner.Role)

	stored, err := database.GetSystemSetting(context.Background(), stack.DB, database.JWTSecretSetting)
	require.NoError(t, err)
	require.Equal(t, cfg.Auth.JWT.Secret, stored)
}

func TestSeedBootstrapAdmin(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	ctx := context.Background()
	log := zap.NewNop()

	require.NoError(t, seedBootstrapAdmin(ctx, db, app.AdminBootstrap{Email: "admin@example.com"}, log))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)

	admin := app.AdminBootstrap{Email: "admin@example.com", Name: "Site Owner", Password: "first-password"}
	require.NoError(t, seedBootstrapAdmin(ctx, db, admin, log))

	// A second run keeps the existing account and its password.
	admin.Password = "second-password"
	require.NoError(t, seedBootstrapAdmin(ctx, db, admin, log))

	var user models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").Take(&user).Error)
	require.Equal(t, "Site Owner", user.Name)
	require.True(t, crypto.VerifyPassword(user.Password, "first-password"))
}

func TestSelectRateStore(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	dbStore := cache.NewDatabaseStore(db)
	cfg := testConfig(t)

	store, err := selectRateStore(cfg, dbStore, nil)
	require.NoError(t, err)
	require.IsType(t, &ratelimit.MemoryStore{}, store)

	cfg.RateLimit.Backend = app.RateBackendDatabase
	store, err = selectRateStore(cfg, dbStore, nil)
	require.NoError(t, err)
	require.IsType(t, &ratelimit.CacheStore{}, store)

	cfg.RateLimit.Backend = app.RateBackendRedis
	_, err = selectRateStore(cfg, dbStore, nil)
	require.Error(t, err)

	mr := miniredis.RunT(t)
	redis, err := cache.NewRedisStore(context.Background(), cache.RedisConfig{Address: mr.Addr(), Prefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redis.Close() })

	store, err = selectRateStore(cfg, dbStore, redis)
	require.NoError(t, err)
	count, _, err := store.Increment(context.Background(), "login|127.0.0.1", time.Minute)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestNewBlobBackend(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	cfg := testConfig(t)

	backend, err := newBlobBackend(context.Background(), cfg, db, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, blob.BackendDatabase, backend.Type())

	cfg.Blob.Backend = "ftp"
	_, err = newBlobBackend(context.Background(), cfg, db, zap.NewNop())
	require.Error(t, err)

	cfg.Blob.Backend = "s3"
	cfg.Blob.S3.Endpoint = ""
	_, err = newBlobBackend(context.Background(), cfg, db, zap.NewNop())
	require.Error(t, err)
}

func TestLoadApplicationConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 9191\n"), 0o600))

	cfg, err := loadApplicationConfig(dir)
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)

	cfg, err = loadApplicationConfig(file)
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)

	_, err = loadApplicationConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
