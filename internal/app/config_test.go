package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/sitecms/internal/auth"
	"github.com/charlesng35/sitecms/internal/ratelimit"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig("", filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.True(t, cfg.Server.IsDevelopment())
	require.Equal(t, []string{"https://example.com"}, cfg.Server.CORSOrigins)
	require.True(t, cfg.Server.CSRF.Enabled)
	require.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, 5*time.Second, cfg.Database.Timeout)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)

	require.Equal(t, 2*time.Minute, cfg.Cache.TTLFor("projects"))
	require.Equal(t, 5*time.Minute, cfg.Cache.TTLFor("pages"))
	require.Equal(t, 10*time.Minute, cfg.Cache.TTLFor("settings"))
	require.True(t, cfg.Cache.Redis.Enabled)
	require.Equal(t, "sitecms:", cfg.Cache.Redis.Prefix)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, "sitecms", cfg.Auth.JWT.Issuer)
	require.Equal(t, "auth-token", cfg.Auth.CookieName())
	require.True(t, cfg.Auth.Cookie.Secure)

	require.Equal(t, RateBackendRedis, cfg.RateLimit.RateBackend())

	require.Equal(t, "s3", cfg.Blob.Backend)
	require.Equal(t, int64(1048576), cfg.Blob.MaxSize)
	require.Equal(t, 255<<10, cfg.Blob.ChunkSize)
	require.Len(t, cfg.Blob.AllowedTypes, 5)
	require.Equal(t, 30*time.Second, cfg.Blob.Timeout)
	require.Equal(t, "blobs/", cfg.Blob.S3BackendConfig().Prefix)

	require.Equal(t, "@daily", cfg.Maintenance.CachePurge)
	require.Equal(t, "@every 1m", cfg.Maintenance.CacheSweep)
	require.Equal(t, "admin@example.com", cfg.Bootstrap.Admin.Email)
	require.Equal(t, "Administrator", cfg.Bootstrap.Admin.Name)
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("", t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.True(t, cfg.Server.IsProduction())
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 10*time.Second, cfg.Database.Timeout)
	require.Equal(t, RateBackendMemory, cfg.RateLimit.RateBackend())
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("SITECMS_SERVER_PORT", "7070")
	t.Setenv("SITECMS_AUTH_JWT_ISSUER", "env-issuer")

	cfg, err := LoadConfig("", t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "env-issuer", cfg.Auth.JWT.Issuer)
}

func TestLoadConfigExplicitFileMustExist(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsRedisLimiterWithoutRedis(t *testing.T) {
	cfg := Config{
		Server:    ServerConfig{Port: 8000},
		RateLimit: RateLimitConfig{Backend: "redis"},
	}
	require.ErrorContains(t, cfg.Validate(), "cache.redis.enabled")

	cfg.RateLimit.Backend = "carrier-pigeon"
	require.ErrorContains(t, cfg.Validate(), "unknown rate_limit.backend")
}

func TestAuthConfigAdapters(t *testing.T) {
	cfg := AuthConfig{JWT: JWTSettings{Secret: " secret ", Issuer: "cms"}}

	jwtCfg := cfg.JWTServiceConfig(nil)
	require.Equal(t, "secret", jwtCfg.Secret)
	require.Equal(t, "cms", jwtCfg.Issuer)
	require.Equal(t, auth.DefaultTokenTTL, jwtCfg.TokenTTL)
	require.Equal(t, "auth-token", cfg.CookieName())
}

func TestPolicies(t *testing.T) {
	cfg := &Config{RateLimit: RateLimitConfig{Enabled: true}}
	policies := cfg.Policies()
	require.Equal(t, 5, policies[ratelimit.PolicyLogin].MaxRequests)
	require.Equal(t, 15*time.Minute, policies[ratelimit.PolicyLogin].Window)
	require.Equal(t, 20, policies[ratelimit.PolicyUpload].MaxRequests)

	cfg.Server.Environment = EnvDevelopment
	cfg.RateLimit.Upload = PolicySettings{Window: 10 * time.Minute}
	policies = cfg.Policies()
	require.Equal(t, 50, policies[ratelimit.PolicyLogin].MaxRequests)
	require.Equal(t, 100, policies[ratelimit.PolicyUpload].MaxRequests)
	require.Equal(t, 10*time.Minute, policies[ratelimit.PolicyUpload].Window)

	cfg.RateLimit.Enabled = false
	require.Empty(t, cfg.Policies())
}

func TestDatabaseConnectionConfig(t *testing.T) {
	cfg := DatabaseConfig{
		Driver: "MariaDB",
		MySQL:  DBAuthConfig{Host: " db ", Port: 3306, Database: "cms", Username: "u", Password: "p"},
	}
	conn := cfg.ConnectionConfig()
	require.Equal(t, "mysql", conn.Driver)
	require.Equal(t, "db", conn.Host)
	require.Equal(t, 3306, conn.Port)
	require.Equal(t, "cms", conn.Name)

	require.Equal(t, "sqlite", DatabaseConfig{}.ConnectionConfig().Driver)
}

func TestBlobStoreConfig(t *testing.T) {
	cfg := BlobConfig{AllowedTypes: []string{" image/png ", ""}, MaxSize: 10}
	store := cfg.StoreConfig()
	require.Equal(t, []string{"image/png"}, store.AllowedTypes)
	require.Equal(t, int64(10), store.MaxSize)
}
