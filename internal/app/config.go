package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g. SITECMS_SERVER_PORT.
const EnvPrefix = "SITECMS"

// Environment names accepted by server.environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config represents the runtime configuration for the CMS backend.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Auth        AuthConfig        `mapstructure:"auth"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Blob        BlobConfig        `mapstructure:"blob"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Bootstrap   BootstrapConfig   `mapstructure:"bootstrap"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	Environment     string        `mapstructure:"environment"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	HSTS            bool          `mapstructure:"hsts"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CSRF            CSRFConfig    `mapstructure:"csrf"`
}

// CSRFConfig controls CSRF protection middleware on admin routes.
type CSRFConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string        `mapstructure:"driver"`
	Path     string        `mapstructure:"path"`
	DSN      string        `mapstructure:"dsn"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Postgres DBAuthConfig  `mapstructure:"postgres"`
	MySQL    DBAuthConfig  `mapstructure:"mysql"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// CacheConfig holds per-collection response cache lifetimes and the optional shared redis.
type CacheConfig struct {
	TTL   CacheTTLConfig   `mapstructure:"ttl"`
	Redis RedisCacheConfig `mapstructure:"redis"`
}

// CacheTTLConfig sets how long cached listings live for each collection.
type CacheTTLConfig struct {
	Pages    time.Duration `mapstructure:"pages"`
	Projects time.Duration `mapstructure:"projects"`
	Services time.Duration `mapstructure:"services"`
	Team     time.Duration `mapstructure:"team"`
	Settings time.Duration `mapstructure:"settings"`
}

// RedisCacheConfig holds Redis connection options.
type RedisCacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TLS      bool          `mapstructure:"tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Prefix   string        `mapstructure:"prefix"`
}

// AuthConfig captures token and cookie settings.
type AuthConfig struct {
	JWT    JWTSettings    `mapstructure:"jwt"`
	Cookie CookieSettings `mapstructure:"cookie"`
}

// JWTSettings configures signed tokens.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// CookieSettings configures the auth cookie.
type CookieSettings struct {
	Name   string `mapstructure:"name"`
	Secure bool   `mapstructure:"secure"`
}

// RateLimitConfig selects the limiter store and overrides built-in policies.
type RateLimitConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	Backend string         `mapstructure:"backend"`
	Login   PolicySettings `mapstructure:"login"`
	Upload  PolicySettings `mapstructure:"upload"`
	API     PolicySettings `mapstructure:"api"`
}

// PolicySettings overrides one limiter policy. Zero values keep the default.
type PolicySettings struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
}

// BlobConfig configures upload validation and the payload backend.
type BlobConfig struct {
	Backend      string        `mapstructure:"backend"`
	MaxSize      int64         `mapstructure:"max_size"`
	ChunkSize    int           `mapstructure:"chunk_size"`
	AllowedTypes []string      `mapstructure:"allowed_types"`
	Timeout      time.Duration `mapstructure:"timeout"`
	S3           S3Settings    `mapstructure:"s3"`
}

// S3Settings holds S3-compatible object storage credentials.
type S3Settings struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PathStyle bool   `mapstructure:"path_style"`
	Prefix    string `mapstructure:"prefix"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Health     HealthConfig     `mapstructure:"health_check"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// HealthConfig toggles health endpoints.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// MaintenanceConfig sets cron schedules for background housekeeping.
type MaintenanceConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	CacheSweep     string `mapstructure:"cache_sweep"`
	RateLimitSweep string `mapstructure:"ratelimit_sweep"`
	CachePurge     string `mapstructure:"cache_purge"`
}

// BootstrapConfig seeds the first administrator.
type BootstrapConfig struct {
	Admin AdminBootstrap `mapstructure:"admin"`
}

// AdminBootstrap describes the administrator created on an empty user table.
type AdminBootstrap struct {
	Email    string `mapstructure:"email"`
	Name     string `mapstructure:"name"`
	Password string `mapstructure:"password"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c ServerConfig) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), EnvDevelopment)
}

// IsProduction reports whether the server runs in production mode.
func (c ServerConfig) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), EnvProduction)
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
// An explicit file path wins over the search paths.
func LoadConfig(file string, paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	if file = strings.TrimSpace(file); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		for _, path := range paths {
			v.AddConfigPath(path)
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	switch strings.ToLower(strings.TrimSpace(c.Server.Environment)) {
	case "", EnvDevelopment, EnvProduction, "test":
	default:
		return fmt.Errorf("config: unknown server.environment %q", c.Server.Environment)
	}
	switch strings.ToLower(strings.TrimSpace(c.RateLimit.Backend)) {
	case "", "memory", "database", "redis":
	default:
		return fmt.Errorf("config: unknown rate_limit.backend %q", c.RateLimit.Backend)
	}
	if strings.EqualFold(c.RateLimit.Backend, "redis") && !c.Cache.Redis.Enabled {
		return errors.New("config: rate_limit.backend redis requires cache.redis.enabled")
	}
	if c.Blob.MaxSize < 0 || c.Blob.ChunkSize < 0 {
		return errors.New("config: blob sizes must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.environment", EnvProduction)
	v.SetDefault("server.hsts", false)
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.csrf.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/sitecms.sqlite")
	v.SetDefault("database.timeout", "10s")

	v.SetDefault("cache.ttl.pages", "5m")
	v.SetDefault("cache.ttl.projects", "5m")
	v.SetDefault("cache.ttl.services", "5m")
	v.SetDefault("cache.ttl.team", "5m")
	v.SetDefault("cache.ttl.settings", "10m")
	v.SetDefault("cache.redis.enabled", false)
	v.SetDefault("cache.redis.address", "127.0.0.1:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.tls", false)
	v.SetDefault("cache.redis.timeout", "5s")
	v.SetDefault("cache.redis.prefix", "sitecms:")

	v.SetDefault("auth.jwt.issuer", "sitecms")
	v.SetDefault("auth.jwt.ttl", "168h")
	v.SetDefault("auth.cookie.name", "auth-token")
	v.SetDefault("auth.cookie.secure", false)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.backend", "memory")

	v.SetDefault("blob.backend", "database")
	v.SetDefault("blob.max_size", 5<<20)
	v.SetDefault("blob.chunk_size", 255<<10)
	v.SetDefault("blob.allowed_types", []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"})
	v.SetDefault("blob.timeout", "30s")
	v.SetDefault("blob.s3.use_ssl", true)
	v.SetDefault("blob.s3.prefix", "blobs/")

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
	v.SetDefault("monitoring.health_check.enabled", true)

	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.cache_sweep", "@every 1m")
	v.SetDefault("maintenance.ratelimit_sweep", "@every 5m")
	v.SetDefault("maintenance.cache_purge", "@hourly")

	v.SetDefault("bootstrap.admin.name", "Administrator")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
