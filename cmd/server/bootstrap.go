package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/api"
	"github.com/charlesng35/sitecms/internal/app"
	"github.com/charlesng35/sitecms/internal/app/maintenance"
	"github.com/charlesng35/sitecms/internal/blob"
	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/database"
	"github.com/charlesng35/sitecms/internal/ratelimit"
	"github.com/charlesng35/sitecms/pkg/crypto"
	"github.com/charlesng35/sitecms/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB      *gorm.DB
	Redis   *cache.RedisStore
	Cache   *cache.Memory
	Windows *ratelimit.MemoryStore
	Cleaner *maintenance.Cleaner
	Router  *gin.Engine
}

// bootstrapRuntime initialises the database, shared stores, background jobs and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, generated map[string]bool, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if err := app.PersistRuntimeSecrets(ctx, stack.DB, cfg, generated); err != nil {
		return nil, err
	}

	if err := seedBootstrapAdmin(ctx, stack.DB, cfg.Bootstrap.Admin, log); err != nil {
		return nil, err
	}

	if cfg.Cache.Redis.Enabled {
		if stack.Redis, err = cache.NewRedisStore(ctx, cfg.Cache.RedisClientConfig()); err != nil {
			if cfg.RateLimit.RateBackend() == app.RateBackendRedis {
				return nil, fmt.Errorf("connect redis: %w", err)
			}
			log.Warn("redis unavailable; falling back to local stores", zap.Error(err))
			stack.Redis = nil
		} else {
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	dbStore := cache.NewDatabaseStore(stack.DB)
	rateStore, err := selectRateStore(cfg, dbStore, stack.Redis)
	if err != nil {
		return nil, err
	}
	if windows, ok := rateStore.(*ratelimit.MemoryStore); ok {
		stack.Windows = windows
	}

	backend, err := newBlobBackend(ctx, cfg, stack.DB, log)
	if err != nil {
		return nil, err
	}

	stack.Cache = cache.NewMemory(cache.WithName("content"))

	if cfg.Maintenance.Enabled {
		opts := []maintenance.Option{
			maintenance.WithCacheSweep(stack.Cache, cfg.Maintenance.CacheSweep),
			maintenance.WithCachePurge(dbStore, cfg.Maintenance.CachePurge),
		}
		if stack.Windows != nil {
			opts = append(opts, maintenance.WithRateLimitSweep(stack.Windows, cfg.Maintenance.RateLimitSweep))
		}
		stack.Cleaner = maintenance.NewCleaner(opts...)
		if err := stack.Cleaner.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	}

	deps := api.Deps{
		Config:      cfg,
		DB:          stack.DB,
		Cache:       stack.Cache,
		RateStore:   rateStore,
		BlobBackend: backend,
	}
	if stack.Redis != nil {
		deps.Redis = stack.Redis
	}

	stack.Router, err = api.NewRouter(deps)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		stopCtx := s.Cleaner.Stop()
		if stopCtx != nil {
			<-stopCtx.Done()
		}
		if err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn("redis shutdown", zap.Error(err))
		}
	}

	if s.DB != nil {
		if err := database.Close(s.DB); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", dbCfg.Driver))

	return db, nil
}

// seedBootstrapAdmin creates the configured administrator once. Missing credentials skip the step.
func seedBootstrapAdmin(ctx context.Context, db *gorm.DB, admin app.AdminBootstrap, log *zap.Logger) error {
	email := strings.TrimSpace(admin.Email)
	if email == "" || admin.Password == "" {
		return nil
	}

	hash, err := crypto.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hash bootstrap admin password: %w", err)
	}

	created, err := database.SeedAdmin(ctx, db, database.AdminSeed{
		Email:        email,
		Name:         admin.Name,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	if created {
		log.Info("bootstrap administrator created", zap.String("email", strings.ToLower(email)))
	}
	return nil
}

// selectRateStore picks the limiter window store for the configured backend.
func selectRateStore(cfg *app.Config, dbStore *cache.DatabaseStore, redis *cache.RedisStore) (ratelimit.Store, error) {
	switch cfg.RateLimit.RateBackend() {
	case app.RateBackendMemory:
		return ratelimit.NewMemoryStore(), nil
	case app.RateBackendDatabase:
		return ratelimit.NewCacheStore(dbStore)
	case app.RateBackendRedis:
		if redis == nil {
			return nil, errors.New("rate_limit.backend redis requires a redis connection")
		}
		return ratelimit.NewCacheStore(redis)
	default:
		return nil, fmt.Errorf("unsupported rate limit backend %q", cfg.RateLimit.Backend)
	}
}

// newBlobBackend builds the configured upload backend. A missing S3 bucket is created on start.
func newBlobBackend(ctx context.Context, cfg *app.Config, db *gorm.DB, log *zap.Logger) (blob.Backend, error) {
	name, err := blob.NormalizeBackend(cfg.Blob.Backend)
	if err != nil {
		return nil, err
	}

	switch name {
	case blob.BackendS3:
		s3cfg := cfg.Blob.S3BackendConfig()
		backend, err := blob.NewS3Backend(s3cfg)
		if err != nil {
			return nil, fmt.Errorf("initialise s3 backend: %w", err)
		}
		if err := backend.EnsureBucket(ctx, s3cfg.Region); err != nil {
			log.Warn("s3 bucket check failed", zap.String("bucket", s3cfg.Bucket), zap.Error(err))
		}
		return backend, nil
	default:
		return blob.NewDatabaseBackend(db)
	}
}
