package api

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/app"
	iauth "github.com/charlesng35/sitecms/internal/auth"
	"github.com/charlesng35/sitecms/internal/auth/edge"
	"github.com/charlesng35/sitecms/internal/blob"
	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/monitoring"
	"github.com/charlesng35/sitecms/internal/monitoring/checks"
	"github.com/charlesng35/sitecms/internal/ratelimit"
	"github.com/charlesng35/sitecms/internal/services"
)

// Deps carries the long-lived infrastructure the router wires services onto.
type Deps struct {
	Config *app.Config
	DB     *gorm.DB
	// Cache holds rendered listings. A fresh in-memory cache is used when nil.
	Cache *cache.Memory
	// RateStore counts limiter windows. An in-memory store is used when nil.
	RateStore ratelimit.Store
	// BlobBackend persists upload payloads. The database backend is used when nil.
	BlobBackend blob.Backend
	// Redis is probed for readiness when the shared cache is enabled.
	Redis checks.Pinger
	// Health receives readiness probes. A new manager is created when nil.
	Health *monitoring.HealthManager
	Clock  func() time.Time
}

// stack is the set of services and verifiers built from Deps.
type stack struct {
	cfg     *app.Config
	jwt     *iauth.JWTService
	edge    *edge.Verifier
	limiter *ratelimit.Limiter
	health  *monitoring.HealthManager

	pages     *services.PageService
	projects  *services.ProjectService
	offerings *services.OfferingService
	team      *services.TeamService
	settings  *services.SettingsService
	users     *services.UserService
	auth      *services.AuthService
	stats     *services.StatsService
	blobs     *blob.Store
}

func buildStack(deps Deps) (*stack, error) {
	if deps.DB == nil {
		return nil, errors.New("database handle must be provided")
	}
	if deps.Config == nil {
		return nil, errors.New("config must be provided")
	}
	cfg := deps.Config
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	memory := deps.Cache
	if memory == nil {
		memory = cache.NewMemory(cache.WithClock(clock))
	}

	s := &stack{cfg: cfg, health: deps.Health}
	if s.health == nil {
		s.health = monitoring.NewHealthManager()
	}

	jwtCfg := cfg.Auth.JWTServiceConfig(clock)
	var err error
	s.jwt, err = iauth.NewJWTService(jwtCfg)
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}
	s.edge, err = edge.NewVerifier(jwtCfg.Secret, jwtCfg.Issuer, clock)
	if err != nil {
		return nil, fmt.Errorf("initialise edge verifier: %w", err)
	}

	rateStore := deps.RateStore
	if rateStore == nil {
		rateStore = ratelimit.NewMemoryStore(ratelimit.WithMemoryClock(clock))
	}
	s.limiter, err = ratelimit.NewLimiter(rateStore, ratelimit.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("initialise rate limiter: %w", err)
	}

	content := func(collection string) services.ContentConfig {
		return services.ContentConfig{
			DB:      deps.DB,
			Cache:   memory,
			TTL:     cfg.Cache.TTLFor(collection),
			Timeout: cfg.Database.Timeout,
		}
	}

	if s.settings, err = services.NewSettingsService(content("settings")); err != nil {
		return nil, err
	}
	if s.pages, err = services.NewPageService(content("pages")); err != nil {
		return nil, err
	}
	if s.projects, err = services.NewProjectService(content("projects"), s.settings); err != nil {
		return nil, err
	}
	if s.offerings, err = services.NewOfferingService(content("services")); err != nil {
		return nil, err
	}
	if s.team, err = services.NewTeamService(content("team")); err != nil {
		return nil, err
	}
	if s.users, err = services.NewUserService(deps.DB, cfg.Database.Timeout); err != nil {
		return nil, err
	}

	authenticator, err := iauth.NewLocalAuthenticator(deps.DB, clock)
	if err != nil {
		return nil, err
	}
	if s.auth, err = services.NewAuthService(authenticator, s.jwt, s.users, clock); err != nil {
		return nil, err
	}

	s.stats, err = services.NewStatsService(deps.DB, map[string]services.StatsSource{
		"pages":    s.pages,
		"projects": s.projects,
		"services": s.offerings,
		"team":     s.team,
	})
	if err != nil {
		return nil, err
	}

	backend := deps.BlobBackend
	if backend == nil {
		if backend, err = blob.NewDatabaseBackend(deps.DB); err != nil {
			return nil, err
		}
	}
	if s.blobs, err = blob.NewStore(deps.DB, backend, cfg.Blob.StoreConfig(), blob.WithClock(clock)); err != nil {
		return nil, fmt.Errorf("initialise blob store: %w", err)
	}

	s.health.RegisterReadiness(checks.Database(deps.DB, 0))
	s.health.RegisterReadiness(checks.Blob(s.blobs, s.blobs.Backend(), 0))
	if deps.Redis != nil {
		s.health.RegisterReadiness(checks.Redis(deps.Redis, 0))
	}

	return s, nil
}
