package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlesng35/sitecms/internal/handlers"
	"github.com/charlesng35/sitecms/internal/middleware"
	"github.com/charlesng35/sitecms/internal/ratelimit"
)

// NewRouter builds the Gin engine, wires middleware and registers every route.
func NewRouter(deps Deps) (*gin.Engine, error) {
	s, err := buildStack(deps)
	if err != nil {
		return nil, err
	}
	cfg := s.cfg

	r := gin.New()
	proxies := cfg.Server.TrustedProxies
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return nil, err
	}

	cookieName := cfg.Auth.CookieName()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders(cfg.Server.HSTS))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins...))
	r.Use(middleware.AdminGate(s.edge, cookieName))

	registerHealthRoutes(r, cfg, handlers.NewHealthHandler(s.health))
	if err := registerAdminUI(r); err != nil {
		return nil, err
	}

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	policies := cfg.Policies()
	limit := func(name string) gin.HandlerFunc {
		return middleware.RateLimit(s.limiter, policies[name], middleware.ClientIP)
	}

	api := r.Group("/api")
	api.Use(limit(ratelimit.PolicyAPI))

	authHandler := handlers.NewAuthHandler(s.auth, handlers.CookieSettings{
		Name:   cookieName,
		Secure: cfg.Auth.Cookie.Secure || cfg.Server.IsProduction(),
	})
	requireAuth := middleware.Auth(s.jwt, cookieName)

	registerAuthRoutes(api, authRouteDeps{
		Handler:     authHandler,
		RequireAuth: requireAuth,
		LoginLimit:  limit(ratelimit.PolicyLogin),
	})

	content := contentHandlers{
		Pages:     handlers.NewPageHandler(s.pages),
		Projects:  handlers.NewProjectHandler(s.projects),
		Offerings: handlers.NewOfferingHandler(s.offerings),
		Team:      handlers.NewTeamHandler(s.team),
		Settings:  handlers.NewSettingsHandler(s.settings),
		Blobs:     handlers.NewBlobHandler(s.blobs),
	}
	registerPublicRoutes(api, content)

	admin := api.Group("/admin")
	// upload attempts count against their budget before credentials are checked
	admin.Use(onRoute(http.MethodPost, uploadRoute, limit(ratelimit.PolicyUpload)))
	admin.Use(requireAuth)
	if cfg.Server.CSRF.Enabled {
		admin.Use(middleware.CSRF())
	}
	registerAdminRoutes(admin, adminRouteDeps{
		Content: content,
		Users:   handlers.NewUserHandler(s.users),
		Stats:   handlers.NewStatsHandler(s.stats),
	})

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}

// onRoute applies h only to requests matched to method and the full route path.
func onRoute(method, fullPath string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == method && c.FullPath() == fullPath {
			h(c)
			return
		}
		c.Next()
	}
}
