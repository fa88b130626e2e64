package app

import (
	"strings"

	"github.com/charlesng35/sitecms/internal/ratelimit"
)

// Rate limiter store backends.
const (
	RateBackendMemory   = "memory"
	RateBackendDatabase = "database"
	RateBackendRedis    = "redis"
)

// Policies returns the effective limiter policies. Development mode starts from the relaxed
// defaults, then explicit overrides apply. A disabled limiter yields no policies.
func (c *Config) Policies() map[string]ratelimit.Policy {
	if !c.RateLimit.Enabled {
		return map[string]ratelimit.Policy{}
	}

	policies := ratelimit.DefaultPolicies(c.Server.IsDevelopment())
	override := func(name string, s PolicySettings) {
		p := policies[name]
		if s.Window > 0 {
			p.Window = s.Window
		}
		if s.MaxRequests > 0 {
			p.MaxRequests = s.MaxRequests
		}
		policies[name] = p
	}
	override(ratelimit.PolicyLogin, c.RateLimit.Login)
	override(ratelimit.PolicyUpload, c.RateLimit.Upload)
	override(ratelimit.PolicyAPI, c.RateLimit.API)
	return policies
}

// RateBackend returns the normalised limiter store backend.
func (c RateLimitConfig) RateBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.Backend))
	if backend == "" {
		return RateBackendMemory
	}
	return backend
}
