package app

import (
	"strings"
	"time"

	"github.com/charlesng35/sitecms/internal/auth"
)

const defaultCookieName = "auth-token"

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig(clock func() time.Time) auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}

	return auth.JWTConfig{
		Secret:   strings.TrimSpace(c.JWT.Secret),
		Issuer:   strings.TrimSpace(c.JWT.Issuer),
		TokenTTL: ttl,
		Clock:    clock,
	}
}

// CookieName returns the configured auth cookie name.
func (c AuthConfig) CookieName() string {
	if name := strings.TrimSpace(c.Cookie.Name); name != "" {
		return name
	}
	return defaultCookieName
}
