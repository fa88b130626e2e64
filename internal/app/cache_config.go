package app

import (
	"strings"
	"time"

	"github.com/charlesng35/sitecms/internal/cache"
)

const defaultCollectionTTL = 5 * time.Minute

// RedisClientConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
		Prefix:   c.Redis.Prefix,
	}
}

// TTLFor returns the list cache lifetime for a collection, falling back to five minutes.
func (c CacheConfig) TTLFor(collection string) time.Duration {
	var ttl time.Duration
	switch collection {
	case "pages":
		ttl = c.TTL.Pages
	case "projects":
		ttl = c.TTL.Projects
	case "services":
		ttl = c.TTL.Services
	case "team":
		ttl = c.TTL.Team
	case "settings":
		ttl = c.TTL.Settings
	}
	if ttl <= 0 {
		return defaultCollectionTTL
	}
	return ttl
}
