package app

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/database"
	"github.com/charlesng35/sitecms/pkg/crypto"
)

const jwtSecretBytes = 48

// Runtime secret keys reported by ApplyRuntimeDefaults.
const (
	KeyJWTSecret = "auth.jwt.secret"
)

// ApplyRuntimeDefaults ensures critical secrets are populated even when no configuration file is supplied.
// It returns a map describing which keys were generated so callers can log the event without exposing values.
func ApplyRuntimeDefaults(cfg *Config) (map[string]bool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	generated := make(map[string]bool)

	if strings.TrimSpace(cfg.Auth.JWT.Secret) == "" {
		secret, err := crypto.GenerateToken(jwtSecretBytes)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.Auth.JWT.Secret = secret
		generated[KeyJWTSecret] = true
	}

	return generated, nil
}

// PersistRuntimeSecrets stores generated secrets so restarts keep issued tokens valid. When a
// secret was stored by an earlier run, it replaces the freshly generated one in cfg.
func PersistRuntimeSecrets(ctx context.Context, db *gorm.DB, cfg *Config, generated map[string]bool) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if !generated[KeyJWTSecret] {
		return nil
	}

	stored, _, err := database.EnsureSystemSetting(ctx, db, database.JWTSecretSetting, cfg.Auth.JWT.Secret)
	if err != nil {
		return fmt.Errorf("persist jwt secret: %w", err)
	}
	cfg.Auth.JWT.Secret = stored
	return nil
}
