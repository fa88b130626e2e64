package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/models"
)

// JWTSecretSetting stores the signing secret generated on first start.
const JWTSecretSetting = "auth.jwt_secret"

// GetSystemSetting retrieves a system setting by key. Returns an empty string when not found.
func GetSystemSetting(ctx context.Context, db *gorm.DB, key string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("system settings: db is nil")
	}

	var setting models.SystemSetting
	err := db.WithContext(ctx).Where(&models.SystemSetting{Key: key}).Take(&setting).Error
	if err == nil {
		return setting.Value, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if strings.Contains(err.Error(), "no such table") {
		return "", nil
	}
	return "", fmt.Errorf("system settings: get %q: %w", key, err)
}

// UpsertSystemSetting stores or updates a system setting value.
func UpsertSystemSetting(ctx context.Context, db *gorm.DB, key, value string) error {
	if db == nil {
		return fmt.Errorf("system settings: db is nil")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("system settings: key is required")
	}

	record := models.SystemSetting{
		Key:   key,
		Value: value,
	}

	if err := db.WithContext(ctx).
		Where(&models.SystemSetting{Key: key}).
		Assign(map[string]any{"value": value}).
		FirstOrCreate(&record).Error; err != nil {
		return fmt.Errorf("system settings: upsert %q: %w", key, err)
	}

	return nil
}

// EnsureSystemSetting returns the stored value for key, persisting candidate first when nothing
// is stored yet. The boolean reports whether candidate was written.
func EnsureSystemSetting(ctx context.Context, db *gorm.DB, key, candidate string) (string, bool, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false, fmt.Errorf("system settings: value for %q is empty", key)
	}

	current, err := GetSystemSetting(ctx, db, key)
	if err != nil {
		return "", false, err
	}
	if strings.TrimSpace(current) != "" {
		return current, false, nil
	}

	if err := UpsertSystemSetting(ctx, db, key, candidate); err != nil {
		return "", false, err
	}
	return candidate, true, nil
}
