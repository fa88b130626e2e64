package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/models"
)

func TestGetAndUpsertSystemSetting(t *testing.T) {
	db := openSystemSettingTestDB(t)
	ctx := context.Background()

	value, err := GetSystemSetting(ctx, db, "missing")
	require.NoError(t, err)
	require.Equal(t, "", value)

	require.NoError(t, UpsertSystemSetting(ctx, db, "sample", "value1"))

	retrieved, err := GetSystemSetting(ctx, db, "sample")
	require.NoError(t, err)
	require.Equal(t, "value1", retrieved)

	require.NoError(t, UpsertSystemSetting(ctx, db, "sample", "value2"))

	retrieved, err = GetSystemSetting(ctx, db, "sample")
	require.NoError(t, err)
	require.Equal(t, "value2", retrieved)
}

func TestEnsureSystemSettingKeepsFirstValue(t *testing.T) {
	db := openSystemSettingTestDB(t)
	ctx := context.Background()

	value, written, err := EnsureSystemSetting(ctx, db, JWTSecretSetting, "initial")
	require.NoError(t, err)
	require.True(t, written)
	require.Equal(t, "initial", value)

	value, written, err = EnsureSystemSetting(ctx, db, JWTSecretSetting, "replacement")
	require.NoError(t, err)
	require.False(t, written)
	require.Equal(t, "initial", value)

	_, _, err = EnsureSystemSetting(ctx, db, JWTSecretSetting, "  ")
	require.Error(t, err)
}

func openSystemSettingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.SystemSetting{}))
	return db
}
