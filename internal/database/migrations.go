package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Page{},
		&models.Project{},
		&models.Service{},
		&models.TeamMember{},
		&models.SiteSettings{},
		&models.Media{},
		&models.BlobChunk{},
		&models.CacheEntry{},
		&models.SystemSetting{},
	)
}

// SeedData inserts the default site settings row when it does not exist yet.
func SeedData(db *gorm.DB) error {
	defaults := models.DefaultSiteSettings()
	return db.Where(models.SiteSettings{ID: defaults.ID}).
		Attrs(defaults).
		FirstOrCreate(&models.SiteSettings{}).Error
}

// AdminSeed describes the bootstrap administrator account.
type AdminSeed struct {
	Email        string
	Name         string
	PasswordHash string
}

// SeedAdmin creates the bootstrap administrator unless a user with the same email exists.
// It reports whether a new account was created.
func SeedAdmin(ctx context.Context, db *gorm.DB, seed AdminSeed) (bool, error) {
	if db == nil {
		return false, errors.New("nil database handle")
	}
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" || seed.PasswordHash == "" {
		return false, errors.New("seed admin: email and password hash are required")
	}

	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = "Administrator"
	}

	var existing models.User
	err := db.WithContext(ctx).Where(&models.User{Email: email}).Take(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	user := models.User{
		Email:    email,
		Name:     name,
		Password: seed.PasswordHash,
		Role:     models.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}
