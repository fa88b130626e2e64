package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/internal/store"
	"github.com/charlesng35/sitecms/pkg/logger"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

// SettingsInput carries site settings for a partial update.
type SettingsInput struct {
	SiteName               *string             `json:"site_name" validate:"omitempty,max=200"`
	SiteDescription        *string             `json:"site_description" validate:"omitempty,max=500"`
	Logo                   *string             `json:"logo"`
	Favicon                *string             `json:"favicon"`
	PrimaryColor           *string             `json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor         *string             `json:"secondary_color" validate:"omitempty,hexcolor"`
	ContactEmail           *string             `json:"contact_email" validate:"omitempty,email"`
	ContactPhone           *string             `json:"contact_phone" validate:"omitempty,max=50"`
	Address                *string             `json:"address" validate:"omitempty,max=500"`
	SocialMedia            *models.SocialLinks `json:"social_media"`
	DefaultMetaTitle       *string             `json:"default_meta_title" validate:"omitempty,max=200"`
	DefaultMetaDescription *string             `json:"default_meta_description" validate:"omitempty,max=500"`
	FeaturedProjectsLimit  *int                `json:"featured_projects_limit" validate:"omitempty,min=0,max=24"`
}

// SettingsService reads and writes the singleton site settings record.
type SettingsService struct {
	settings *store.Collection[models.SiteSettings]
	cache    *cache.Memory
	ttl      time.Duration
	log      *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(cfg ContentConfig) (*SettingsService, error) {
	if err := cfg.validate("settings service"); err != nil {
		return nil, err
	}
	settings, err := store.NewCollection[models.SiteSettings](cfg.DB, "settings", nil, cfg.storeOptions()...)
	if err != nil {
		return nil, err
	}
	return &SettingsService{
		settings: settings,
		cache:    cfg.Cache,
		ttl:      cfg.ttl(),
		log:      logger.WithModule("settings"),
	}, nil
}

// Get returns the stored settings, or defaults when none were saved yet.
func (s *SettingsService) Get(ctx context.Context) (*models.SiteSettings, error) {
	settings, err := cache.GetOrCompute(ensureContext(ctx), s.cache, cache.KeySiteSettings, s.ttl, s.load)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// FeaturedProjectsLimit implements FeaturedLimitSource.
func (s *SettingsService) FeaturedProjectsLimit(ctx context.Context) (int, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	return settings.FeaturedProjectsLimit, nil
}

// Update applies the non-nil fields of input and stores the result.
func (s *SettingsService) Update(ctx context.Context, updatedBy string, input SettingsInput) (*models.SiteSettings, error) {
	ctx = ensureContext(ctx)
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&settings.SiteName, input.SiteName)
	assign(&settings.SiteDescription, input.SiteDescription)
	assign(&settings.Logo, input.Logo)
	assign(&settings.Favicon, input.Favicon)
	assign(&settings.PrimaryColor, input.PrimaryColor)
	assign(&settings.SecondaryColor, input.SecondaryColor)
	assign(&settings.ContactEmail, input.ContactEmail)
	assign(&settings.ContactPhone, input.ContactPhone)
	assign(&settings.Address, input.Address)
	assign(&settings.DefaultMetaTitle, input.DefaultMetaTitle)
	assign(&settings.DefaultMetaDescription, input.DefaultMetaDescription)
	if input.SocialMedia != nil {
		settings.SocialMedia = datatypes.NewJSONType(*input.SocialMedia)
	}
	if input.FeaturedProjectsLimit != nil {
		if *input.FeaturedProjectsLimit < 0 {
			return nil, apperrors.NewBadRequest("featured_projects_limit must not be negative")
		}
		settings.FeaturedProjectsLimit = *input.FeaturedProjectsLimit
	}
	settings.ID = models.SiteSettingsID
	settings.UpdatedBy = updatedBy

	if err := s.settings.Upsert(ctx, &settings); err != nil {
		return nil, translateStoreError("Settings", "update", err)
	}

	s.cache.Delete(cache.KeySiteSettings, cache.KeyProjectsFeatured)
	s.log.Info("site settings updated", zap.String("updated_by", updatedBy))
	return &settings, nil
}

func (s *SettingsService) load(ctx context.Context) (models.SiteSettings, error) {
	settings, err := s.settings.Get(ctx, models.SiteSettingsID)
	if errors.Is(err, store.ErrNotFound) {
		return models.DefaultSiteSettings(), nil
	}
	if err != nil {
		return models.SiteSettings{}, translateStoreError("Settings", "get", err)
	}
	return *settings, nil
}
