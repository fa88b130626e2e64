package services

import (
	"context"

	"gorm.io/datatypes"

	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/models"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

// OfferingInput carries the fields of an advertised service for create and partial update.
type OfferingInput struct {
	Title            *string                `json:"title" validate:"omitempty,max=200"`
	Slug             *string                `json:"slug" validate:"omitempty,max=191"`
	ShortDescription *string                `json:"short_description" validate:"omitempty,max=500"`
	FullDescription  *string                `json:"full_description"`
	Icon             *string                `json:"icon" validate:"omitempty,max=100"`
	Image            *string                `json:"image"`
	Features         *[]string              `json:"features" validate:"omitempty,max=50"`
	Order            *int                   `json:"order" validate:"omitempty,min=0"`
	Status           *models.ActivityStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	PublishStatus    *models.PublishStatus  `json:"publish_status" validate:"omitempty,oneof=draft published"`
}

// OfferingService manages the services a site advertises. The name avoids clashing with the
// package's own service types.
type OfferingService struct {
	catalog *catalog[models.Service]
}

// NewOfferingService constructs an OfferingService.
func NewOfferingService(cfg ContentConfig) (*OfferingService, error) {
	if err := cfg.validate("offering service"); err != nil {
		return nil, err
	}

	public := orderedQuery().
		Where("publish_status", models.PublishStatusPublished).
		Where("status", models.ActivityStatusActive)

	c, err := newCatalog[models.Service](cfg, catalogSpec{
		kind:       "Service",
		collection: "services",
		fields: contentFields(map[string]string{
			"title":             "title",
			"short_description": "short_description",
			"full_description":  "full_description",
			"icon":              "icon",
			"image":             "image",
			"features":          "features",
			"order":             "sort_order",
			"status":            "status",
		}),
		public:       public,
		admin:        orderedQuery(),
		publishedKey: cache.KeyServicesPublished,
		allKey:       cache.KeyServicesAll,
		itemKey:      cache.ServiceKey,
	})
	if err != nil {
		return nil, err
	}
	return &OfferingService{catalog: c}, nil
}

// List returns public services, or every service when includeAll is set.
func (s *OfferingService) List(ctx context.Context, includeAll bool) ([]models.Service, error) {
	return s.catalog.list(ctx, includeAll)
}

// GetBySlug returns a public service.
func (s *OfferingService) GetBySlug(ctx context.Context, slug string) (*models.Service, error) {
	return s.catalog.bySlug(ctx, slug)
}

// Get returns any service by id.
func (s *OfferingService) Get(ctx context.Context, id string) (*models.Service, error) {
	return s.catalog.get(ctx, id)
}

// Create stores a new service.
func (s *OfferingService) Create(ctx context.Context, createdBy string, input OfferingInput) (*models.Service, error) {
	title := trimmed(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("title is required")
	}
	slug, err := resolveSlug(trimmed(input.Slug), title)
	if err != nil {
		return nil, err
	}
	publish, err := publishStatusOrDefault(input.PublishStatus)
	if err != nil {
		return nil, err
	}
	status, err := activityStatusOrDefault(input.Status)
	if err != nil {
		return nil, err
	}

	offering := &models.Service{
		ContentBase: models.ContentBase{
			Slug:          slug,
			PublishStatus: publish,
			CreatedBy:     createdBy,
		},
		Title:            title,
		ShortDescription: trimmed(input.ShortDescription),
		FullDescription:  trimmed(input.FullDescription),
		Icon:             trimmed(input.Icon),
		Image:            trimmed(input.Image),
		Features:         datatypes.JSONSlice[string]{},
		Status:           status,
	}
	if input.Features != nil {
		offering.Features = cleanList(*input.Features)
	}
	if input.Order != nil {
		offering.Order = *input.Order
	}

	if err := s.catalog.create(ctx, offering); err != nil {
		return nil, err
	}
	return offering, nil
}

// Update applies the non-nil fields of input.
func (s *OfferingService) Update(ctx context.Context, id string, input OfferingInput) (*models.Service, error) {
	changes := map[string]any{}
	if err := setRequired(changes, "title", input.Title); err != nil {
		return nil, err
	}
	if err := setSlug(changes, input.Slug); err != nil {
		return nil, err
	}
	if err := setPublishStatus(changes, input.PublishStatus); err != nil {
		return nil, err
	}
	if err := setActivityStatus(changes, input.Status); err != nil {
		return nil, err
	}
	if input.Features != nil {
		changes["features"] = datatypes.JSONSlice[string](cleanList(*input.Features))
	}
	if input.Order != nil {
		changes["order"] = *input.Order
	}
	setString(changes, "short_description", input.ShortDescription)
	setString(changes, "full_description", input.FullDescription)
	setString(changes, "icon", input.Icon)
	setString(changes, "image", input.Image)

	return s.catalog.update(ctx, id, changes)
}

// Delete removes a service.
func (s *OfferingService) Delete(ctx context.Context, id string) error {
	return s.catalog.remove(ctx, id)
}

// Reorder sets each service's order to its position in ids.
func (s *OfferingService) Reorder(ctx context.Context, ids []string) error {
	return s.catalog.reorder(ctx, ids)
}

// Stats counts services.
func (s *OfferingService) Stats(ctx context.Context) (CollectionStats, error) {
	return s.catalog.stats(ctx)
}
