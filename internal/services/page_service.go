package services

import (
	"context"

	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/internal/store"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

// PageInput carries page fields for create and partial update. Nil fields are left unchanged.
type PageInput struct {
	Title           *string               `json:"title" validate:"omitempty,max=200"`
	Slug            *string               `json:"slug" validate:"omitempty,max=191"`
	Content         *string               `json:"content"`
	MetaTitle       *string               `json:"meta_title" validate:"omitempty,max=200"`
	MetaDescription *string               `json:"meta_description" validate:"omitempty,max=500"`
	PublishStatus   *models.PublishStatus `json:"publish_status" validate:"omitempty,oneof=draft published"`
}

// PageService manages free-form pages.
type PageService struct {
	catalog *catalog[models.Page]
}

// NewPageService constructs a PageService.
func NewPageService(cfg ContentConfig) (*PageService, error) {
	if err := cfg.validate("page service"); err != nil {
		return nil, err
	}

	published := store.Query{}.Where("publish_status", models.PublishStatusPublished).OrderBy("created_at", true)
	c, err := newCatalog[models.Page](cfg, catalogSpec{
		kind:       "Page",
		collection: "pages",
		fields: contentFields(map[string]string{
			"title":            "title",
			"content":          "content",
			"meta_title":       "meta_title",
			"meta_description": "meta_description",
		}),
		public:       published,
		admin:        store.Query{}.OrderBy("created_at", true),
		publishedKey: cache.KeyPagesPublished,
		allKey:       cache.KeyPagesAll,
		itemKey:      cache.PageKey,
	})
	if err != nil {
		return nil, err
	}
	return &PageService{catalog: c}, nil
}

// List returns published pages, or every page when includeAll is set.
func (s *PageService) List(ctx context.Context, includeAll bool) ([]models.Page, error) {
	return s.catalog.list(ctx, includeAll)
}

// GetBySlug returns a published page.
func (s *PageService) GetBySlug(ctx context.Context, slug string) (*models.Page, error) {
	return s.catalog.bySlug(ctx, slug)
}

// Get returns any page by id.
func (s *PageService) Get(ctx context.Context, id string) (*models.Page, error) {
	return s.catalog.get(ctx, id)
}

// Create stores a new page. The slug defaults to the slugified title.
func (s *PageService) Create(ctx context.Context, createdBy string, input PageInput) (*models.Page, error) {
	title := trimmed(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("title is required")
	}
	slug, err := resolveSlug(trimmed(input.Slug), title)
	if err != nil {
		return nil, err
	}
	status, err := publishStatusOrDefault(input.PublishStatus)
	if err != nil {
		return nil, err
	}

	page := &models.Page{
		ContentBase: models.ContentBase{
			Slug:          slug,
			PublishStatus: status,
			CreatedBy:     createdBy,
		},
		Title:           title,
		Content:         trimmed(input.Content),
		MetaTitle:       trimmed(input.MetaTitle),
		MetaDescription: trimmed(input.MetaDescription),
	}
	if err := s.catalog.create(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// Update applies the non-nil fields of input.
func (s *PageService) Update(ctx context.Context, id string, input PageInput) (*models.Page, error) {
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
	setString(changes, "content", input.Content)
	setString(changes, "meta_title", input.MetaTitle)
	setString(changes, "meta_description", input.MetaDescription)

	return s.catalog.update(ctx, id, changes)
}

// Delete removes a page.
func (s *PageService) Delete(ctx context.Context, id string) error {
	return s.catalog.remove(ctx, id)
}

// Stats counts pages.
func (s *PageService) Stats(ctx context.Context) (CollectionStats, error) {
	return s.catalog.stats(ctx)
}
