package services

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/models"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

// ProjectInput carries project fields for create and partial update.
type ProjectInput struct {
	Title           *string               `json:"title" validate:"omitempty,max=200"`
	Slug            *string               `json:"slug" validate:"omitempty,max=191"`
	Description     *string               `json:"description"`
	Content         *string               `json:"content"`
	Client          *string               `json:"client" validate:"omitempty,max=200"`
	StartDate       *time.Time            `json:"start_date"`
	EndDate         *time.Time            `json:"end_date"`
	Status          *models.ProjectStatus `json:"status" validate:"omitempty,oneof=planning in-progress completed"`
	PublishStatus   *models.PublishStatus `json:"publish_status" validate:"omitempty,oneof=draft published"`
	Featured        *bool                 `json:"featured"`
	Order           *int                  `json:"order" validate:"omitempty,min=0"`
	Images          *[]string             `json:"images" validate:"omitempty,max=50"`
	BackgroundImage *string               `json:"background_image"`
}

// FeaturedLimitSource reports how many featured projects the site shows.
type FeaturedLimitSource interface {
	FeaturedProjectsLimit(ctx context.Context) (int, error)
}

// publicProjectStatuses are the delivery stages shown to visitors. Planned work stays private
// even when published.
var publicProjectStatuses = []any{models.ProjectStatusInProgress, models.ProjectStatusCompleted}

// ProjectService manages portfolio projects.
type ProjectService struct {
	catalog *catalog[models.Project]
	limits  FeaturedLimitSource
}

// NewProjectService constructs a ProjectService. limits may be nil, in which case
// models.DefaultFeaturedProjectsLimit applies.
func NewProjectService(cfg ContentConfig, limits FeaturedLimitSource) (*ProjectService, error) {
	if err := cfg.validate("project service"); err != nil {
		return nil, err
	}

	public := orderedQuery().
		Where("publish_status", models.PublishStatusPublished).
		WhereIn("status", publicProjectStatuses...)

	c, err := newCatalog[models.Project](cfg, catalogSpec{
		kind:       "Project",
		collection: "projects",
		fields: contentFields(map[string]string{
			"title":            "title",
			"description":      "description",
			"content":          "content",
			"client":           "client",
			"start_date":       "start_date",
			"end_date":         "end_date",
			"status":           "status",
			"featured":         "featured",
			"order":            "sort_order",
			"images":           "images",
			"background_image": "background_image",
		}),
		public:       public,
		admin:        orderedQuery(),
		publishedKey: cache.KeyProjectsPublished,
		allKey:       cache.KeyProjectsAll,
		extraKeys:    []string{cache.KeyProjectsFeatured},
		itemKey:      cache.ProjectKey,
	})
	if err != nil {
		return nil, err
	}
	return &ProjectService{catalog: c, limits: limits}, nil
}

// List returns public projects, or every project when includeAll is set.
func (s *ProjectService) List(ctx context.Context, includeAll bool) ([]models.Project, error) {
	return s.catalog.list(ctx, includeAll)
}

// Featured returns up to the configured number of featured public projects.
func (s *ProjectService) Featured(ctx context.Context) ([]models.Project, error) {
	ctx = ensureContext(ctx)
	limit := models.DefaultFeaturedProjectsLimit
	if s.limits != nil {
		configured, err := s.limits.FeaturedProjectsLimit(ctx)
		if err != nil {
			return nil, err
		}
		limit = configured
	}
	if limit <= 0 {
		return []models.Project{}, nil
	}

	q := s.catalog.public.Where("featured", true)
	q.Limit = limit
	return s.catalog.cachedFind(ctx, cache.KeyProjectsFeatured, q)
}

// GetBySlug returns a public project.
func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return s.catalog.bySlug(ctx, slug)
}

// Get returns any project by id.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	return s.catalog.get(ctx, id)
}

// Create stores a new project.
func (s *ProjectService) Create(ctx context.Context, createdBy string, input ProjectInput) (*models.Project, error) {
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
	status := models.ProjectStatusPlanning
	if input.Status != nil && *input.Status != "" {
		if !input.Status.Valid() {
			return nil, apperrors.NewBadRequest("status must be planning, in-progress or completed")
		}
		status = *input.Status
	}
	if err := checkDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	project := &models.Project{
		ContentBase: models.ContentBase{
			Slug:          slug,
			PublishStatus: publish,
			CreatedBy:     createdBy,
		},
		Title:           title,
		Description:     trimmed(input.Description),
		Content:         trimmed(input.Content),
		Client:          trimmed(input.Client),
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          status,
		BackgroundImage: trimmed(input.BackgroundImage),
		Images:          datatypes.JSONSlice[string]{},
	}
	if input.Featured != nil {
		project.Featured = *input.Featured
	}
	if input.Order != nil {
		project.Order = *input.Order
	}
	if input.Images != nil {
		project.Images = cleanList(*input.Images)
	}

	if err := s.catalog.create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update applies the non-nil fields of input.
func (s *ProjectService) Update(ctx context.Context, id string, input ProjectInput) (*models.Project, error) {
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
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewBadRequest("status must be planning, in-progress or completed")
		}
		changes["status"] = *input.Status
	}
	if err := checkDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if input.StartDate != nil {
		changes["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		changes["end_date"] = *input.EndDate
	}
	if input.Featured != nil {
		changes["featured"] = *input.Featured
	}
	if input.Order != nil {
		changes["order"] = *input.Order
	}
	if input.Images != nil {
		changes["images"] = datatypes.JSONSlice[string](cleanList(*input.Images))
	}
	setString(changes, "description", input.Description)
	setString(changes, "content", input.Content)
	setString(changes, "client", input.Client)
	setString(changes, "background_image", input.BackgroundImage)

	return s.catalog.update(ctx, id, changes)
}

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.catalog.remove(ctx, id)
}

// Reorder sets each project's order to its position in ids.
func (s *ProjectService) Reorder(ctx context.Context, ids []string) error {
	return s.catalog.reorder(ctx, ids)
}

// Stats counts projects.
func (s *ProjectService) Stats(ctx context.Context) (CollectionStats, error) {
	return s.catalog.stats(ctx)
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperrors.NewBadRequest("end_date must not be before start_date")
	}
	return nil
}
