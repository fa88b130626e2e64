package services

import (
	"context"

	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/models"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

// TeamMemberInput carries team member fields for create and partial update.
type TeamMemberInput struct {
	Name          *string                `json:"name" validate:"omitempty,max=200"`
	Slug          *string                `json:"slug" validate:"omitempty,max=191"`
	Position      *string                `json:"position" validate:"omitempty,max=200"`
	Bio           *string                `json:"bio"`
	Email         *string                `json:"email" validate:"omitempty,email"`
	Phone         *string                `json:"phone" validate:"omitempty,max=50"`
	Image         *string                `json:"image"`
	LinkedIn      *string                `json:"linked_in" validate:"omitempty,max=300"`
	Order         *int                   `json:"order" validate:"omitempty,min=0"`
	Status        *models.ActivityStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	PublishStatus *models.PublishStatus  `json:"publish_status" validate:"omitempty,oneof=draft published"`
}

// TeamService manages the people shown on the team page.
type TeamService struct {
	catalog *catalog[models.TeamMember]
}

// NewTeamService constructs a TeamService.
func NewTeamService(cfg ContentConfig) (*TeamService, error) {
	if err := cfg.validate("team service"); err != nil {
		return nil, err
	}

	public := orderedQuery().
		Where("publish_status", models.PublishStatusPublished).
		Where("status", models.ActivityStatusActive)

	c, err := newCatalog[models.TeamMember](cfg, catalogSpec{
		kind:       "Team member",
		collection: "team",
		fields: contentFields(map[string]string{
			"name":      "name",
			"position":  "position",
			"bio":       "bio",
			"email":     "email",
			"phone":     "phone",
			"image":     "image",
			"linked_in": "linked_in",
			"order":     "sort_order",
			"status":    "status",
		}),
		public:       public,
		admin:        orderedQuery(),
		publishedKey: cache.KeyTeamPublished,
		allKey:       cache.KeyTeamAll,
		itemKey:      cache.TeamMemberKey,
	})
	if err != nil {
		return nil, err
	}
	return &TeamService{catalog: c}, nil
}

// List returns public team members, or every member when includeAll is set.
func (s *TeamService) List(ctx context.Context, includeAll bool) ([]models.TeamMember, error) {
	return s.catalog.list(ctx, includeAll)
}

// GetBySlug returns a public team member.
func (s *TeamService) GetBySlug(ctx context.Context, slug string) (*models.TeamMember, error) {
	return s.catalog.bySlug(ctx, slug)
}

// Get returns any team member by id.
func (s *TeamService) Get(ctx context.Context, id string) (*models.TeamMember, error) {
	return s.catalog.get(ctx, id)
}

// Create stores a new team member. The slug defaults to the slugified name.
func (s *TeamService) Create(ctx context.Context, createdBy string, input TeamMemberInput) (*models.TeamMember, error) {
	name := trimmed(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}
	slug, err := resolveSlug(trimmed(input.Slug), name)
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

	member := &models.TeamMember{
		ContentBase: models.ContentBase{
			Slug:          slug,
			PublishStatus: publish,
			CreatedBy:     createdBy,
		},
		Name:     name,
		Position: trimmed(input.Position),
		Bio:      trimmed(input.Bio),
		Email:    trimmed(input.Email),
		Phone:    trimmed(input.Phone),
		Image:    trimmed(input.Image),
		LinkedIn: trimmed(input.LinkedIn),
		Status:   status,
	}
	if input.Order != nil {
		member.Order = *input.Order
	}

	if err := s.catalog.create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Update applies the non-nil fields of input.
func (s *TeamService) Update(ctx context.Context, id string, input TeamMemberInput) (*models.TeamMember, error) {
	changes := map[string]any{}
	if err := setRequired(changes, "name", input.Name); err != nil {
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
	if input.Order != nil {
		changes["order"] = *input.Order
	}
	setString(changes, "position", input.Position)
	setString(changes, "bio", input.Bio)
	setString(changes, "email", input.Email)
	setString(changes, "phone", input.Phone)
	setString(changes, "image", input.Image)
	setString(changes, "linked_in", input.LinkedIn)

	return s.catalog.update(ctx, id, changes)
}

// Delete removes a team member.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	return s.catalog.remove(ctx, id)
}

// Reorder sets each member's order to its position in ids.
func (s *TeamService) Reorder(ctx context.Context, ids []string) error {
	return s.catalog.reorder(ctx, ids)
}

// Stats counts team members.
func (s *TeamService) Stats(ctx context.Context) (CollectionStats, error) {
	return s.catalog.stats(ctx)
}
