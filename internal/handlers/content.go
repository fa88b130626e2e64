package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/internal/services"
	"github.com/charlesng35/sitecms/pkg/errors"
	"github.com/charlesng35/sitecms/pkg/response"
)

const (
	scopePublished = "published"
	scopeAll       = "all"
)

// contentService is the CRUD surface shared by every content collection.
type contentService[T models.Content, I any] interface {
	List(ctx context.Context, includeAll bool) ([]T, error)
	GetBySlug(ctx context.Context, slug string) (*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, createdBy string, input I) (*T, error)
	Update(ctx context.Context, id string, input I) (*T, error)
	Delete(ctx context.Context, id string) error
}

type reorderer interface {
	Reorder(ctx context.Context, ids []string) error
}

// ContentHandler serves one content collection over HTTP.
type ContentHandler[T models.Content, I any] struct {
	svc contentService[T, I]
}

type reorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// NewPageHandler serves pages.
func NewPageHandler(svc *services.PageService) *ContentHandler[models.Page, services.PageInput] {
	return &ContentHandler[models.Page, services.PageInput]{svc: svc}
}

// NewOfferingHandler serves the services collection.
func NewOfferingHandler(svc *services.OfferingService) *ContentHandler[models.Service, services.OfferingInput] {
	return &ContentHandler[models.Service, services.OfferingInput]{svc: svc}
}

// NewTeamHandler serves team members.
func NewTeamHandler(svc *services.TeamService) *ContentHandler[models.TeamMember, services.TeamMemberInput] {
	return &ContentHandler[models.TeamMember, services.TeamMemberInput]{svc: svc}
}

// Reorderable reports whether the collection accepts reorder requests.
func (h *ContentHandler[T, I]) Reorderable() bool {
	_, ok := h.svc.(reorderer)
	return ok
}

// GET /api/<collection>
func (h *ContentHandler[T, I]) List(c *gin.Context) {
	h.list(c, false)
}

// GET /api/admin/<collection>
func (h *ContentHandler[T, I]) AdminList(c *gin.Context) {
	h.list(c, true)
}

func (h *ContentHandler[T, I]) list(c *gin.Context, includeAll bool) {
	items, err := h.svc.List(requestContext(c), includeAll)
	if err != nil {
		respondError(c, err)
		return
	}

	scope := scopePublished
	if includeAll {
		scope = scopeAll
	}
	total := len(items)
	limit := parseIntQuery(c, "limit", 0)
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	} else {
		limit = 0
	}
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{Total: total, Limit: limit, Scope: scope})
}

// GET /api/<collection>/slug/:slug
func (h *ContentHandler[T, I]) GetBySlug(c *gin.Context) {
	item, err := h.svc.GetBySlug(requestContext(c), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// GET /api/admin/<collection>/:id
func (h *ContentHandler[T, I]) Get(c *gin.Context) {
	item, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// POST /api/admin/<collection>
func (h *ContentHandler[T, I]) Create(c *gin.Context) {
	var body I
	if !bindAndValidate(c, &body) {
		return
	}

	item, err := h.svc.Create(requestContext(c), currentUserID(c), body)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, item)
}

// PUT /api/admin/<collection>/:id
func (h *ContentHandler[T, I]) Update(c *gin.Context) {
	var body I
	if !bindAndValidate(c, &body) {
		return
	}

	item, err := h.svc.Update(requestContext(c), c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, item)
}

// DELETE /api/admin/<collection>/:id
func (h *ContentHandler[T, I]) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/admin/<collection>/reorder
func (h *ContentHandler[T, I]) Reorder(c *gin.Context) {
	svc, ok := h.svc.(reorderer)
	if !ok {
		respondError(c, errors.ErrNotFound)
		return
	}

	var body reorderRequest
	if !bindAndValidate(c, &body) {
		return
	}
	ids := make([]string, 0, len(body.IDs))
	for _, id := range body.IDs {
		ids = append(ids, strings.TrimSpace(id))
	}

	if err := svc.Reorder(requestContext(c), ids); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reordered": len(ids)})
}
