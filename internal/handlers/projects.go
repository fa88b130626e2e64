package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/internal/services"
	"github.com/charlesng35/sitecms/pkg/response"
)

// ProjectHandler adds the featured listing to the generic content endpoints.
type ProjectHandler struct {
	*ContentHandler[models.Project, services.ProjectInput]
	projects *services.ProjectService
}

func NewProjectHandler(svc *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		ContentHandler: &ContentHandler[models.Project, services.ProjectInput]{svc: svc},
		projects:       svc,
	}
}

// GET /api/projects/featured
func (h *ProjectHandler) Featured(c *gin.Context) {
	projects, err := h.projects.Featured(requestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, projects, &response.Meta{Total: len(projects), Scope: "featured"})
}
