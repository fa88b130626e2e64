package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/services"
	"github.com/charlesng35/sitecms/pkg/response"
)

type SettingsHandler struct {
	svc *services.SettingsService
}

func NewSettingsHandler(svc *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.svc.Get(requestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// PUT /api/admin/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var body services.SettingsInput
	if !bindAndValidate(c, &body) {
		return
	}

	settings, err := h.svc.Update(requestContext(c), currentUserID(c), body)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}
