package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/services"
	"github.com/charlesng35/sitecms/pkg/response"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GET /api/admin/stats
func (h *StatsHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(requestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}
