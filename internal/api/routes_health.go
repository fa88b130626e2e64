package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/app"
	"github.com/charlesng35/sitecms/internal/handlers"
)

func registerHealthRoutes(r *gin.Engine, cfg *app.Config, h *handlers.HealthHandler) {
	if !cfg.Monitoring.Health.Enabled {
		r.GET("/health", disabledHealthHandler)
		r.GET("/health/live", disabledHealthHandler)
		r.GET("/health/ready", disabledHealthHandler)
		return
	}

	registerHealthEndpoints(r, h)
	registerHealthEndpoints(r.Group("/api"), h)
}

func registerHealthEndpoints(router gin.IRouter, h *handlers.HealthHandler) {
	router.GET("/health", h.Summary)
	router.GET("/health/live", h.Live)
	router.GET("/health/ready", h.Ready)
}

func disabledHealthHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"status":  "disabled",
	})
}
