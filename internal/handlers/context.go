package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/middleware"
	"github.com/charlesng35/sitecms/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentUserID returns the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(middleware.CtxUserIDKey))
}

// respondError records err on the gin context for the access log and writes the envelope.
func respondError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	response.Error(c, err)
}
