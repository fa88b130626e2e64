package api

import (
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/middleware"
	"github.com/charlesng35/sitecms/web"
)

// registerAdminUI serves the embedded admin shell. Asset requests resolve against the embedded
// files; every other admin path renders index.html and lets the script pick the view.
func registerAdminUI(r *gin.Engine) error {
	files, err := web.AdminFS()
	if err != nil {
		return fmt.Errorf("load admin assets: %w", err)
	}
	index, err := fs.ReadFile(files, "index.html")
	if err != nil {
		return fmt.Errorf("load admin index: %w", err)
	}
	assets := http.FS(files)

	serve := func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, middleware.AdminAssetsPrefix) {
			name := strings.TrimPrefix(path, middleware.AdminPrefix)
			if _, err := fs.Stat(files, strings.TrimPrefix(name, "/")); err != nil {
				middleware.NotFoundHandler(c)
				return
			}
			c.Header("Cache-Control", "public, max-age=3600")
			c.FileFromFS(name, assets)
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	}

	r.GET(middleware.AdminPrefix+"/*path", serve)
	return nil
}
