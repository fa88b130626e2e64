package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/auth/edge"
)

const (
	AdminPrefix        = "/admin"
	AdminLoginPath     = "/admin/login"
	AdminDashboardPath = "/admin/dashboard"
	AdminAssetsPrefix  = "/admin/assets/"
)

// AdminGate guards the admin pages with the lightweight edge verifier. Anonymous visitors are
// sent to the login page, and a stale cookie is cleared on the way. Signed-in users asking for
// the login page go to the dashboard. Static assets and everything outside /admin pass through
// untouched.
func AdminGate(verifier *edge.Verifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path != AdminPrefix && !strings.HasPrefix(path, AdminPrefix+"/") || strings.HasPrefix(path, AdminAssetsPrefix) {
			c.Next()
			return
		}

		token, _ := c.Cookie(cookieName)
		valid := false
		if token != "" {
			_, valid = verifier.Verify(token)
		}

		if path == AdminLoginPath {
			if valid {
				c.Redirect(http.StatusFound, AdminDashboardPath)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if !valid {
			if token != "" {
				clearCookie(c, cookieName)
			}
			c.Redirect(http.StatusFound, AdminLoginPath)
			c.Abort()
			return
		}

		c.Next()
	}
}

func clearCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
