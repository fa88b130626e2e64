package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/sitecms/internal/handlers/testutil"
	"github.com/charlesng35/sitecms/internal/models"
)

func TestSettingsReadAndUpdate(t *testing.T) {
	env := testutil.NewEnv(t)
	admin := env.CreateUser(models.RoleAdmin, "correct-horse")
	token := env.Login(admin.Email, "correct-horse").Token

	w := env.Request(http.MethodGet, "/api/settings", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var settings models.SiteSettings
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &settings)
	require.Equal(t, models.DefaultFeaturedProjectsLimit, settings.FeaturedProjectsLimit)

	w = env.Request(http.MethodPut, "/api/admin/settings", map[string]any{
		"site_name":               "Acme Studio",
		"primary_color":           "#112233",
		"featured_projects_limit": 6,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Updates invalidate the cached copy.
	w = env.Request(http.MethodGet, "/api/settings", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &settings)
	require.Equal(t, "Acme Studio", settings.SiteName)
	require.Equal(t, "#112233", settings.PrimaryColor)
	require.Equal(t, 6, settings.FeaturedProjectsLimit)
}

func TestSettingsValidation(t *testing.T) {
	env := testutil.NewEnv(t)
	admin := env.CreateUser(models.RoleAdmin, "correct-horse")
	token := env.Login(admin.Email, "correct-horse").Token

	w := env.Request(http.MethodPut, "/api/admin/settings", map[string]any{"primary_color": "blue"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, testutil.DecodeResponse(t, w).Error.Message, "hex colour")

	w = env.Request(http.MethodPut, "/api/admin/settings", map[string]any{"featured_projects_limit": 99}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
