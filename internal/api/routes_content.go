package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/handlers"
	"github.com/charlesng35/sitecms/internal/middleware"
	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/internal/services"
)

type contentHandlers struct {
	Pages     *handlers.ContentHandler[models.Page, services.PageInput]
	Projects  *handlers.ProjectHandler
	Offerings *handlers.ContentHandler[models.Service, services.OfferingInput]
	Team      *handlers.ContentHandler[models.TeamMember, services.TeamMemberInput]
	Settings  *handlers.SettingsHandler
	Blobs     *handlers.BlobHandler
}

// uploadRoute is the full path of the upload endpoint registered under /api/admin.
const uploadRoute = "/api/admin/upload"

type adminRouteDeps struct {
	Content contentHandlers
	Users   *handlers.UserHandler
	Stats   *handlers.StatsHandler
}

// collectionRoutes is the handler set mounted for one content collection.
type collectionRoutes interface {
	List(c *gin.Context)
	AdminList(c *gin.Context)
	GetBySlug(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Reorder(c *gin.Context)
	Reorderable() bool
}

func registerPublicRoutes(api *gin.RouterGroup, h contentHandlers) {
	api.GET("/pages", h.Pages.List)
	api.GET("/pages/:slug", h.Pages.GetBySlug)

	api.GET("/projects", h.Projects.List)
	api.GET("/projects/featured", h.Projects.Featured)
	api.GET("/projects/slug/:slug", h.Projects.GetBySlug)

	api.GET("/services", h.Offerings.List)
	api.GET("/services/slug/:slug", h.Offerings.GetBySlug)

	api.GET("/team", h.Team.List)
	api.GET("/team/slug/:slug", h.Team.GetBySlug)

	api.GET("/settings", h.Settings.Get)
	api.GET("/files/:id", h.Blobs.File)
}

func registerAdminRoutes(admin *gin.RouterGroup, deps adminRouteDeps) {
	editors := admin.Group("")
	editors.Use(middleware.RequireRole(models.RoleAdmin, models.RoleEditor))
	{
		mountCollection(editors, "/pages", deps.Content.Pages)
		mountCollection(editors, "/projects", deps.Content.Projects)
		mountCollection(editors, "/services", deps.Content.Offerings)
		mountCollection(editors, "/team", deps.Content.Team)

		editors.POST("/upload", deps.Content.Blobs.Upload)
		editors.GET("/stats", deps.Stats.Summary)
	}

	admins := admin.Group("")
	admins.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admins.PUT("/settings", deps.Content.Settings.Update)

		users := admins.Group("/users")
		users.GET("", deps.Users.List)
		users.POST("", deps.Users.Create)
		users.GET("/:id", deps.Users.Get)
		users.PUT("/:id", deps.Users.Update)
		users.DELETE("/:id", deps.Users.Delete)
	}
}

func mountCollection(group *gin.RouterGroup, path string, h collectionRoutes) {
	g := group.Group(path)
	g.GET("", h.AdminList)
	g.POST("", h.Create)
	if h.Reorderable() {
		g.POST("/reorder", h.Reorder)
	}
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
