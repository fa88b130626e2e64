package cache

// Content cache keys. Read paths populate them and write paths delete them.
const (
	KeyPagesPublished    = "pages:published"
	KeyPagesAll          = "pages:all"
	KeyProjectsPublished = "projects:published"
	KeyProjectsAll       = "projects:all"
	KeyProjectsFeatured  = "projects:featured"
	KeyServicesPublished = "services:published"
	KeyServicesAll       = "services:all"
	KeyTeamPublished     = "team:published"
	KeyTeamAll           = "team:all"
	KeySiteSettings      = "settings:site"
)

// PageKey identifies a single published page by slug.
func PageKey(slug string) string { return "page:" + slug }

// ProjectKey identifies a single project by id or slug.
func ProjectKey(idOrSlug string) string { return "project:" + idOrSlug }

// ServiceKey identifies a single published service by slug.
func ServiceKey(slug string) string { return "service:" + slug }

// TeamMemberKey identifies a single published team member by slug.
func TeamMemberKey(slug string) string { return "team-member:" + slug }
