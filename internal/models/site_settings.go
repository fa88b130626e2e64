package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteSettingsID is the primary key of the singleton settings row.
const SiteSettingsID = "site-settings"

// DefaultFeaturedProjectsLimit applies when settings have never been saved.
const DefaultFeaturedProjectsLimit = 3

// SocialLinks holds optional social profile URLs.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// SiteSettings stores site-wide presentation and contact values.
type SiteSettings struct {
	ID string `gorm:"primaryKey;size:32" json:"id"`

	SiteName        string `json:"site_name"`
	SiteDescription string `json:"site_description"`
	Logo            string `json:"logo,omitempty"`
	Favicon         string `json:"favicon,omitempty"`
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`

	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`

	SocialMedia datatypes.JSONType[SocialLinks] `json:"social_media"`

	DefaultMetaTitle       string `json:"default_meta_title"`
	DefaultMetaDescription string `json:"default_meta_description"`

	FeaturedProjectsLimit int `gorm:"not null;default:3" json:"featured_projects_limit"`

	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// DefaultSiteSettings returns the values served before an administrator saves settings.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		ID:                    SiteSettingsID,
		FeaturedProjectsLimit: DefaultFeaturedProjectsLimit,
	}
}
