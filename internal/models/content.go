package models

// Content is implemented by every publishable record served through the public API.
type Content interface {
	ContentID() string
	ContentSlug() string
	IsPublished() bool
}

// ContentBase holds the fields shared by every content record.
type ContentBase struct {
	BaseModel

	Slug          string        `gorm:"uniqueIndex;not null;size:191" json:"slug"`
	PublishStatus PublishStatus `gorm:"type:varchar(16);not null;default:draft;index" json:"publish_status"`
	CreatedBy     string        `gorm:"size:64" json:"created_by"`
}

func (c ContentBase) ContentID() string { return c.ID }
func (c ContentBase) ContentSlug() string { return c.Slug }
func (c ContentBase) IsPublished() bool { return c.PublishStatus == PublishStatusPublished }
