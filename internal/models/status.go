package models

// PublishStatus controls public visibility of a content record.
type PublishStatus string

const (
	PublishStatusDraft     PublishStatus = "draft"
	PublishStatusPublished PublishStatus = "published"
)

// Valid reports whether the status is a known value.
func (s PublishStatus) Valid() bool {
	return s == PublishStatusDraft || s == PublishStatusPublished
}

// ProjectStatus tracks the delivery stage of a project. It is independent of PublishStatus.
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// Valid reports whether the status is a known value.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

// ActivityStatus marks services and team members as currently offered or employed.
type ActivityStatus string

const (
	ActivityStatusActive   ActivityStatus = "active"
	ActivityStatusInactive ActivityStatus = "inactive"
)

// Valid reports whether the status is a known value.
func (s ActivityStatus) Valid() bool {
	return s == ActivityStatusActive || s == ActivityStatusInactive
}

// Role grants admin capabilities to a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Valid reports whether the role is a known value.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}
