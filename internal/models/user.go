package models

import "time"

// User is an administrator or editor of site content.
type User struct {
	BaseModel

	Email    string `gorm:"uniqueIndex;not null;size:320" json:"email"`
	Name     string `gorm:"not null" json:"name"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(16);not null;default:editor" json:"role"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
