package models

import "gorm.io/datatypes"

// Service is an offering advertised on the site.
type Service struct {
	ContentBase

	Title            string                      `gorm:"not null" json:"title"`
	ShortDescription string                      `json:"short_description"`
	FullDescription  string                      `gorm:"type:text" json:"full_description"`
	Icon             string                      `json:"icon,omitempty"`
	Image            string                      `json:"image,omitempty"`
	Features         datatypes.JSONSlice[string] `json:"features"`
	Order            int                         `gorm:"column:sort_order;not null;default:0" json:"order"`
	Status           ActivityStatus              `gorm:"type:varchar(16);not null;default:active;index" json:"status"`
}
