package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project is a portfolio entry.
type Project struct {
	ContentBase

	Title           string                      `gorm:"not null" json:"title"`
	Description     string                      `gorm:"type:text" json:"description"`
	Content         string                      `gorm:"type:text" json:"content,omitempty"`
	Client          string                      `json:"client,omitempty"`
	StartDate       *time.Time                  `json:"start_date,omitempty"`
	EndDate         *time.Time                  `json:"end_date,omitempty"`
	Status          ProjectStatus               `gorm:"type:varchar(16);not null;default:planning;index" json:"status"`
	Featured        bool                        `gorm:"not null;default:false;index" json:"featured"`
	Order           int                         `gorm:"column:sort_order;not null;default:0" json:"order"`
	Images          datatypes.JSONSlice[string] `json:"images"`
	BackgroundImage string                      `json:"background_image,omitempty"`
}
