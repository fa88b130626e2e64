package models

// TeamMember is a person shown on the team page.
type TeamMember struct {
	ContentBase

	Name     string         `gorm:"not null" json:"name"`
	Position string         `json:"position"`
	Bio      string         `gorm:"type:text" json:"bio"`
	Email    string         `json:"email,omitempty"`
	Phone    string         `json:"phone,omitempty"`
	Image    string         `json:"image,omitempty"`
	LinkedIn string         `json:"linked_in,omitempty"`
	Order    int            `gorm:"column:sort_order;not null;default:0" json:"order"`
	Status   ActivityStatus `gorm:"type:varchar(16);not null;default:active;index" json:"status"`
}
