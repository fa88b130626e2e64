package models

// Page is a free-form content page such as "about" or "privacy".
type Page struct {
	ContentBase

	Title           string `gorm:"not null" json:"title"`
	Content         string `gorm:"type:text" json:"content"`
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
}
