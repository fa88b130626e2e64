package models

import "time"

// Media describes an uploaded blob. The payload itself lives in the blob backend.
type Media struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	OriginalName string    `gorm:"not null" json:"original_name"`
	MimeType     string    `gorm:"not null;size:64" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	ChunkSize    int       `gorm:"not null" json:"chunk_size"`
	Checksum     string    `gorm:"size:64" json:"checksum"`
	Backend      string    `gorm:"size:16;not null" json:"backend"`
	Alt          string    `json:"alt,omitempty"`
	Title        string    `json:"title,omitempty"`
	Folder       string    `gorm:"index" json:"folder,omitempty"`
	UploadedBy   string    `gorm:"size:64" json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// URL returns the public path serving the blob.
func (m Media) URL() string {
	return "/api/files/" + m.ID
}
