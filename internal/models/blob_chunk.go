package models

// BlobChunk is one ordered slice of a stored blob.
type BlobChunk struct {
	FileID string `gorm:"primaryKey;size:36"`
	N      int    `gorm:"primaryKey;autoIncrement:false"`
	Data   []byte `gorm:"not null"`
}
