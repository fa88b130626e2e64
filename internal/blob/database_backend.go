package blob

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/models"
)

// DatabaseBackend stores chunks as rows of the blob_chunks table.
type DatabaseBackend struct {
	db *gorm.DB
}

// NewDatabaseBackend builds a backend over db.
func NewDatabaseBackend(db *gorm.DB) (*DatabaseBackend, error) {
	if db == nil {
		return nil, errors.New("blob: db is required")
	}
	return &DatabaseBackend{db: db}, nil
}

// Type implements Backend.
func (b *DatabaseBackend) Type() string { return BackendDatabase }

// Write implements Backend. All chunks are written in one transaction.
func (b *DatabaseBackend) Write(ctx context.Context, blob Blob, chunkSize int) (int64, error) {
	if chunkSize <= 0 {
		return 0, errors.New("chunk size must be positive")
	}

	chunks := make([]models.BlobChunk, 0, len(blob.Data)/chunkSize+1)
	for n, offset := 0, 0; offset < len(blob.Data); n, offset = n+1, offset+chunkSize {
		end := offset + chunkSize
		if end > len(blob.Data) {
			end = len(blob.Data)
		}
		chunks = append(chunks, models.BlobChunk{FileID: blob.ID, N: n, Data: blob.Data[offset:end]})
	}

	var written int64
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range chunks {
			if err := tx.Create(&chunks[i]).Error; err != nil {
				return err
			}
			written += int64(len(chunks[i].Data))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Read implements Backend.
func (b *DatabaseBackend) Read(ctx context.Context, id string) ([]byte, error) {
	var chunks []models.BlobChunk
	if err := b.db.WithContext(ctx).
		Where(&models.BlobChunk{FileID: id}).
		Order("n asc").
		Find(&chunks).Error; err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrNotFound
	}

	size := 0
	for _, chunk := range chunks {
		size += len(chunk.Data)
	}
	data := make([]byte, 0, size)
	for _, chunk := range chunks {
		data = append(data, chunk.Data...)
	}
	return data, nil
}

// Ping implements Backend.
func (b *DatabaseBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
