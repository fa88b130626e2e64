package blob

import (
	"context"
	"fmt"
	"strings"
)

// Blob is a payload handed to a Backend.
type Blob struct {
	ID       string
	MimeType string
	Data     []byte
}

// Backend persists blob payloads.
type Backend interface {
	// Type names the backend, e.g. "database" or "s3".
	Type() string
	// Write stores the payload split into chunks of chunkSize bytes and returns the number of
	// bytes written.
	Write(ctx context.Context, blob Blob, chunkSize int) (int64, error)
	// Read returns the full payload or ErrNotFound.
	Read(ctx context.Context, id string) ([]byte, error)
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// Backend names accepted by configuration.
const (
	BackendDatabase = "database"
	BackendS3       = "s3"
)

// NormalizeBackend lowercases name and applies the default.
func NormalizeBackend(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendDatabase, "db":
		return BackendDatabase, nil
	case BackendS3, "minio":
		return BackendS3, nil
	default:
		return "", fmt.Errorf("blob: unsupported backend %q", name)
	}
}
