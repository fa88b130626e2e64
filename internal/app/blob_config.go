package app

import (
	"strings"

	"github.com/charlesng35/sitecms/internal/blob"
)

// StoreConfig converts BlobConfig into blob store settings.
func (c BlobConfig) StoreConfig() blob.Config {
	types := make([]string, 0, len(c.AllowedTypes))
	for _, t := range c.AllowedTypes {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return blob.Config{
		MaxSize:      c.MaxSize,
		ChunkSize:    c.ChunkSize,
		AllowedTypes: types,
		Timeout:      c.Timeout,
	}
}

// S3BackendConfig converts the S3 settings into the blob package representation.
func (c BlobConfig) S3BackendConfig() blob.S3Config {
	return blob.S3Config{
		Endpoint:  strings.TrimSpace(c.S3.Endpoint),
		Region:    strings.TrimSpace(c.S3.Region),
		Bucket:    strings.TrimSpace(c.S3.Bucket),
		AccessKey: strings.TrimSpace(c.S3.AccessKey),
		SecretKey: c.S3.SecretKey,
		UseSSL:    c.S3.UseSSL,
		PathStyle: c.S3.PathStyle,
		Prefix:    c.S3.Prefix,
	}
}
