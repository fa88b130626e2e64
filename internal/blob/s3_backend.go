package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minPartSize is the smallest multipart part S3 accepts.
const minPartSize = 5 << 20

// S3Config describes an S3-compatible bucket.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool
	Prefix    string
}

// S3Backend stores each blob as one object under "<prefix><id>".
type S3Backend struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewS3Backend builds a minio client for cfg. It does not contact the server.
func NewS3Backend(cfg S3Config) (*S3Backend, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" || strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("blob: s3 endpoint and bucket are required")
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}
	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, err
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "blobs/"
	}
	return &S3Backend{client: client, bucket: cfg.Bucket, prefix: prefix}, nil
}

// Type implements Backend.
func (b *S3Backend) Type() string { return BackendS3 }

// EnsureBucket creates the bucket when it does not exist yet.
func (b *S3Backend) EnsureBucket(ctx context.Context, region string) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{Region: region})
}

// Write implements Backend. Chunking is delegated to the multipart upload; chunk sizes below
// the S3 minimum leave part sizing to the client.
func (b *S3Backend) Write(ctx context.Context, blob Blob, chunkSize int) (int64, error) {
	opts := minio.PutObjectOptions{ContentType: blob.MimeType}
	if chunkSize >= minPartSize {
		opts.PartSize = uint64(chunkSize)
	}

	info, err := b.client.PutObject(ctx, b.bucket, b.key(blob.ID), bytes.NewReader(blob.Data), int64(len(blob.Data)), opts)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// Read implements Backend.
func (b *S3Backend) Read(ctx context.Context, id string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, b.key(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, mapS3Error(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapS3Error(err)
	}
	return data, nil
}

// Ping implements Backend.
func (b *S3Backend) Ping(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("bucket " + b.bucket + " does not exist")
	}
	return nil
}

func (b *S3Backend) key(id string) string {
	return b.prefix + id
}

func mapS3Error(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNotFound
	}
	return err
}
