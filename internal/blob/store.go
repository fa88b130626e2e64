// Package blob stores uploaded files in chunks and serves them back by generated id.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/pkg/logger"
	"github.com/charlesng35/sitecms/pkg/metrics"
)

// Defaults applied when Config leaves a field empty.
const (
	DefaultMaxSize   int64 = 5 << 20
	DefaultChunkSize       = 255 << 10
	DefaultTimeout         = 30 * time.Second
)

// DefaultAllowedTypes lists the image formats accepted for upload.
var DefaultAllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}

// Config tunes validation and chunking.
type Config struct {
	MaxSize      int64
	ChunkSize    int
	AllowedTypes []string
	Timeout      time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if len(c.AllowedTypes) == 0 {
		c.AllowedTypes = DefaultAllowedTypes
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// PutInput describes an upload.
type PutInput struct {
	Data       []byte
	Filename   string
	MimeType   string
	UploadedBy string
	Alt        string
	Title      string
	Folder     string
}

// Object is a stored blob with its metadata.
type Object struct {
	Media models.Media
	Data  []byte
}

// Store validates uploads, writes them through a Backend and records their metadata.
type Store struct {
	db      *gorm.DB
	backend Backend
	cfg     Config
	allowed map[string]struct{}
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore builds a Store. Metadata rows live in db; payloads go to backend.
func NewStore(db *gorm.DB, backend Backend, cfg Config, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("blob: db is required")
	}
	if backend == nil {
		return nil, errors.New("blob: backend is required")
	}

	cfg = cfg.withDefaults()
	allowed := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[normalizeType(t)] = struct{}{}
	}

	s := &Store{
		db:      db,
		backend: backend,
		cfg:     cfg,
		allowed: allowed,
		now:     time.Now,
		log:     logger.WithModule("blob"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MaxSize reports the upload ceiling in bytes.
func (s *Store) MaxSize() int64 {
	return s.cfg.MaxSize
}

// Backend returns the configured backend type.
func (s *Store) Backend() string {
	return s.backend.Type()
}

// Put validates and stores an upload, returning its metadata. Validation happens before any
// byte is written.
func (s *Store) Put(ctx context.Context, in PutInput) (*models.Media, error) {
	mimeType, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(in.Data)
	media := models.Media{
		ID:           uuid.NewString(),
		OriginalName: cleanFilename(in.Filename),
		MimeType:     mimeType,
		Size:         int64(len(in.Data)),
		ChunkSize:    s.cfg.ChunkSize,
		Checksum:     hex.EncodeToString(sum[:]),
		Backend:      s.backend.Type(),
		Alt:          in.Alt,
		Title:        in.Title,
		Folder:       in.Folder,
		UploadedBy:   in.UploadedBy,
		CreatedAt:    s.now(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	written, err := s.backend.Write(ctx, Blob{ID: media.ID, MimeType: mimeType, Data: in.Data}, s.cfg.ChunkSize)
	if err != nil {
		return nil, storageErr("write", err)
	}
	if written != media.Size {
		return nil, storageErr("write", fmt.Errorf("wrote %d of %d bytes", written, media.Size))
	}

	if err := s.db.WithContext(ctx).Create(&media).Error; err != nil {
		return nil, storageErr("record metadata", err)
	}

	metrics.BlobBytes.WithLabelValues("put").Add(float64(media.Size))
	s.log.Debug("blob stored",
		zap.String("id", media.ID),
		zap.String("mime_type", media.MimeType),
		zap.Int64("size", media.Size),
		zap.String("backend", media.Backend),
	)
	return &media, nil
}

// Stat returns the metadata for id.
func (s *Store) Stat(ctx context.Context, id string) (*models.Media, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var media models.Media
	err := s.db.WithContext(ctx).Where(&models.Media{ID: id}).Take(&media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("stat", err)
	}
	return &media, nil
}

// Get returns the payload and metadata for id.
func (s *Store) Get(ctx context.Context, id string) (*Object, error) {
	media, err := s.Stat(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	data, err := s.backend.Read(ctx, id)
	if errors.Is(err, ErrNotFound) {
		// metadata without payload means storage lost data, not that the id is unknown
		return nil, storageErr("read", fmt.Errorf("payload missing for %s", id))
	}
	if err != nil {
		return nil, storageErr("read", err)
	}
	if int64(len(data)) != media.Size {
		return nil, storageErr("read", fmt.Errorf("read %d of %d bytes", len(data), media.Size))
	}

	metrics.BlobBytes.WithLabelValues("get").Add(float64(len(data)))
	return &Object{Media: *media, Data: data}, nil
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return s.backend.Ping(ctx)
}

func (s *Store) validate(in PutInput) (string, error) {
	declared := normalizeType(in.MimeType)
	if _, ok := s.allowed[declared]; !ok {
		return "", invalid(ReasonUnsupportedType, "file type %q is not allowed", in.MimeType)
	}

	size := int64(len(in.Data))
	if size == 0 {
		return "", invalid(ReasonEmpty, "file is empty")
	}
	if size > s.cfg.MaxSize {
		return "", invalid(ReasonTooLarge, "file exceeds the %d byte limit", s.cfg.MaxSize)
	}

	detected := mimetype.Detect(in.Data)
	if !detected.Is(declared) {
		return "", invalid(ReasonContentMismatch, "file content is %s, not %s", detected.String(), declared)
	}

	return declared, nil
}

// normalizeType lowercases a media type, drops parameters and maps the image/jpg alias.
func normalizeType(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if parsed, _, err := mime.ParseMediaType(value); err == nil {
		value = parsed
	}
	if value == "image/jpg" || value == "image/pjpeg" {
		return "image/jpeg"
	}
	return value
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
