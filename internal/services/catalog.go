package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/cache"
	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/internal/store"
	"github.com/charlesng35/sitecms/pkg/logger"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

// DefaultListTTL applies when a collection has no configured cache TTL.
const DefaultListTTL = 5 * time.Minute

// ContentConfig carries the dependencies shared by the content services.
type ContentConfig struct {
	DB    *gorm.DB
	Cache *cache.Memory
	// TTL bounds how long list and slug lookups are served from Cache.
	TTL time.Duration
	// Timeout bounds each database call. Zero keeps store.DefaultTimeout.
	Timeout time.Duration
}

func (c ContentConfig) validate(name string) error {
	if c.DB == nil {
		return errors.New(name + ": db is required")
	}
	if c.Cache == nil {
		return errors.New(name + ": cache is required")
	}
	return nil
}

func (c ContentConfig) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultListTTL
	}
	return c.TTL
}

func (c ContentConfig) storeOptions() []store.Option {
	if c.Timeout <= 0 {
		return nil
	}
	return []store.Option{store.WithTimeout(c.Timeout)}
}

// CollectionStats counts the records of a collection.
type CollectionStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

// catalog binds a content collection to the response cache. Reads are cached per key and every
// mutation drops the collection's list keys together with the record's own keys.
type catalog[T models.Content] struct {
	kind  string
	items *store.Collection[T]
	cache *cache.Memory
	ttl   time.Duration

	public store.Query
	admin  store.Query

	publishedKey string
	allKey       string
	extraKeys    []string
	itemKey      func(string) string

	log *zap.Logger
}

type catalogSpec struct {
	kind         string
	collection   string
	fields       map[string]string
	public       store.Query
	admin        store.Query
	publishedKey string
	allKey       string
	extraKeys    []string
	itemKey      func(string) string
}

func newCatalog[T models.Content](cfg ContentConfig, spec catalogSpec) (*catalog[T], error) {
	items, err := store.NewCollection[T](cfg.DB, spec.collection, spec.fields, cfg.storeOptions()...)
	if err != nil {
		return nil, err
	}
	return &catalog[T]{
		kind:         spec.kind,
		items:        items,
		cache:        cfg.Cache,
		ttl:          cfg.ttl(),
		public:       spec.public,
		admin:        spec.admin,
		publishedKey: spec.publishedKey,
		allKey:       spec.allKey,
		extraKeys:    spec.extraKeys,
		itemKey:      spec.itemKey,
		log:          logger.WithModule("content").With(zap.String("collection", spec.collection)),
	}, nil
}

// list returns published records, or every record when includeAll is set.
func (c *catalog[T]) list(ctx context.Context, includeAll bool) ([]T, error) {
	key, q := c.publishedKey, c.public
	if includeAll {
		key, q = c.allKey, c.admin
	}
	return c.cachedFind(ensureContext(ctx), key, q)
}

func (c *catalog[T]) cachedFind(ctx context.Context, key string, q store.Query) ([]T, error) {
	return cache.GetOrCompute(ctx, c.cache, key, c.ttl, func(ctx context.Context) ([]T, error) {
		records, err := c.items.Find(ctx, q)
		if err != nil {
			return nil, translateStoreError(c.kind, "list", err)
		}
		return records, nil
	})
}

// bySlug returns a published record by slug.
func (c *catalog[T]) bySlug(ctx context.Context, slug string) (*T, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, notFound(c.kind)
	}

	record, err := cache.GetOrCompute(ensureContext(ctx), c.cache, c.itemKey(slug), c.ttl, func(ctx context.Context) (T, error) {
		found, err := c.items.FindOne(ctx, c.public.Where("slug", slug))
		if err != nil {
			var zero T
			return zero, translateStoreError(c.kind, "get", err)
		}
		return *found, nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// get loads any record by id, bypassing the cache.
func (c *catalog[T]) get(ctx context.Context, id string) (*T, error) {
	record, err := c.items.Get(ensureContext(ctx), strings.TrimSpace(id))
	if err != nil {
		return nil, translateStoreError(c.kind, "get", err)
	}
	return record, nil
}

func (c *catalog[T]) create(ctx context.Context, record *T) error {
	if err := c.items.Insert(ensureContext(ctx), record); err != nil {
		return translateStoreError(c.kind, "create", err)
	}
	c.invalidate((*record).ContentSlug())
	c.log.Info("content created", zap.String("id", (*record).ContentID()), zap.String("slug", (*record).ContentSlug()))
	return nil
}

func (c *catalog[T]) update(ctx context.Context, id string, changes map[string]any) (*T, error) {
	ctx = ensureContext(ctx)
	before, err := c.get(ctx, id)
	if err != nil {
		return nil, err
	}

	after, err := c.items.Update(ctx, (*before).ContentID(), changes)
	if err != nil {
		return nil, translateStoreError(c.kind, "update", err)
	}

	c.invalidate((*before).ContentSlug(), (*after).ContentSlug(), (*after).ContentID())
	c.log.Info("content updated", zap.String("id", (*after).ContentID()), zap.Int("fields", len(changes)))
	return after, nil
}

func (c *catalog[T]) remove(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	before, err := c.get(ctx, id)
	if err != nil {
		return err
	}

	if err := c.items.Delete(ctx, (*before).ContentID()); err != nil {
		return translateStoreError(c.kind, "delete", err)
	}

	c.invalidate((*before).ContentSlug(), (*before).ContentID())
	c.log.Info("content deleted", zap.String("id", (*before).ContentID()))
	return nil
}

// reorder assigns order = position for each id in a single transaction.
func (c *catalog[T]) reorder(ctx context.Context, ids []string) error {
	ids = normaliseIDs(ids)
	if len(ids) == 0 {
		return apperrors.NewBadRequest("ids are required")
	}

	ctx = ensureContext(ctx)
	slugs := make([]string, 0, len(ids))
	err := c.items.Transaction(ctx, func(tx *store.Collection[T]) error {
		for position, id := range ids {
			record, err := tx.Update(ctx, id, map[string]any{"order": position})
			if err != nil {
				return err
			}
			slugs = append(slugs, (*record).ContentSlug(), id)
		}
		return nil
	})
	if err != nil {
		return translateStoreError(c.kind, "reorder", err)
	}

	c.invalidate(slugs...)
	c.log.Info("content reordered", zap.Int("count", len(ids)))
	return nil
}

func (c *catalog[T]) stats(ctx context.Context) (CollectionStats, error) {
	ctx = ensureContext(ctx)
	total, err := c.items.Count(ctx, c.admin)
	if err != nil {
		return CollectionStats{}, translateStoreError(c.kind, "count", err)
	}
	published, err := c.items.Count(ctx, c.public)
	if err != nil {
		return CollectionStats{}, translateStoreError(c.kind, "count", err)
	}
	return CollectionStats{Total: total, Published: published}, nil
}

// invalidate drops every list key of the collection plus the item keys of refs.
func (c *catalog[T]) invalidate(refs ...string) {
	keys := make([]string, 0, 2+len(c.extraKeys)+len(refs))
	keys = append(keys, c.publishedKey, c.allKey)
	keys = append(keys, c.extraKeys...)
	for _, ref := range refs {
		if ref != "" {
			keys = append(keys, c.itemKey(ref))
		}
	}
	c.cache.Delete(keys...)
}

func publishStatusOrDefault(p *models.PublishStatus) (models.PublishStatus, error) {
	if p == nil || *p == "" {
		return models.PublishStatusDraft, nil
	}
	if !p.Valid() {
		return "", apperrors.NewBadRequest("publish_status must be draft or published")
	}
	return *p, nil
}

func setPublishStatus(changes map[string]any, p *models.PublishStatus) error {
	if p == nil {
		return nil
	}
	if !p.Valid() {
		return apperrors.NewBadRequest("publish_status must be draft or published")
	}
	changes["publish_status"] = *p
	return nil
}

func setActivityStatus(changes map[string]any, p *models.ActivityStatus) error {
	if p == nil {
		return nil
	}
	if !p.Valid() {
		return apperrors.NewBadRequest("status must be active or inactive")
	}
	changes["status"] = *p
	return nil
}

func activityStatusOrDefault(p *models.ActivityStatus) (models.ActivityStatus, error) {
	if p == nil || *p == "" {
		return models.ActivityStatusActive, nil
	}
	if !p.Valid() {
		return "", apperrors.NewBadRequest("status must be active or inactive")
	}
	return *p, nil
}

// setSlug normalises and records an explicit slug change.
func setSlug(changes map[string]any, p *string) error {
	if p == nil {
		return nil
	}
	slug, err := resolveSlug(*p, "")
	if err != nil {
		return err
	}
	changes["slug"] = slug
	return nil
}

// setRequired records a trimmed change that must not be blank.
func setRequired(changes map[string]any, field string, p *string) error {
	if p == nil {
		return nil
	}
	value := strings.TrimSpace(*p)
	if value == "" {
		return apperrors.NewBadRequest(field + " is required")
	}
	changes[field] = value
	return nil
}

// contentFields lists the logical fields shared by every content collection.
func contentFields(extra map[string]string) map[string]string {
	fields := map[string]string{
		"slug":           "slug",
		"publish_status": "publish_status",
		"created_by":     "created_by",
		"created_at":     "created_at",
		"updated_at":     "updated_at",
	}
	for field, column := range extra {
		fields[field] = column
	}
	return fields
}

// orderedQuery sorts by display order, newest first within the same position.
func orderedQuery() store.Query {
	return store.Query{}.OrderBy("order", false).OrderBy("created_at", true)
}
