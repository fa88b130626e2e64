// Package store exposes named document collections over gorm models. Callers filter, sort and
// update by logical field names that are resolved against a per-collection allow-list.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultTimeout bounds every database call issued through a Collection.
const DefaultTimeout = 10 * time.Second

// Option configures a Collection.
type Option func(*options)

type options struct {
	timeout time.Duration
}

// WithTimeout overrides DefaultTimeout. Non-positive values disable the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Collection is a named set of records of type T.
type Collection[T any] struct {
	db      *gorm.DB
	name    string
	fields  map[string]string
	timeout time.Duration
}

// NewCollection binds a collection name to the gorm model T. fields maps logical field names
// to column names; only those fields may be used in queries and updates. "id" is always allowed.
func NewCollection[T any](db *gorm.DB, name string, fields map[string]string, opts ...Option) (*Collection[T], error) {
	if db == nil {
		return nil, errors.New("store: db is required")
	}
	if name == "" {
		return nil, errors.New("store: collection name is required")
	}

	cfg := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	allowed := make(map[string]string, len(fields)+1)
	for field, column := range fields {
		allowed[field] = column
	}
	allowed["id"] = "id"

	return &Collection[T]{
		db:      db,
		name:    name,
		fields:  allowed,
		timeout: cfg.timeout,
	}, nil
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Find returns every record matching q.
func (c *Collection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	tx, err := c.apply(c.db.WithContext(ctx).Model(new(T)), q, true)
	if err != nil {
		return nil, err
	}

	var records []T
	if err := tx.Find(&records).Error; err != nil {
		return nil, c.wrap("find", err)
	}
	return records, nil
}

// FindOne returns the first record matching q or ErrNotFound.
func (c *Collection[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	q.Limit = 1
	records, err := c.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

// Get loads a record by primary key.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	return c.FindOne(ctx, Query{Eq: map[string]any{"id": id}})
}

// Count returns the number of records matching q. Sort and limit are ignored.
func (c *Collection[T]) Count(ctx context.Context, q Query) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	tx, err := c.apply(c.db.WithContext(ctx).Model(new(T)), q, false)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, c.wrap("count", err)
	}
	return total, nil
}

// Insert persists a new record.
func (c *Collection[T]) Insert(ctx context.Context, record *T) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.wrap("insert", c.db.WithContext(ctx).Create(record).Error)
}

// Upsert inserts record or, when its primary key already exists, overwrites every column.
func (c *Collection[T]) Upsert(ctx context.Context, record *T) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.wrap("upsert", c.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error)
}

// Update applies a partial update keyed by logical field names and returns the stored record.
// Concurrent updates of the same record are last-write-wins.
func (c *Collection[T]) Update(ctx context.Context, id string, changes map[string]any) (*T, error) {
	columns := make(map[string]any, len(changes))
	for field, value := range changes {
		if field == "id" {
			continue
		}
		column, err := c.column(field)
		if err != nil {
			return nil, err
		}
		columns[column] = value
	}

	record, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return record, nil
	}

	tctx, cancel := c.withTimeout(ctx)
	err = c.db.WithContext(tctx).Model(record).Updates(columns).Error
	cancel()
	if err != nil {
		return nil, c.wrap("update", err)
	}

	return c.Get(ctx, id)
}

// Delete removes a record by primary key. Missing records yield ErrNotFound.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return c.wrap("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Transaction runs fn with a collection bound to a single database transaction.
func (c *Collection[T]) Transaction(ctx context.Context, fn func(tx *Collection[T]) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := *c
		scoped.db = tx
		return fn(&scoped)
	})
}

func (c *Collection[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
