package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/sitecms/internal/database/testutil"
	"github.com/charlesng35/sitecms/internal/models"
)

var pageFields = map[string]string{
	"slug":           "slug",
	"title":          "title",
	"publish_status": "publish_status",
	"created_at":     "created_at",
}

func newPages(t *testing.T) *Collection[models.Page] {
	t.Helper()
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	pages, err := NewCollection[models.Page](db, "pages", pageFields, WithTimeout(time.Second))
	require.NoError(t, err)
	return pages
}

func insertPage(t *testing.T, pages *Collection[models.Page], slug string, status models.PublishStatus) *models.Page {
	t.Helper()
	page := &models.Page{
		ContentBase: models.ContentBase{Slug: slug, PublishStatus: status},
		Title:       slug,
	}
	require.NoError(t, pages.Insert(context.Background(), page))
	return page
}

func TestNewCollectionValidatesArguments(t *testing.T) {
	_, err := NewCollection[models.Page](nil, "pages", nil)
	require.Error(t, err)

	db := testutil.MustOpenTestDB(t)
	_, err = NewCollection[models.Page](db, "", nil)
	require.Error(t, err)
}

func TestCollectionInsertAndGet(t *testing.T) {
	pages := newPages(t)
	ctx := context.Background()

	page := insertPage(t, pages, "about", models.PublishStatusPublished)
	require.NotEmpty(t, page.ID)

	loaded, err := pages.Get(ctx, page.ID)
	require.NoError(t, err)
	require.Equal(t, "about", loaded.Slug)

	_, err = pages.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionFindFiltersSortsAndLimits(t *testing.T) {
	pages := newPages(t)
	ctx := context.Background()

	insertPage(t, pages, "alpha", models.PublishStatusPublished)
	insertPage(t, pages, "bravo", models.PublishStatusDraft)
	insertPage(t, pages, "charlie", models.PublishStatusPublished)

	published, err := pages.Find(ctx, Query{}.
		Where("publish_status", models.PublishStatusPublished).
		OrderBy("slug", true))
	require.NoError(t, err)
	require.Len(t, published, 2)
	require.Equal(t, "charlie", published[0].Slug)
	require.Equal(t, "alpha", published[1].Slug)

	subset, err := pages.Find(ctx, Query{Limit: 2}.
		WhereIn("slug", "alpha", "bravo", "charlie").
		OrderBy("slug", false))
	require.NoError(t, err)
	require.Len(t, subset, 2)
	require.Equal(t, "alpha", subset[0].Slug)

	count, err := pages.Count(ctx, Query{}.Where("publish_status", models.PublishStatusDraft))
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestCollectionRejectsUnknownFields(t *testing.T) {
	pages := newPages(t)
	ctx := context.Background()

	_, err := pages.Find(ctx, Query{}.Where("title; DROP TABLE pages", "x"))
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = pages.Find(ctx, Query{}.OrderBy("content", false))
	require.ErrorIs(t, err, ErrUnknownField)

	page := insertPage(t, pages, "about", models.PublishStatusDraft)
	_, err = pages.Update(ctx, page.ID, map[string]any{"content": "x"})
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestCollectionFindOne(t *testing.T) {
	pages := newPages(t)
	ctx := context.Background()

	insertPage(t, pages, "about", models.PublishStatusPublished)

	page, err := pages.FindOne(ctx, Query{}.Where("slug", "about"))
	require.NoError(t, err)
	require.Equal(t, "about", page.Slug)

	_, err = pages.FindOne(ctx, Query{}.Where("slug", "contact"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionUpdate(t *testing.T) {
	pages := newPages(t)
	ctx := context.Background()

	page := insertPage(t, pages, "about", models.PublishStatusDraft)

	updated, err := pages.Update(ctx, page.ID, map[string]any{
		"title":          "About us",
		"publish_status": models.PublishStatusPublished,
		"id":             "ignored",
	})
	require.NoError(t, err)
	require.Equal(t, page.ID, updated.ID)
	require.Equal(t, "About us", updated.Title)
	require.True(t, updated.IsPublished())

	_, err = pages.Update(ctx, "missing", map[string]any{"title": "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionDuplicateSlug(t *testing.T) {
	pages := newPages(t)
	ctx := context.Background()

	insertPage(t, pages, "about", models.PublishStatusDraft)
	err := pages.Insert(ctx, &models.Page{
		ContentBase: models.ContentBase{Slug: "about"},
		Title:       "Another",
	})
	require.ErrorIs(t, err, ErrDuplicate)

	var storageErr *StorageError
	require.False(t, errors.As(err, &storageErr))
}

func TestCollectionDelete(t *testing.T) {
	pages := newPages(t)
	ctx := context.Background()

	page := insertPage(t, pages, "about", models.PublishStatusDraft)
	require.NoError(t, pages.Delete(ctx, page.ID))
	require.ErrorIs(t, pages.Delete(ctx, page.ID), ErrNotFound)
}

func TestCollectionTransactionRollsBack(t *testing.T) {
	pages := newPages(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := pages.Transaction(ctx, func(tx *Collection[models.Page]) error {
		insertPage(t, tx, "draft-one", models.PublishStatusDraft)
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := pages.Count(ctx, Query{})
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestStorageErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := &StorageError{Collection: "pages", Op: "insert", Err: cause}
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "insert pages")
}

func TestCollectionUpsertInsertsThenOverwrites(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	settings, err := NewCollection[models.SiteSettings](db, "settings", nil)
	require.NoError(t, err)
	ctx := context.Background()

	record := models.DefaultSiteSettings()
	record.SiteName = "First"
	require.NoError(t, settings.Upsert(ctx, &record))

	record.SiteName = "Second"
	record.FeaturedProjectsLimit = 6
	require.NoError(t, settings.Upsert(ctx, &record))

	loaded, err := settings.Get(ctx, models.SiteSettingsID)
	require.NoError(t, err)
	require.Equal(t, "Second", loaded.SiteName)
	require.Equal(t, 6, loaded.FeaturedProjectsLimit)

	total, err := settings.Count(ctx, Query{})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}
