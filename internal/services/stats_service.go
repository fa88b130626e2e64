package services

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/models"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

// StatsSource reports record counts for one collection.
type StatsSource interface {
	Stats(ctx context.Context) (CollectionStats, error)
}

// StatsService summarises every collection for the admin dashboard.
type StatsService struct {
	db      *gorm.DB
	sources map[string]StatsSource
}

// NewStatsService builds a StatsService over named sources. db is used to count uploads.
func NewStatsService(db *gorm.DB, sources map[string]StatsSource) (*StatsService, error) {
	if db == nil {
		return nil, errors.New("stats service: db is required")
	}
	return &StatsService{db: db, sources: sources}, nil
}

// Summary returns counts keyed by collection name, plus "media" for uploaded files.
func (s *StatsService) Summary(ctx context.Context) (map[string]CollectionStats, error) {
	ctx = ensureContext(ctx)

	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)

	summary := make(map[string]CollectionStats, len(names)+1)
	for _, name := range names {
		stats, err := s.sources[name].Stats(ctx)
		if err != nil {
			return nil, err
		}
		summary[name] = stats
	}

	var media int64
	if err := s.db.WithContext(ctx).Model(&models.Media{}).Count(&media).Error; err != nil {
		return nil, apperrors.ErrInternalServer.WithInternal(err)
	}
	summary["media"] = CollectionStats{Total: media, Published: media}
	return summary, nil
}
