package menu

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tableserve/internal/common/logger"
	"tableserve/internal/domain"
)

// RowSource supplies raw tabular rows for one named table.
type RowSource interface {
	Read(ctx context.Context, name string) ([][]string, error)
}

var ErrNoSource = errors.New("menu: no source configured")

// Service reads the menu from the primary source (sheet store) with a CSV
// export fallback, caching normalized results for a short TTL.
type Service struct {
	primary   RowSource
	fallback  RowSource
	sheetName string
	ttl       time.Duration
	lg        *logger.Logger

	mu       sync.Mutex
	cached   []domain.MenuItem
	source   string
	cachedAt time.Time
}

func NewService(primary, fallback RowSource, sheetName string, ttl time.Duration, lg *logger.Logger) *Service {
	return &Service{primary: primary, fallback: fallback, sheetName: sheetName, ttl: ttl, lg: lg}
}

// Get returns the normalized menu and a source tag ("cache",
// "sheet-<name>" or "csv-export").
func (s *Service) Get(ctx context.Context) ([]domain.MenuItem, string, error) {
	s.mu.Lock()
	if s.cached != nil && time.Since(s.cachedAt) < s.ttl {
		items := s.cached
		s.mu.Unlock()
		return items, "cache", nil
	}
	s.mu.Unlock()

	items, src, err := s.load(ctx)
	if err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	s.cached, s.source, s.cachedAt = items, src, time.Now()
	s.mu.Unlock()
	return items, src, nil
}

func (s *Service) load(ctx context.Context) ([]domain.MenuItem, string, error) {
	if s.primary != nil {
		rows, err := s.primary.Read(ctx, s.sheetName)
		if err == nil {
			return Normalize(rows), "sheet-" + s.sheetName, nil
		}
		s.lg.Warn("menu_primary_source_failed", map[string]any{"sheet": s.sheetName, "error": err.Error()})
	}
	if s.fallback != nil {
		rows, err := s.fallback.Read(ctx, s.sheetName)
		if err != nil {
			return nil, "", fmt.Errorf("menu sheet %q unavailable: %w", s.sheetName, err)
		}
		return Normalize(rows), "csv-export", nil
	}
	if s.primary == nil {
		return nil, "", ErrNoSource
	}
	return nil, "", fmt.Errorf("menu sheet %q not found", s.sheetName)
}

// Invalidate drops the cache; used by tests and the owner dashboard after
// menu edits.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached, s.source = nil, ""
	s.mu.Unlock()
}
