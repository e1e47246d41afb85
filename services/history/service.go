// Package history records completed resolutions for the history endpoint.
// Recording is best-effort: a storage failure is logged and never surfaces
// to the resolution caller.
package history

import (
	"log"
	"time"

	"github.com/google/uuid"

	"vidgate/internal/database"
	"vidgate/models"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Service wraps the resolution repository with logging and limits.
type Service struct {
	repo *database.ResolutionRepository
}

// NewService creates a history service over the given repository.
func NewService(repo *database.ResolutionRepository) *Service {
	return &Service{repo: repo}
}

// Record stores one completed resolution. Errors are logged, not returned.
func (s *Service) Record(reference string, meta *models.VideoMetadata, attempts int, took time.Duration) {
	if attempts < 1 {
		attempts = 1
	}
	rec := models.ResolutionRecord{
		ID:         uuid.NewString(),
		Reference:  reference,
		VideoID:    meta.ID,
		Title:      meta.Title,
		ServedBy:   meta.ServedBy,
		Attempts:   attempts,
		DurationMS: took.Milliseconds(),
		ResolvedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(rec); err != nil {
		log.Printf("[history] failed to record resolution for %s: %v", meta.ID, err)
	}
}

// Recent returns the most recent resolutions. A non-positive limit falls
// back to the default; oversized limits are capped.
func (s *Service) Recent(limit int) ([]models.ResolutionRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.repo.Recent(limit)
}

// ServedCounts returns per-instance resolution totals for the status view.
func (s *Service) ServedCounts() (map[string]int, error) {
	return s.repo.CountByInstance()
}
