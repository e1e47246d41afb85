package database

import (
	"database/sql"
	"fmt"

	"vidgate/models"
)

// ResolutionRepository persists the append-only resolution log.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a repository over the given connection.
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Insert stores one completed resolution.
func (r *ResolutionRepository) Insert(rec models.ResolutionRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO resolutions (id, reference, video_id, title, served_by, attempts, duration_ms, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Reference, rec.VideoID, rec.Title, rec.ServedBy, rec.Attempts, rec.DurationMS, rec.ResolvedAt)
	if err != nil {
		return fmt.Errorf("insert resolution: %w", err)
	}
	return nil
}

// Recent returns the most recent resolutions, newest first.
func (r *ResolutionRepository) Recent(limit int) ([]models.ResolutionRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, reference, video_id, title, served_by, attempts, duration_ms, resolved_at
		FROM resolutions
		ORDER BY resolved_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query resolutions: %w", err)
	}
	defer rows.Close()

	var out []models.ResolutionRecord
	for rows.Next() {
		var rec models.ResolutionRecord
		if err := rows.Scan(&rec.ID, &rec.Reference, &rec.VideoID, &rec.Title,
			&rec.ServedBy, &rec.Attempts, &rec.DurationMS, &rec.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountByInstance returns how many resolutions each instance has served.
func (r *ResolutionRepository) CountByInstance() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT served_by, COUNT(*) FROM resolutions GROUP BY served_by`)
	if err != nil {
		return nil, fmt.Errorf("count resolutions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var base string
		var n int
		if err := rows.Scan(&base, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[base] = n
	}
	return out, rows.Err()
}
