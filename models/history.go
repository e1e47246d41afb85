package models

import "time"

// ResolutionRecord is one completed resolution, persisted for diagnostics.
type ResolutionRecord struct {
	ID         string    `json:"id"`
	Reference  string    `json:"reference"` // the raw user-supplied reference string
	VideoID    string    `json:"videoId"`
	Title      string    `json:"title"`
	ServedBy   string    `json:"servedBy"`
	Attempts   int       `json:"attempts"` // candidates contacted, including the one that answered
	DurationMS int64     `json:"durationMs"`
	ResolvedAt time.Time `json:"resolvedAt"`
}
