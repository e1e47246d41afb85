package models

// VideoMetadata is the canonical resolution output, independent of which
// upstream instance supplied the underlying data. It is produced fresh per
// request and never cached by the engine.
type VideoMetadata struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Formats    []Format `json:"formats"`
	Duration   int64    `json:"duration,omitempty"` // seconds; omitted when the provider does not report it
	RelatedIDs []string `json:"relatedIds"`
	ServedBy   string   `json:"servedBy"` // base address of the instance that answered
}

// Format describes one playable stream descriptor.
type Format struct {
	FormatID   string  `json:"formatId"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution"` // "unknown" when the provider omits a label
	FilesizeMB float64 `json:"filesize"`   // approximate size in MB; 0 means unknown, not empty
}
