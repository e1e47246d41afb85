package resolver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vidgate/models"
	"vidgate/services/extract"
)

// payload is the tolerant upstream decode target. Providers disagree on
// field names and value types, so every disputed field gets a flexible type
// and the canonical mapping happens in Normalize.
type payload struct {
	Error string `json:"error"`

	Title      flexTitle `json:"title"`
	VideoTitle flexTitle `json:"video_title"`
	Name       flexTitle `json:"name"`
	Author     string    `json:"author"`

	LengthSeconds flexInt `json:"lengthSeconds"`
	Duration      flexInt `json:"duration"`

	Formats         []rawFormat `json:"formats"`
	FormatStreams   []rawFormat `json:"formatStreams"`
	AdaptiveFormats []rawFormat `json:"adaptiveFormats"`
	VideoStreams    []rawFormat `json:"videoStreams"`

	RecommendedVideos []rawRelated `json:"recommendedVideos"`
	Related           []rawRelated `json:"related"`
	RelatedStreams    []rawRelated `json:"relatedStreams"`
}

type rawFormat struct {
	Itag          flexString `json:"itag"`
	FormatID      flexString `json:"format_id"`
	MimeType      string     `json:"mimeType"`
	Type          string     `json:"type"`
	Ext           string     `json:"ext"`
	Container     string     `json:"container"`
	QualityLabel  string     `json:"qualityLabel"`
	Resolution    string     `json:"resolution"`
	Quality       string     `json:"quality"`
	ContentLength flexString `json:"contentLength"`
	Filesize      flexString `json:"filesize"`
	ClenBytes     flexString `json:"clen"`
	URL           string     `json:"url"`
}

type rawRelated struct {
	VideoID flexString `json:"videoId"`
	ID      flexString `json:"id"`
	URL     string     `json:"url"`
}

// flexTitle accepts either a plain string or the nested runs shape some
// providers emit ({"runs":[{"text":"..."}]}).
type flexTitle string

func (t *flexTitle) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = flexTitle(s)
		return nil
	}
	var nested struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
		SimpleText string `json:"simpleText"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	if nested.SimpleText != "" {
		*t = flexTitle(nested.SimpleText)
		return nil
	}
	// Only the first runs entry serves as the title.
	if len(nested.Runs) > 0 {
		*t = flexTitle(nested.Runs[0].Text)
	}
	return nil
}

// flexString accepts a JSON string or number and keeps the textual form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt accepts a JSON number or a numeric string; anything else is zero.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(int64(n))
	return nil
}

func decodePayload(body []byte) (*payload, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &p, nil
}

func (p *payload) title() string {
	if p.Title != "" {
		return string(p.Title)
	}
	if p.VideoTitle != "" {
		return string(p.VideoTitle)
	}
	return string(p.Name)
}

// formatKey is the dedupe identity for normalized formats.
type formatKey struct {
	resolution string
	ext        string
	formatID   string
}

// Normalize maps one accepted upstream payload to the canonical shape.
// Normalization never fails: missing fields get deterministic fallbacks so
// downstream consumers see the same structure from every provider.
func Normalize(p *payload, videoID string) *models.VideoMetadata {
	meta := &models.VideoMetadata{
		ID:    videoID,
		Title: p.title(),
	}
	if meta.Title == "" {
		meta.Title = "yt:" + videoID
	}

	if p.LengthSeconds > 0 {
		meta.Duration = int64(p.LengthSeconds)
	} else if p.Duration > 0 {
		meta.Duration = int64(p.Duration)
	}

	// Combined streams first, adaptive after, so the dedupe pass prefers
	// ready-to-play entries when identities collide.
	var raws []rawFormat
	raws = append(raws, p.Formats...)
	raws = append(raws, p.FormatStreams...)
	raws = append(raws, p.VideoStreams...)
	raws = append(raws, p.AdaptiveFormats...)

	seen := make(map[formatKey]struct{}, len(raws))
	for _, rf := range raws {
		f := normalizeFormat(rf)
		key := formatKey{resolution: f.Resolution, ext: f.Ext, formatID: f.FormatID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		meta.Formats = append(meta.Formats, f)
	}

	meta.RelatedIDs = relatedIDs(p)
	return meta
}

func normalizeFormat(rf rawFormat) models.Format {
	f := models.Format{
		FormatID:   firstNonEmpty(string(rf.Itag), string(rf.FormatID)),
		Ext:        formatExt(rf),
		Resolution: firstNonEmpty(rf.QualityLabel, rf.Resolution, rf.Quality, "unknown"),
	}
	size := firstNonEmpty(string(rf.ContentLength), string(rf.Filesize), string(rf.ClenBytes))
	if f.FormatID == "" && size != "" {
		// Last-resort identity: a truncated byte count still separates
		// distinct streams of the same resolution.
		f.FormatID = size
		if len(f.FormatID) > 6 {
			f.FormatID = f.FormatID[:6]
		}
	}
	if bytes, err := strconv.ParseFloat(size, 64); err == nil && bytes > 0 {
		f.FilesizeMB = math.Round(bytes/(1024*1024)*100) / 100
	}
	return f
}

// formatExt derives the container extension. The declared mime type subtype
// wins over an explicit ext field when both are present.
func formatExt(rf rawFormat) string {
	for _, mime := range []string{rf.MimeType, rf.Type} {
		if mime == "" {
			continue
		}
		// "video/mp4; codecs=..." -> "mp4"
		if semi := strings.Index(mime, ";"); semi >= 0 {
			mime = mime[:semi]
		}
		if slash := strings.Index(mime, "/"); slash >= 0 {
			if sub := strings.TrimSpace(mime[slash+1:]); sub != "" {
				return sub
			}
		}
	}
	if rf.Ext != "" {
		return rf.Ext
	}
	if rf.Container != "" {
		return rf.Container
	}
	return "mp4"
}

func relatedIDs(p *payload) []string {
	var raws []rawRelated
	raws = append(raws, p.RecommendedVideos...)
	raws = append(raws, p.Related...)
	raws = append(raws, p.RelatedStreams...)

	seen := make(map[string]struct{}, len(raws))
	var out []string
	for _, rr := range raws {
		id := firstNonEmpty(string(rr.VideoID), string(rr.ID))
		if id == "" && rr.URL != "" {
			// Some providers only give a watch URL for related entries.
			if extracted, err := extract.VideoID(rr.URL); err == nil {
				id = extracted
			}
		}
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
