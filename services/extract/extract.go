// Package extract maps user-supplied reference strings to canonical video
// identifiers. It is pure: no network access, no side effects.
package extract

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNotExtractable is returned when no identifier can be derived at all.
// Best-effort extraction means this only happens for blank or
// separator-only input.
var ErrNotExtractable = errors.New("no video id could be extracted")

// VideoID extracts a canonical video identifier from a reference string.
// Rules are applied in order, first match wins:
//  1. the path segment after a youtu.be short link,
//  2. the v= query parameter of a watch URL,
//  3. the final /-delimited segment.
//
// A string matching none of the rules still yields the final segment; the
// result may be semantically wrong for arbitrary input, which callers accept.
func VideoID(reference string) (string, error) {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return "", ErrNotExtractable
	}

	if _, after, ok := strings.Cut(ref, "youtu.be/"); ok {
		return finish(truncateAt(after, "?", "&"))
	}

	if strings.Contains(ref, "watch") && strings.Contains(ref, "v=") {
		query := ref
		if u, err := url.Parse(ref); err == nil && u.RawQuery != "" {
			query = u.RawQuery
		}
		if _, after, ok := strings.Cut(query, "v="); ok {
			return finish(truncateAt(after, "&"))
		}
	}

	seg := ref
	if idx := strings.LastIndex(seg, "/"); idx >= 0 {
		seg = seg[idx+1:]
	}
	return finish(truncateAt(seg, "?"))
}

// truncateAt cuts s at the earliest occurrence of any separator.
func truncateAt(s string, seps ...string) string {
	for _, sep := range seps {
		if idx := strings.Index(s, sep); idx >= 0 {
			s = s[:idx]
		}
	}
	return s
}

func finish(id string) (string, error) {
	if id == "" {
		return "", ErrNotExtractable
	}
	return id, nil
}
