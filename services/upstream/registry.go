// Package upstream tracks the pool of functionally-equivalent metadata
// instances: the static candidate registry, the shared alive-set, and the
// background prober that keeps the alive-set current.
package upstream

import "strings"

// UserAgent is sent on every outbound call; several public instances reject
// requests without a browser-like agent.
const UserAgent = "Mozilla/5.0 (compatible; vidgate/1.0)"

// Candidate is one independently operated upstream instance. Candidates are
// immutable once registered; liveness is derived from alive-set membership,
// never stored here.
type Candidate struct {
	BaseAddress string `json:"baseAddress"`
}

// Registry is the ordered, deduplicated candidate pool. It is read-only
// after construction.
type Registry struct {
	candidates []Candidate
}

// NewRegistry normalizes and deduplicates the given addresses, preserving
// first-seen order.
func NewRegistry(addresses []string) *Registry {
	seen := make(map[string]struct{}, len(addresses))
	var out []Candidate
	for _, addr := range addresses {
		base := NormalizeBase(addr)
		if base == "" {
			continue
		}
		if _, dup := seen[base]; dup {
			continue
		}
		seen[base] = struct{}{}
		out = append(out, Candidate{BaseAddress: base})
	}
	return &Registry{candidates: out}
}

// List returns the registered candidates in first-seen order.
func (r *Registry) List() []Candidate {
	out := make([]Candidate, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// Len returns the number of registered candidates.
func (r *Registry) Len() int {
	return len(r.candidates)
}

// NormalizeBase strips a trailing slash and a trailing API path suffix so
// the same instance configured either way collapses to one entry.
func NormalizeBase(addr string) string {
	base := strings.TrimSpace(addr)
	base = strings.TrimRight(base, "/")
	base = strings.TrimSuffix(base, "/api/v1")
	return strings.TrimRight(base, "/")
}
