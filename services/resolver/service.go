// Package resolver walks the upstream instance pool for one resolution
// request: alive-first attempt ordering, bounded per-attempt timeouts,
// response acceptance checks, and normalization into the canonical shape.
package resolver

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"vidgate/models"
	"vidgate/services/extract"
	"vidgate/services/upstream"
)

// Responses larger than this are treated as malformed; real metadata bodies
// are a few hundred KB at most.
const maxResponseBytes = 8 << 20

// Service resolves canonical video metadata across the candidate pool.
type Service struct {
	registry *upstream.Registry
	alive    *upstream.AliveSet
	httpc    *http.Client
}

// NewService creates a resolver over the given registry and alive-set.
func NewService(registry *upstream.Registry, alive *upstream.AliveSet, attemptTimeout time.Duration) *Service {
	if attemptTimeout <= 0 {
		attemptTimeout = 12 * time.Second
	}
	return &Service{
		registry: registry,
		alive:    alive,
		httpc:    &http.Client{Timeout: attemptTimeout},
	}
}

// Resolve maps a user-supplied reference to canonical metadata. Only
// extract.ErrNotExtractable and *AllBackendsFailedError cross this boundary.
func (s *Service) Resolve(ctx context.Context, reference string) (*models.VideoMetadata, error) {
	meta, _, err := s.ResolveDetailed(ctx, reference)
	return meta, err
}

// ResolveDetailed is Resolve plus the per-candidate failure list accumulated
// before success, for callers that log or persist attempt counts.
func (s *Service) ResolveDetailed(ctx context.Context, reference string) (*models.VideoMetadata, []AttemptError, error) {
	videoID, err := extract.VideoID(reference)
	if err != nil {
		return nil, nil, err
	}
	return s.resolveID(ctx, videoID)
}

// resolveID performs the fallback walk. Attempts are strictly sequential:
// a later candidate is never contacted before the earlier one's outcome is
// known, keeping per-request backend call volume minimal.
func (s *Service) resolveID(ctx context.Context, videoID string) (*models.VideoMetadata, []AttemptError, error) {
	var attempts []AttemptError

	for _, base := range s.attemptOrder() {
		meta, attemptErr := s.attempt(ctx, base, videoID)
		if attemptErr != nil {
			// Transient and permanent failures advance identically; there is
			// no retry against the same candidate.
			attempts = append(attempts, *attemptErr)
			log.Printf("[resolver] %s failed for %s: %s (%s)", base, videoID, attemptErr.Detail, attemptErr.Kind)
			continue
		}

		// Optimistic promotion: a serving instance is alive by definition,
		// even if the last probe cycle evicted it.
		s.alive.Add(base)
		log.Printf("[resolver] %s served %s (%d prior failure(s))", base, videoID, len(attempts))
		return meta, attempts, nil
	}

	return nil, attempts, &AllBackendsFailedError{Attempts: attempts}
}

// attemptOrder snapshots the alive-set and puts alive candidates first.
// Both groups keep registry order; nothing is ever excluded from an attempt.
func (s *Service) attemptOrder() []string {
	alive := s.alive.Snapshot()
	candidates := s.registry.List()

	order := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := alive[c.BaseAddress]; ok {
			order = append(order, c.BaseAddress)
		}
	}
	for _, c := range candidates {
		if _, ok := alive[c.BaseAddress]; !ok {
			order = append(order, c.BaseAddress)
		}
	}
	return order
}

// attempt issues one bounded metadata request against one candidate and
// normalizes an acceptable response.
func (s *Service) attempt(ctx context.Context, base, videoID string) (*models.VideoMetadata, *AttemptError) {
	endpoint := base + "/api/v1/videos/" + url.PathEscape(videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &AttemptError{BaseAddress: base, Kind: AttemptHTTPStatus, Detail: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("User-Agent", upstream.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		// Connection failures and deadline hits share a bucket: either way
		// the instance produced no response in time.
		return nil, &AttemptError{BaseAddress: base, Kind: AttemptTimeout, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
		return nil, &AttemptError{BaseAddress: base, Kind: AttemptHTTPStatus, Detail: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &AttemptError{BaseAddress: base, Kind: AttemptTimeout, Detail: fmt.Sprintf("read body: %v", err)}
	}

	p, err := decodePayload(body)
	if err != nil {
		return nil, &AttemptError{BaseAddress: base, Kind: AttemptMalformedJSON, Detail: err.Error()}
	}
	if p.Error != "" {
		return nil, &AttemptError{BaseAddress: base, Kind: AttemptSchemaMismatch, Detail: "provider error: " + p.Error}
	}
	if p.title() == "" {
		return nil, &AttemptError{BaseAddress: base, Kind: AttemptSchemaMismatch, Detail: "missing title field"}
	}

	meta := Normalize(p, videoID)
	meta.ServedBy = base
	return meta, nil
}
