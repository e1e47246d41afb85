package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"vidgate/models"
	"vidgate/services/extract"
	"vidgate/services/history"
	"vidgate/services/resolver"
)

type resolverService interface {
	ResolveDetailed(ctx context.Context, reference string) (*models.VideoMetadata, []resolver.AttemptError, error)
}

var _ resolverService = (*resolver.Service)(nil)

type historyRecorder interface {
	Record(reference string, meta *models.VideoMetadata, attempts int, took time.Duration)
}

var _ historyRecorder = (*history.Service)(nil)

// ResolveHandler serves metadata resolution requests.
type ResolveHandler struct {
	Resolver resolverService
	History  historyRecorder
}

func NewResolveHandler(svc resolverService) *ResolveHandler {
	return &ResolveHandler{Resolver: svc}
}

// SetHistoryRecorder enables best-effort resolution logging. The handler
// works without one; history is an optional concern.
func (h *ResolveHandler) SetHistoryRecorder(rec historyRecorder) {
	h.History = rec
}

// Resolve handles GET /api/resolve?url=<reference>.
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	reference := strings.TrimSpace(r.URL.Query().Get("url"))
	if reference == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}

	started := time.Now()
	meta, attemptErrs, err := h.Resolver.ResolveDetailed(r.Context(), reference)
	if err != nil {
		writeResolveError(w, err)
		return
	}

	if h.History != nil {
		h.History.Record(reference, meta, len(attemptErrs)+1, time.Since(started))
	}

	writeJSON(w, http.StatusOK, meta)
}

func writeResolveError(w http.ResponseWriter, err error) {
	var exhausted *resolver.AllBackendsFailedError
	switch {
	case errors.Is(err, extract.ErrNotExtractable):
		writeError(w, http.StatusBadRequest, "could not extract a video id from the given url")
	case errors.As(err, &exhausted):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":    exhausted.Error(),
			"attempts": exhausted.Attempts,
		})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
