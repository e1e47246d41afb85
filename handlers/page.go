package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"vidgate/services/cleaner"
	"vidgate/services/upstream"
)

// Watch pages can be heavy but should never approach this.
const maxPageBytes = 16 << 20

// PageHandler proxies the serving instance's watch page with ad markup
// stripped.
type PageHandler struct {
	Resolver resolverService
	httpc    *http.Client
}

func NewPageHandler(svc resolverService, timeout time.Duration) *PageHandler {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &PageHandler{
		Resolver: svc,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// Serve handles GET /api/page?url=<reference>: resolves the reference, then
// fetches and cleans the watch page from whichever instance served it.
func (h *PageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	reference := strings.TrimSpace(r.URL.Query().Get("url"))
	if reference == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}

	meta, _, err := h.Resolver.ResolveDetailed(r.Context(), reference)
	if err != nil {
		writeResolveError(w, err)
		return
	}

	pageURL := meta.ServedBy + "/watch?v=" + meta.ID
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, pageURL, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	req.Header.Set("User-Agent", upstream.UserAgent)

	resp, err := h.httpc.Do(req)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("fetch watch page: %v", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("watch page returned status %d", resp.StatusCode))
		return
	}

	cleaned, err := cleaner.Clean(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, cleaned); err != nil {
		log.Printf("[handlers] failed to write cleaned page: %v", err)
	}
}
