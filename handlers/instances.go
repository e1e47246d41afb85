package handlers

import (
	"context"
	"net/http"

	"vidgate/services/upstream"
)

type proberService interface {
	Status() []upstream.InstanceStatus
	RunCycle(ctx context.Context) []string
}

var _ proberService = (*upstream.Prober)(nil)

type servedCounter interface {
	ServedCounts() (map[string]int, error)
}

// InstancesHandler exposes the candidate pool state.
type InstancesHandler struct {
	Prober proberService
	Counts servedCounter
}

func NewInstancesHandler(prober proberService) *InstancesHandler {
	return &InstancesHandler{Prober: prober}
}

// SetServedCounter enables per-instance served totals in the listing.
func (h *InstancesHandler) SetServedCounter(c servedCounter) {
	h.Counts = c
}

type instanceView struct {
	upstream.InstanceStatus
	Served int `json:"served"`
}

// List handles GET /api/instances.
func (h *InstancesHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses := h.Prober.Status()

	var counts map[string]int
	if h.Counts != nil {
		// Count failures are cosmetic; the listing still works without them.
		counts, _ = h.Counts.ServedCounts()
	}

	out := make([]instanceView, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, instanceView{InstanceStatus: st, Served: counts[st.BaseAddress]})
	}
	writeJSON(w, http.StatusOK, out)
}

// Probe handles POST /api/instances/probe: runs one probe cycle now and
// returns the refreshed status list.
func (h *InstancesHandler) Probe(w http.ResponseWriter, r *http.Request) {
	alive := h.Prober.RunCycle(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"alive":     alive,
		"instances": h.Prober.Status(),
	})
}
