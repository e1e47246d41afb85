package handlers

import (
	"net/http"
	"strconv"

	"vidgate/models"
	"vidgate/services/history"
)

type historyService interface {
	Recent(limit int) ([]models.ResolutionRecord, error)
}

var _ historyService = (*history.Service)(nil)

// HistoryHandler serves the resolution log.
type HistoryHandler struct {
	Service historyService
}

func NewHistoryHandler(svc historyService) *HistoryHandler {
	return &HistoryHandler{Service: svc}
}

// List handles GET /api/history?limit=N.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	records, err := h.Service.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []models.ResolutionRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
