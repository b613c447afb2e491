package handler

import (
	"net/http"

	"github.com/dat-archive/internal/application/stats"
)

type StatsHandler struct {
	stats stats.Service
}

func NewStatsHandler(s stats.Service) *StatsHandler {
	return &StatsHandler{stats: s}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Get(r.Context())
	if err != nil {
		writeInternal(w, r, "Failed to fetch stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
