package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// SummaryRunner regenerates the monthly route summaries.
type SummaryRunner interface {
	Run(ctx context.Context) (int64, error)
}

// CronHandler exposes scheduled jobs for an external trigger.
type CronHandler struct {
	summaries SummaryRunner
	now       func() time.Time
}

func NewCronHandler(summaries SummaryRunner) *CronHandler {
	return &CronHandler{summaries: summaries, now: time.Now}
}

func (h *CronHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	n, err := h.summaries.Run(r.Context())
	if err != nil {
		writeInternal(w, r, "Failed to generate summaries", err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryEnvelope{
		Success:   true,
		Message:   fmt.Sprintf("Generated %d route summaries", n),
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}
