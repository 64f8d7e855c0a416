package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

func (h *Handlers) GetRunsSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var from, to *time.Time
	layout := time.RFC3339

	if fromStr := query.Get("from"); fromStr != "" {
		if t, err := time.Parse(layout, fromStr); err == nil {
			from = &t
		}
	}

	if toStr := query.Get("to"); toStr != "" {
		if t, err := time.Parse(layout, toStr); err == nil {
			to = &t
		}
	}

	summary, err := h.runStore.GetRunsSummary(ctx, from, to)
	if err != nil {
		h.logger.Error("runs_summary_failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to get runs summary")
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}
