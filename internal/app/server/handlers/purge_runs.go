package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

func (h *Handlers) PurgeRuns(w http.ResponseWriter, r *http.Request) {
	if err := h.runStore.PurgeRuns(r.Context()); err != nil {
		h.logger.Error("purge_runs_failed", zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "failed to purge runs")
		return
	}

	w.WriteHeader(http.StatusOK)
}
