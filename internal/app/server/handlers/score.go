package handlers

import (
	"fmt"
	"francoggm/antiscam-scoring/internal/app/aggregator"
	"francoggm/antiscam-scoring/internal/models"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type scoreResponse struct {
	RunID string `json:"run_id"`
	aggregator.Report
}

// ScoreTransactions scores a JSON array of transactions and returns the aggregated report.
func (h *Handlers) ScoreTransactions(w http.ResponseWriter, r *http.Request) {
	var records []models.TransactionRecord
	if err := sonic.ConfigStd.NewDecoder(r.Body).Decode(&records); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid transactions payload: %v", err))
		return
	}

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = models.DefaultTransactionID(i)
		}

		if err := records[i].Validate(); err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	requestedAt := time.Now().UTC()
	result := h.scorer.Score(r.Context(), records, h.cfg.Scoring)

	report, err := aggregator.Aggregate(records, result.Predictions, result.MockMode)
	if err != nil {
		h.logger.Error("aggregation_failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to aggregate predictions")
		return
	}

	run := &models.RunSummary{
		RunID:           uuid.NewString(),
		Strategy:        string(result.Strategy),
		Total:           report.Total,
		FraudulentCount: report.FraudulentCount,
		RemoteCount:     report.RemoteCount,
		FallbackCount:   report.FallbackCount,
		MockMode:        report.MockMode,
		RequestedAt:     requestedAt,
	}
	h.enqueueRun(run)

	h.writeJSON(w, http.StatusOK, scoreResponse{RunID: run.RunID, Report: report})
}

// enqueueRun never blocks the response; when the buffer is full the run is not recorded.
func (h *Handlers) enqueueRun(run *models.RunSummary) {
	if h.runEventsCh == nil {
		return
	}

	select {
	case h.runEventsCh <- run:
	default:
		h.logger.Warn("run_event_dropped", zap.String("run_id", run.RunID))
	}
}
