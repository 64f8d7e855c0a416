package handlers

import (
	"context"
	"francoggm/antiscam-scoring/internal/app/dispatcher"
	"francoggm/antiscam-scoring/internal/app/scoring"
	"francoggm/antiscam-scoring/internal/config"
	"francoggm/antiscam-scoring/internal/models"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

type Scorer interface {
	Score(ctx context.Context, records []models.TransactionRecord, cfg scoring.Config) dispatcher.Result
}

type RunStore interface {
	GetRunsSummary(ctx context.Context, from, to *time.Time) (*models.RunsSummary, error)
	PurgeRuns(ctx context.Context) error
}

type Handlers struct {
	cfg         *config.Config
	scorer      Scorer
	runStore    RunStore
	runEventsCh chan any
	logger      *zap.Logger
}

func NewHandlers(cfg *config.Config, scorer Scorer, runStore RunStore, runEventsCh chan any, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handlers{
		cfg:         cfg,
		scorer:      scorer,
		runStore:    runStore,
		runEventsCh: runEventsCh,
		logger:      logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := sonic.Marshal(body)
	if err != nil {
		h.logger.Error("response_encoding_failed", zap.Error(err))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}
