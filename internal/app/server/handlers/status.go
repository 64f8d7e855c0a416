package handlers

import "net/http"

type statusResponse struct {
	Status              string  `json:"status"`
	MLAPIConfigured     bool    `json:"ml_api_configured"`
	Strategy            string  `json:"strategy"`
	BatchSize           int     `json:"batch_size"`
	MaxConcurrency      int     `json:"max_concurrency"`
	ItemTimeoutSeconds  float64 `json:"item_timeout_seconds"`
	BatchTimeoutSeconds float64 `json:"batch_timeout_seconds"`
	ResponseKeys        string  `json:"response_keys"`
}

func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	cfg := h.cfg.Scoring

	h.writeJSON(w, http.StatusOK, statusResponse{
		Status:              "online",
		MLAPIConfigured:     !cfg.MockMode(),
		Strategy:            string(cfg.Strategy),
		BatchSize:           cfg.BatchSize,
		MaxConcurrency:      cfg.MaxConcurrency,
		ItemTimeoutSeconds:  cfg.ItemTimeout.Seconds(),
		BatchTimeoutSeconds: cfg.BatchTimeout.Seconds(),
		ResponseKeys:        string(cfg.ResponseKeys),
	})
}
