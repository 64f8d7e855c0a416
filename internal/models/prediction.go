package models

type Provenance string

const (
	ProvenanceRemote   Provenance = "remote"
	ProvenanceFallback Provenance = "fallback"
)

type PredictionResult struct {
	Fraud      bool       `json:"fraud_or_not"`
	Score      float64    `json:"fraud_score"`
	Provenance Provenance `json:"provenance"`
}

type ScoredTransaction struct {
	TransactionRecord
	PredictionResult
}
