// Package aggregator condenses a scored batch into the report returned to callers.
package aggregator

import (
	"cmp"
	"errors"
	"fmt"
	"francoggm/antiscam-scoring/internal/models"
	"math"
	"slices"
)

const (
	TopAccountsLimit = 5

	CriticalScore = 0.8
	HighScore     = 0.6
	MediumScore   = 0.4

	// Accounts whose average scores differ by no more than this tie on score.
	scoreTolerance = 0.001
)

var ErrLengthMismatch = errors.New("records and predictions differ in length")

type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

func RiskLevelOf(score float64) RiskLevel {
	switch {
	case score >= CriticalScore:
		return RiskCritical
	case score >= HighScore:
		return RiskHigh
	case score >= MediumScore:
		return RiskMedium
	default:
		return RiskLow
	}
}

type RiskDistribution struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

func (r *RiskDistribution) add(score float64) {
	switch RiskLevelOf(score) {
	case RiskCritical:
		r.Critical++
	case RiskHigh:
		r.High++
	case RiskMedium:
		r.Medium++
	default:
		r.Low++
	}
}

type AccountRisk struct {
	ID             string   `json:"id"`
	Count          int      `json:"count"`
	AvgScore       float64  `json:"avg_score"`
	MaxScore       float64  `json:"max_score"`
	TransactionIDs []string `json:"transactions"`

	totalScore float64
}

type Report struct {
	Total                  int                        `json:"total_transactions"`
	FraudulentCount        int                        `json:"fraudulent_count"`
	FraudulentTransactions []models.ScoredTransaction `json:"fraudulent_transactions"`
	MockMode               bool                       `json:"ml_mock_mode"`
	RemoteCount            int                        `json:"remote_count"`
	FallbackCount          int                        `json:"fallback_count"`
	RiskDistribution       RiskDistribution           `json:"risk_distribution"`
	TopAccounts            []AccountRisk              `json:"top_accounts"`
}

// Aggregate pairs records with predictions by position. It fails only when the two slices
// differ in length.
func Aggregate(records []models.TransactionRecord, predictions []models.PredictionResult, mockMode bool) (Report, error) {
	if len(records) != len(predictions) {
		return Report{}, fmt.Errorf("%w: %d records, %d predictions", ErrLengthMismatch, len(records), len(predictions))
	}

	report := Report{
		Total:                  len(records),
		FraudulentTransactions: []models.ScoredTransaction{},
		MockMode:               mockMode,
	}

	for i, record := range records {
		prediction := predictions[i]

		switch prediction.Provenance {
		case models.ProvenanceRemote:
			report.RemoteCount++
		case models.ProvenanceFallback:
			report.FallbackCount++
		}

		if !prediction.Fraud {
			continue
		}

		report.FraudulentTransactions = append(report.FraudulentTransactions, models.ScoredTransaction{
			TransactionRecord: record,
			PredictionResult:  prediction,
		})
		report.RiskDistribution.add(prediction.Score)
	}

	report.FraudulentCount = len(report.FraudulentTransactions)
	report.TopAccounts = TopAccounts(report.FraudulentTransactions, TopAccountsLimit)

	return report, nil
}

// TopAccounts groups flagged transactions by account, or by transaction when the account
// is unknown, and returns the limit highest by average score.
func TopAccounts(flagged []models.ScoredTransaction, limit int) []AccountRisk {
	byID := make(map[string]*AccountRisk)
	order := make([]string, 0)

	for _, tx := range flagged {
		id := tx.AccountID
		if id == "" {
			id = tx.ID
		}

		acc, ok := byID[id]
		if !ok {
			acc = &AccountRisk{ID: id}
			byID[id] = acc
			order = append(order, id)
		}

		acc.Count++
		acc.totalScore += tx.Score
		acc.AvgScore = acc.totalScore / float64(acc.Count)
		acc.MaxScore = math.Max(acc.MaxScore, tx.Score)
		acc.TransactionIDs = append(acc.TransactionIDs, tx.ID)
	}

	accounts := make([]AccountRisk, 0, len(order))
	for _, id := range order {
		accounts = append(accounts, *byID[id])
	}

	slices.SortStableFunc(accounts, func(a, b AccountRisk) int {
		if math.Abs(a.AvgScore-b.AvgScore) > scoreTolerance {
			return cmp.Compare(b.AvgScore, a.AvgScore)
		}
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if len(accounts) > limit {
		accounts = accounts[:limit]
	}
	return accounts
}
