// Package fallback scores transactions locally when the remote model cannot be trusted.
package fallback

import (
	"francoggm/antiscam-scoring/internal/models"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/shopspring/decimal"
)

const (
	LoginAttemptsThreshold = 3

	flaggedMin   = 0.65
	flaggedMax   = 0.95
	unflaggedMin = 0.05
	unflaggedMax = 0.45

	scorePrecision = 10000
)

var AmountThreshold = decimal.NewFromInt(5000)

// RandSource yields values in [0, 1). *rand.Rand from math/rand and math/rand/v2 both satisfy it.
type RandSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Scorer applies the amount / login-attempts rule. Only the flag is a function of the
// input; the score is drawn from the flag's band.
type Scorer struct {
	mu  sync.Mutex
	rnd RandSource
}

// New returns a Scorer drawing from rnd. A nil rnd uses the process-wide generator.
func New(rnd RandSource) *Scorer {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &Scorer{rnd: rnd}
}

// NewSeeded returns a Scorer whose scores are reproducible for a given seed.
func NewSeeded(seed uint64) *Scorer {
	return New(rand.New(rand.NewPCG(seed, seed)))
}

func IsFraud(record models.TransactionRecord) bool {
	return record.Amount.GreaterThan(AmountThreshold) || record.LoginAttempts > LoginAttemptsThreshold
}

func (s *Scorer) Score(record models.TransactionRecord) models.PredictionResult {
	fraud := IsFraud(record)

	lo, hi := unflaggedMin, unflaggedMax
	if fraud {
		lo, hi = flaggedMin, flaggedMax
	}

	return models.PredictionResult{
		Fraud:      fraud,
		Score:      s.draw(lo, hi),
		Provenance: models.ProvenanceFallback,
	}
}

func (s *Scorer) draw(lo, hi float64) float64 {
	s.mu.Lock()
	r := s.rnd.Float64()
	s.mu.Unlock()

	// Truncate instead of rounding so the upper bound stays exclusive.
	v := math.Floor((lo+r*(hi-lo))*scorePrecision) / scorePrecision
	if v < lo {
		v = lo
	}
	if v >= hi {
		v = hi - 1.0/scorePrecision
	}
	return v
}
