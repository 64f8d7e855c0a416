package dispatcher

import (
	"francoggm/antiscam-scoring/internal/app/scoring"
	"time"
)

// FallbackEvent describes one record that was scored locally instead of remotely.
type FallbackEvent struct {
	Strategy      scoring.Strategy
	Index         int
	TransactionID string
	Outcome       scoring.Outcome
}

type DispatchEvent struct {
	Strategy scoring.Strategy
	Records  int
	Fallback int
	Duration time.Duration
}

// Observer receives every remote outcome and every fallback substitution. Calls come from
// the dispatching goroutine only, never from concurrent remote calls.
type Observer interface {
	ObserveOutcome(strategy scoring.Strategy, outcome scoring.Outcome, records int)
	ObserveFallback(event FallbackEvent)
	ObserveDispatch(event DispatchEvent)
}

type NopObserver struct{}

func (NopObserver) ObserveOutcome(scoring.Strategy, scoring.Outcome, int) {}
func (NopObserver) ObserveFallback(FallbackEvent)                         {}
func (NopObserver) ObserveDispatch(DispatchEvent)                         {}
