package observability

import (
	"francoggm/antiscam-scoring/internal/app/dispatcher"
	"francoggm/antiscam-scoring/internal/app/scoring"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const namespace = "antiscam_scoring"

var (
	RemoteOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_outcomes_total",
			Help:      "Remote scoring calls by strategy and outcome kind",
		},
		[]string{"strategy", "kind"},
	)

	FallbackSubstitutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_substitutions_total",
			Help:      "Records scored by the fallback heuristic, by failure category",
		},
		[]string{"strategy", "category"},
	)

	RecordsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_scored_total",
			Help:      "Records scored by provenance",
		},
		[]string{"provenance"},
	)

	DispatchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Wall time of one dispatch, from first remote call to last prediction",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"strategy"},
	)
)

// DispatchObserver records dispatcher events as metrics and logs each fallback.
type DispatchObserver struct {
	logger *zap.Logger
}

func NewDispatchObserver(logger *zap.Logger) *DispatchObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispatchObserver{logger: logger}
}

func (o *DispatchObserver) ObserveOutcome(strategy scoring.Strategy, outcome scoring.Outcome, records int) {
	RemoteOutcomes.WithLabelValues(string(strategy), outcome.Kind.String()).Inc()

	if outcome.Kind == scoring.EndpointUnconfigured || outcome.OK() {
		return
	}

	o.logger.Debug("remote_scoring_failed",
		zap.String("strategy", string(strategy)),
		zap.Stringer("kind", outcome.Kind),
		zap.Int("records", records),
		zap.Error(outcome.Err),
	)
}

func (o *DispatchObserver) ObserveFallback(event dispatcher.FallbackEvent) {
	category := scoring.Category(event.Outcome)
	FallbackSubstitutions.WithLabelValues(string(event.Strategy), category).Inc()

	// Unconfigured endpoints fall back for every record, so only real failures are logged.
	if event.Outcome.Kind == scoring.EndpointUnconfigured {
		return
	}

	o.logger.Warn("fallback_scoring_used",
		zap.String("strategy", string(event.Strategy)),
		zap.Int("index", event.Index),
		zap.String("transaction_id", event.TransactionID),
		zap.String("category", category),
		zap.Stringer("kind", event.Outcome.Kind),
		zap.Error(event.Outcome.Err),
	)
}

func (o *DispatchObserver) ObserveDispatch(event dispatcher.DispatchEvent) {
	DispatchLatency.WithLabelValues(string(event.Strategy)).Observe(event.Duration.Seconds())
	RecordsScored.WithLabelValues("remote").Add(float64(event.Records - event.Fallback))
	RecordsScored.WithLabelValues("fallback").Add(float64(event.Fallback))

	o.logger.Info("dispatch_completed",
		zap.String("strategy", string(event.Strategy)),
		zap.Int("records", event.Records),
		zap.Int("fallback", event.Fallback),
		zap.Duration("duration", event.Duration),
	)
}
