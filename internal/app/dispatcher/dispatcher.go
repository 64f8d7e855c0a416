// Package dispatcher turns an ordered batch of transactions into an equally ordered batch
// of predictions, calling the remote model and substituting the fallback heuristic for
// every record the remote path could not score.
package dispatcher

import (
	"context"
	"fmt"
	"francoggm/antiscam-scoring/internal/app/fallback"
	"francoggm/antiscam-scoring/internal/app/scoring"
	"francoggm/antiscam-scoring/internal/models"
	"time"

	"golang.org/x/sync/errgroup"
)

// Remote is one dispatch's view of the scoring endpoint. Implementations must be safe
// for concurrent Score calls.
type Remote interface {
	Score(ctx context.Context, record models.TransactionRecord) scoring.Outcome
	ScoreBatch(ctx context.Context, records []models.TransactionRecord) scoring.Outcome
	Close()
}

// RemoteFactory opens a Remote for a single Submit call.
type RemoteFactory func(cfg scoring.Config) Remote

func NewRemote(cfg scoring.Config) Remote {
	return scoring.NewClient(cfg)
}

type Dispatcher struct {
	fallback  *fallback.Scorer
	newRemote RemoteFactory
	observer  Observer
}

type Option func(*Dispatcher)

func WithRemoteFactory(factory RemoteFactory) Option {
	return func(d *Dispatcher) {
		if factory != nil {
			d.newRemote = factory
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(d *Dispatcher) {
		if observer != nil {
			d.observer = observer
		}
	}
}

func New(fallbackScorer *fallback.Scorer, opts ...Option) *Dispatcher {
	if fallbackScorer == nil {
		fallbackScorer = fallback.New(nil)
	}

	d := &Dispatcher{
		fallback:  fallbackScorer,
		newRemote: NewRemote,
		observer:  NopObserver{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result is one dispatch as reported to callers.
type Result struct {
	Predictions []models.PredictionResult
	MockMode    bool
	// Strategy is the strategy that ran, which differs from the configured one in mock
	// mode and below the whole-batch threshold.
	Strategy scoring.Strategy
}

func (d *Dispatcher) Score(ctx context.Context, records []models.TransactionRecord, cfg scoring.Config) Result {
	predictions, strategy := d.dispatch(ctx, records, cfg)
	return Result{
		Predictions: predictions,
		MockMode:    cfg.MockMode(),
		Strategy:    strategy,
	}
}

// Submit returns exactly one prediction per record, in input order. It never fails: every
// remote failure is absorbed into a fallback prediction.
func (d *Dispatcher) Submit(ctx context.Context, records []models.TransactionRecord, cfg scoring.Config) []models.PredictionResult {
	predictions, _ := d.dispatch(ctx, records, cfg)
	return predictions
}

func (d *Dispatcher) dispatch(ctx context.Context, records []models.TransactionRecord, cfg scoring.Config) ([]models.PredictionResult, scoring.Strategy) {
	results := make([]models.PredictionResult, len(records))
	strategy := resolveStrategy(cfg, len(records))
	if len(records) == 0 {
		return results, strategy
	}

	start := time.Now()

	remote := d.newRemote(cfg)
	defer remote.Close()

	switch strategy {
	case scoring.StrategyWholeBatch:
		d.wholeBatch(ctx, remote, strategy, records, results)
	case scoring.StrategyPerItemConcurrent:
		d.perItemConcurrent(ctx, remote, strategy, cfg, records, results)
	default:
		d.perItemSync(ctx, remote, strategy, records, results)
	}

	d.observer.ObserveDispatch(DispatchEvent{
		Strategy: strategy,
		Records:  len(records),
		Fallback: countFallback(results),
		Duration: time.Since(start),
	})

	return results, strategy
}

func resolveStrategy(cfg scoring.Config, n int) scoring.Strategy {
	if cfg.MockMode() {
		return scoring.StrategyPerItemSync
	}

	switch cfg.Strategy {
	case scoring.StrategyWholeBatch:
		if n < cfg.WholeBatchThreshold {
			return scoring.StrategyPerItemSync
		}
		return scoring.StrategyWholeBatch
	case scoring.StrategyPerItemConcurrent:
		if cfg.MaxConcurrency <= 1 {
			return scoring.StrategyPerItemSync
		}
		return scoring.StrategyPerItemConcurrent
	default:
		return scoring.StrategyPerItemSync
	}
}

func (d *Dispatcher) perItemSync(ctx context.Context, remote Remote, strategy scoring.Strategy, records []models.TransactionRecord, results []models.PredictionResult) {
	for i, record := range records {
		outcome := callScore(ctx, remote, record)
		d.observer.ObserveOutcome(strategy, outcome, 1)
		results[i] = d.resolve(strategy, i, record, outcome)
	}
}

// perItemConcurrent splits the input into batches of cfg.BatchSize and each batch into
// groups of at most cfg.MaxConcurrency records. A group's calls run concurrently and the
// next group starts only once every call in the current one has returned.
func (d *Dispatcher) perItemConcurrent(ctx context.Context, remote Remote, strategy scoring.Strategy, cfg scoring.Config, records []models.TransactionRecord, results []models.PredictionResult) {
	batchSize := max(cfg.BatchSize, 1)
	groupSize := max(cfg.MaxConcurrency, 1)

	for batchStart := 0; batchStart < len(records); batchStart += batchSize {
		batchEnd := min(batchStart+batchSize, len(records))

		for groupStart := batchStart; groupStart < batchEnd; groupStart += groupSize {
			groupEnd := min(groupStart+groupSize, batchEnd)
			outcomes := make([]scoring.Outcome, groupEnd-groupStart)

			var g errgroup.Group
			for i := groupStart; i < groupEnd; i++ {
				g.Go(func() error {
					outcomes[i-groupStart] = callScore(ctx, remote, records[i])
					return nil
				})
			}
			_ = g.Wait()

			// Resolve in index order so a seeded fallback source stays reproducible.
			for i := groupStart; i < groupEnd; i++ {
				outcome := outcomes[i-groupStart]
				d.observer.ObserveOutcome(strategy, outcome, 1)
				results[i] = d.resolve(strategy, i, records[i], outcome)
			}
		}
	}
}

// wholeBatch sends everything in one call. Any failure degrades the whole input, since a
// response that breaks the shape contract cannot be trusted for any single record.
func (d *Dispatcher) wholeBatch(ctx context.Context, remote Remote, strategy scoring.Strategy, records []models.TransactionRecord, results []models.PredictionResult) {
	outcome := callScoreBatch(ctx, remote, records)
	if outcome.OK() && len(outcome.Predictions) != len(records) {
		outcome = scoring.Outcome{
			Kind: scoring.CountMismatch,
			Err:  fmt.Errorf("expected %d predictions, got %d", len(records), len(outcome.Predictions)),
		}
	}
	d.observer.ObserveOutcome(strategy, outcome, len(records))

	if outcome.OK() {
		for i := range records {
			results[i] = remoteResult(outcome.Predictions[i])
		}
		return
	}

	for i, record := range records {
		results[i] = d.substitute(strategy, i, record, outcome)
	}
}

func (d *Dispatcher) resolve(strategy scoring.Strategy, index int, record models.TransactionRecord, outcome scoring.Outcome) models.PredictionResult {
	if outcome.OK() && len(outcome.Predictions) == 1 {
		return remoteResult(outcome.Predictions[0])
	}

	if outcome.OK() {
		outcome = scoring.Outcome{
			Kind: scoring.CountMismatch,
			Err:  fmt.Errorf("expected 1 prediction, got %d", len(outcome.Predictions)),
		}
	}
	return d.substitute(strategy, index, record, outcome)
}

func (d *Dispatcher) substitute(strategy scoring.Strategy, index int, record models.TransactionRecord, outcome scoring.Outcome) models.PredictionResult {
	prediction := d.fallback.Score(record)
	d.observer.ObserveFallback(FallbackEvent{
		Strategy:      strategy,
		Index:         index,
		TransactionID: record.ID,
		Outcome:       outcome,
	})
	return prediction
}

func remoteResult(prediction models.PredictionResult) models.PredictionResult {
	prediction.Provenance = models.ProvenanceRemote
	return prediction
}

func callScore(ctx context.Context, remote Remote, record models.TransactionRecord) (outcome scoring.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = scoring.Outcome{Kind: scoring.TransportError, Err: fmt.Errorf("remote scorer panicked: %v", r)}
		}
	}()
	return remote.Score(ctx, record)
}

func callScoreBatch(ctx context.Context, remote Remote, records []models.TransactionRecord) (outcome scoring.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = scoring.Outcome{Kind: scoring.TransportError, Err: fmt.Errorf("remote scorer panicked: %v", r)}
		}
	}()
	return remote.ScoreBatch(ctx, records)
}

func countFallback(results []models.PredictionResult) int {
	n := 0
	for _, r := range results {
		if r.Provenance == models.ProvenanceFallback {
			n++
		}
	}
	return n
}
