package scoring

import (
	"errors"
	"fmt"
	"time"
)

type Strategy string

const (
	StrategyPerItemSync       Strategy = "per_item_sync"
	StrategyPerItemConcurrent Strategy = "per_item_concurrent"
	StrategyWholeBatch        Strategy = "whole_batch"
)

// ResponseKeys selects which field names are read from each prediction object.
type ResponseKeys string

const (
	// KeysAuto reads fraud/confidence_score and falls back to fraud_prediction/fraud_score.
	KeysAuto      ResponseKeys = "auto"
	KeysStandard  ResponseKeys = "standard"
	KeysAlternate ResponseKeys = "alternate"
)

const (
	DefaultBatchSize      = 100
	DefaultMaxConcurrency = 50
	DefaultItemTimeout    = 10 * time.Second
	DefaultBatchTimeout   = 120 * time.Second
)

var ErrInvalidConfig = errors.New("invalid scoring config")

// Config is built once at startup and passed by value; nothing in the scoring path mutates it.
type Config struct {
	Endpoint       string
	APIKey         string
	Strategy       Strategy
	BatchSize      int
	MaxConcurrency int
	ItemTimeout    time.Duration
	BatchTimeout   time.Duration
	ResponseKeys   ResponseKeys

	// WholeBatchThreshold is the smallest input sent as one call under StrategyWholeBatch.
	// Smaller inputs are scored one record at a time. Zero means always.
	WholeBatchThreshold int
}

func DefaultConfig() Config {
	return Config{
		Strategy:       StrategyPerItemConcurrent,
		BatchSize:      DefaultBatchSize,
		MaxConcurrency: DefaultMaxConcurrency,
		ItemTimeout:    DefaultItemTimeout,
		BatchTimeout:   DefaultBatchTimeout,
		ResponseKeys:   KeysAuto,
	}
}

// MockMode reports whether no remote endpoint is configured.
func (c Config) MockMode() bool {
	return c.Endpoint == ""
}

func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyPerItemSync, StrategyPerItemConcurrent, StrategyWholeBatch:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, c.Strategy)
	}

	switch c.ResponseKeys {
	case KeysAuto, KeysStandard, KeysAlternate:
	default:
		return fmt.Errorf("%w: unknown response keys %q", ErrInvalidConfig, c.ResponseKeys)
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}

	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("%w: max concurrency must be positive, got %d", ErrInvalidConfig, c.MaxConcurrency)
	}

	if c.ItemTimeout <= 0 || c.BatchTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	}

	if c.WholeBatchThreshold < 0 {
		return fmt.Errorf("%w: whole batch threshold must not be negative", ErrInvalidConfig)
	}

	return nil
}
