package storage

import (
	"bytes"
	"context"
	"fmt"
	"francoggm/antiscam-scoring/internal/models"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const runsKey = "runs"

// RunStore keeps one hash entry per scoring run, keyed by run ID.
type RunStore struct {
	cache *redis.Client
}

func NewRunStore(cache *redis.Client) *RunStore {
	return &RunStore{
		cache: cache,
	}
}

func (s *RunStore) SaveRun(ctx context.Context, run *models.RunSummary) error {
	payload, err := sonic.ConfigFastest.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run %s: %w", run.RunID, err)
	}

	return s.cache.HSet(ctx, runsKey, run.RunID, payload).Err()
}

// GetRunsSummary totals the stored runs requested inside [from, to]. Nil bounds are open.
func (s *RunStore) GetRunsSummary(ctx context.Context, from, to *time.Time) (*models.RunsSummary, error) {
	var summary models.RunsSummary

	runs, err := s.cache.HGetAll(ctx, runsKey).Result()
	if err != nil {
		return nil, err
	}

	for id, data := range runs {
		var run models.RunSummary

		decoder := sonic.ConfigFastest.NewDecoder(bytes.NewReader([]byte(data)))
		if err := decoder.Decode(&run); err != nil {
			return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
		}

		if !runWithinTime(run.RequestedAt, from, to) {
			continue
		}

		target := &summary.RemoteSummary
		if run.MockMode {
			target = &summary.MockSummary
		}

		target.TotalRuns++
		target.TotalTransactions += run.Total
		target.TotalFraudulent += run.FraudulentCount
	}

	return &summary, nil
}

func (s *RunStore) PurgeRuns(ctx context.Context) error {
	return s.cache.Del(ctx, runsKey).Err()
}

func runWithinTime(requestedAt time.Time, from, to *time.Time) bool {
	if from != nil && requestedAt.Before(*from) {
		return false
	}

	if to != nil && requestedAt.After(*to) {
		return false
	}

	return true
}
