package storage

import (
	"context"
	"francoggm/antiscam-scoring/internal/models"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RunStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRunStore(rdb), mr
}

func run(id string, mock bool, total, fraudulent int, at time.Time) *models.RunSummary {
	return &models.RunSummary{
		RunID:           id,
		Strategy:        "per_item_concurrent",
		Total:           total,
		FraudulentCount: fraudulent,
		MockMode:        mock,
		RequestedAt:     at,
	}
}

func TestRunStoreSummary(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveRun(ctx, run("r1", false, 100, 7, base)))
	require.NoError(t, store.SaveRun(ctx, run("r2", false, 50, 3, base.Add(time.Hour))))
	require.NoError(t, store.SaveRun(ctx, run("r3", true, 10, 4, base.Add(2*time.Hour))))

	summary, err := store.GetRunsSummary(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.Summary{TotalRuns: 2, TotalTransactions: 150, TotalFraudulent: 10}, summary.RemoteSummary)
	assert.Equal(t, models.Summary{TotalRuns: 1, TotalTransactions: 10, TotalFraudulent: 4}, summary.MockSummary)

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	summary, err = store.GetRunsSummary(ctx, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, models.Summary{TotalRuns: 1, TotalTransactions: 50, TotalFraudulent: 3}, summary.RemoteSummary)
	assert.Zero(t, summary.MockSummary)
}

func TestRunStoreSaveOverwritesSameRun(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.SaveRun(ctx, run("r1", false, 10, 1, now)))
	require.NoError(t, store.SaveRun(ctx, run("r1", false, 20, 2, now)))

	keys, err := mr.HKeys(runsKey)
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	summary, err := store.GetRunsSummary(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, summary.RemoteSummary.TotalTransactions)
}

func TestRunStorePurge(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, run("r1", true, 5, 5, time.Now().UTC())))
	require.NoError(t, store.PurgeRuns(ctx))
	assert.False(t, mr.Exists(runsKey))

	summary, err := store.GetRunsSummary(ctx, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, *summary)
}

func TestRunStoreCorruptEntry(t *testing.T) {
	store, mr := newTestStore(t)

	mr.HSet(runsKey, "bad", "{not json")

	_, err := store.GetRunsSummary(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestRunStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	store := NewRunStore(rdb)
	err = store.SaveRun(context.Background(), run("r1", false, 1, 0, time.Now()))
	require.Error(t, err)
}
