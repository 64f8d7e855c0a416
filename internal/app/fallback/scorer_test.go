package fallback

import (
	"francoggm/antiscam-scoring/internal/models"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func record(amount int64, loginAttempts int) models.TransactionRecord {
	return models.TransactionRecord{
		ID:            "TXN0001",
		Amount:        decimal.NewFromInt(amount),
		Duration:      decimal.NewFromInt(30),
		LoginAttempts: loginAttempts,
		Balance:       decimal.NewFromInt(10000),
		Age:           40,
	}
}

func TestIsFraud(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		amount        int64
		loginAttempts int
		want          bool
	}{
		{name: "scenario_a", amount: 9800, loginAttempts: 4, want: true},
		{name: "scenario_b", amount: 500, loginAttempts: 1, want: false},
		{name: "amount_only", amount: 5001, loginAttempts: 0, want: true},
		{name: "amount_at_threshold", amount: 5000, loginAttempts: 3, want: false},
		{name: "logins_only", amount: 10, loginAttempts: 4, want: true},
		{name: "zero", amount: 0, loginAttempts: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsFraud(record(tt.amount, tt.loginAttempts)))
		})
	}
}

func TestScoreBands(t *testing.T) {
	t.Parallel()

	scorer := NewSeeded(42)
	for i := 0; i < 2000; i++ {
		flagged := scorer.Score(record(9800, 4))
		require.True(t, flagged.Fraud)
		require.GreaterOrEqual(t, flagged.Score, 0.65)
		require.Less(t, flagged.Score, 0.95)
		require.Equal(t, models.ProvenanceFallback, flagged.Provenance)

		clean := scorer.Score(record(500, 1))
		require.False(t, clean.Fraud)
		require.GreaterOrEqual(t, clean.Score, 0.05)
		require.Less(t, clean.Score, 0.45)
	}
}

func TestScoreBandEdges(t *testing.T) {
	t.Parallel()

	low := New(fixedSource(0))
	assert.Equal(t, 0.65, low.Score(record(9800, 4)).Score)
	assert.Equal(t, 0.05, low.Score(record(500, 1)).Score)

	high := New(fixedSource(0.9999999999))
	assert.Less(t, high.Score(record(9800, 4)).Score, 0.95)
	assert.Less(t, high.Score(record(500, 1)).Score, 0.45)
}

func TestSeededScorerIsReproducible(t *testing.T) {
	t.Parallel()

	a, b := NewSeeded(7), NewSeeded(7)
	for i := 0; i < 50; i++ {
		rec := record(int64(i*300), i%6)
		assert.Equal(t, a.Score(rec), b.Score(rec))
	}
}

func TestScorerConcurrentUse(t *testing.T) {
	t.Parallel()

	scorer := NewSeeded(1)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := scorer.Score(record(9800, 0))
				assert.True(t, got.Fraud)
			}
		}()
	}
	wg.Wait()
}

func TestNilSourceUsesGlobalGenerator(t *testing.T) {
	t.Parallel()

	got := New(nil).Score(record(100, 0))
	assert.False(t, got.Fraud)
	assert.GreaterOrEqual(t, got.Score, 0.05)
	assert.Less(t, got.Score, 0.45)
}
