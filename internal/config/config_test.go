package config

import (
	"francoggm/antiscam-scoring/internal/app/scoring"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "localhost", cfg.Cache.Host)
	assert.Equal(t, "6379", cfg.Cache.Port)
	assert.Equal(t, 5, cfg.Workers.RunCount)
	assert.Equal(t, 100, cfg.Workers.RunBufferSize)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Zero(t, cfg.App.RandomSeed)

	assert.Equal(t, scoring.DefaultConfig(), cfg.Scoring)
	assert.True(t, cfg.Scoring.MockMode())
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("AZURE_ML_ENDPOINT", " https://ml.example.com/score ")
	t.Setenv("AZURE_ML_API_KEY", "secret")
	t.Setenv("SCORING_STRATEGY", "whole_batch")
	t.Setenv("SCORING_BATCH_SIZE", "25")
	t.Setenv("SCORING_MAX_CONCURRENCY", "8")
	t.Setenv("SCORING_ITEM_TIMEOUT", "3s")
	t.Setenv("SCORING_BATCH_TIMEOUT", "1m")
	t.Setenv("SCORING_RESPONSE_KEYS", "alternate")
	t.Setenv("SCORING_WHOLE_BATCH_THRESHOLD", "20")
	t.Setenv("SCORING_RANDOM_SEED", "42")
	t.Setenv("CACHE_HOST", "redis")
	t.Setenv("CACHE_PASSWORD", "pw")
	t.Setenv("RUN_WORKERS_COUNT", "2")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, scoring.Config{
		Endpoint:            "https://ml.example.com/score",
		APIKey:              "secret",
		Strategy:            scoring.StrategyWholeBatch,
		BatchSize:           25,
		MaxConcurrency:      8,
		ItemTimeout:         3 * time.Second,
		BatchTimeout:        time.Minute,
		ResponseKeys:        scoring.KeysAlternate,
		WholeBatchThreshold: 20,
	}, cfg.Scoring)
	assert.False(t, cfg.Scoring.MockMode())

	assert.Equal(t, uint64(42), cfg.App.RandomSeed)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "redis", cfg.Cache.Host)
	assert.Equal(t, "pw", cfg.Cache.Password)
	assert.Equal(t, 2, cfg.Workers.RunCount)
	assert.Equal(t, "9999", cfg.Server.Port)
}

func TestNewConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "SCORING_STRATEGY", value: "round_robin"},
		{key: "SCORING_BATCH_SIZE", value: "0"},
		{key: "SCORING_MAX_CONCURRENCY", value: "-1"},
		{key: "SCORING_RESPONSE_KEYS", value: "legacy"},
		{key: "SCORING_ITEM_TIMEOUT", value: "0s"},
		{key: "SCORING_WHOLE_BATCH_THRESHOLD", value: "-5"},
		{key: "AZURE_ML_ENDPOINT", value: "not a url"},
		{key: "SERVER_PORT", value: "http"},
		{key: "APP_ENV", value: "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := NewConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid")
		})
	}
}
