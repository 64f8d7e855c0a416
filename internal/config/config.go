package config

import (
	"fmt"
	"francoggm/antiscam-scoring/internal/app/scoring"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	App
	Cache
	Workers
	Server
	Scoring scoring.Config
}

type App struct {
	Env      string
	LogLevel string
	// RandomSeed seeds the fallback scorer. Zero means a time-seeded source.
	RandomSeed uint64
}

type Cache struct {
	Host     string
	Port     string
	Password string
}

type Workers struct {
	RunCount      int
	RunBufferSize int
}

type Server struct {
	Port string
}

// env mirrors the process environment one key per field.
type env struct {
	AppEnv   string `mapstructure:"APP_ENV" validate:"oneof=development production test"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	CacheHost     string `mapstructure:"CACHE_HOST" validate:"required"`
	CachePort     string `mapstructure:"CACHE_PORT" validate:"required,numeric"`
	CachePassword string `mapstructure:"CACHE_PASSWORD"`

	RunWorkersCount      int `mapstructure:"RUN_WORKERS_COUNT" validate:"min=1"`
	RunWorkersBufferSize int `mapstructure:"RUN_WORKERS_EVENTS_BUFFER_SIZE" validate:"min=1"`

	ServerPort string `mapstructure:"SERVER_PORT" validate:"required,numeric"`

	Endpoint            string        `mapstructure:"AZURE_ML_ENDPOINT" validate:"omitempty,url"`
	APIKey              string        `mapstructure:"AZURE_ML_API_KEY"`
	Strategy            string        `mapstructure:"SCORING_STRATEGY" validate:"oneof=per_item_sync per_item_concurrent whole_batch"`
	BatchSize           int           `mapstructure:"SCORING_BATCH_SIZE" validate:"min=1"`
	MaxConcurrency      int           `mapstructure:"SCORING_MAX_CONCURRENCY" validate:"min=1"`
	ItemTimeout         time.Duration `mapstructure:"SCORING_ITEM_TIMEOUT" validate:"gt=0"`
	BatchTimeout        time.Duration `mapstructure:"SCORING_BATCH_TIMEOUT" validate:"gt=0"`
	ResponseKeys        string        `mapstructure:"SCORING_RESPONSE_KEYS" validate:"oneof=auto standard alternate"`
	WholeBatchThreshold int           `mapstructure:"SCORING_WHOLE_BATCH_THRESHOLD" validate:"min=0"`
	RandomSeed          uint64        `mapstructure:"SCORING_RANDOM_SEED"`
}

var defaults = map[string]any{
	"APP_ENV":                        "development",
	"LOG_LEVEL":                      "",
	"CACHE_HOST":                     "localhost",
	"CACHE_PORT":                     "6379",
	"CACHE_PASSWORD":                 "",
	"RUN_WORKERS_COUNT":              5,
	"RUN_WORKERS_EVENTS_BUFFER_SIZE": 100,
	"SERVER_PORT":                    "8080",
	"AZURE_ML_ENDPOINT":              "",
	"AZURE_ML_API_KEY":               "",
	"SCORING_STRATEGY":               string(scoring.StrategyPerItemConcurrent),
	"SCORING_BATCH_SIZE":             scoring.DefaultBatchSize,
	"SCORING_MAX_CONCURRENCY":        scoring.DefaultMaxConcurrency,
	"SCORING_ITEM_TIMEOUT":           scoring.DefaultItemTimeout,
	"SCORING_BATCH_TIMEOUT":          scoring.DefaultBatchTimeout,
	"SCORING_RESPONSE_KEYS":          string(scoring.KeysAuto),
	"SCORING_WHOLE_BATCH_THRESHOLD":  0,
	"SCORING_RANDOM_SEED":            0,
}

// NewConfig reads the environment once and rejects invalid values, so nothing downstream
// has to re-validate.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var e env
	if err := v.Unmarshal(&e); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	e.Endpoint = strings.TrimSpace(e.Endpoint)

	if err := validator.New().Struct(&e); err != nil {
		return nil, formatErrors(err)
	}

	cfg := &Config{
		App: App{
			Env:        e.AppEnv,
			LogLevel:   e.LogLevel,
			RandomSeed: e.RandomSeed,
		},
		Cache: Cache{
			Host:     e.CacheHost,
			Port:     e.CachePort,
			Password: e.CachePassword,
		},
		Workers: Workers{
			RunCount:      e.RunWorkersCount,
			RunBufferSize: e.RunWorkersBufferSize,
		},
		Server: Server{
			Port: e.ServerPort,
		},
		Scoring: scoring.Config{
			Endpoint:            e.Endpoint,
			APIKey:              e.APIKey,
			Strategy:            scoring.Strategy(e.Strategy),
			BatchSize:           e.BatchSize,
			MaxConcurrency:      e.MaxConcurrency,
			ItemTimeout:         e.ItemTimeout,
			BatchTimeout:        e.BatchTimeout,
			ResponseKeys:        scoring.ResponseKeys(e.ResponseKeys),
			WholeBatchThreshold: e.WholeBatchThreshold,
		},
	}

	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func formatErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
