package main

import (
	"context"
	"errors"
	"fmt"
	"francoggm/antiscam-scoring/internal/app/dispatcher"
	"francoggm/antiscam-scoring/internal/app/fallback"
	"francoggm/antiscam-scoring/internal/app/server"
	"francoggm/antiscam-scoring/internal/app/storage"
	"francoggm/antiscam-scoring/internal/app/workers"
	"francoggm/antiscam-scoring/internal/app/workers/processors"
	"francoggm/antiscam-scoring/internal/config"
	"francoggm/antiscam-scoring/internal/observability"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cacheOpts := redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Cache.Host, cfg.Cache.Port),
		Password:     cfg.Cache.Password,
		DB:           0,
		PoolSize:     cfg.Workers.RunCount,
		MinIdleConns: 1,
	}

	rdb := redis.NewClient(&cacheOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("cache_unreachable", zap.String("addr", cacheOpts.Addr), zap.Error(err))
	}
	defer rdb.Close()

	// Worker queues
	runEventsCh := make(chan any, cfg.Workers.RunBufferSize)

	// Services
	runStore := storage.NewRunStore(rdb)

	fallbackScorer := fallback.New(nil)
	if cfg.App.RandomSeed != 0 {
		fallbackScorer = fallback.NewSeeded(cfg.App.RandomSeed)
	}
	scoringDispatcher := dispatcher.New(fallbackScorer, dispatcher.WithObserver(observability.NewDispatchObserver(logger)))

	// Worker orchestrators
	runOrchestrator := workers.NewOrchestrator(cfg.Workers.RunCount, runEventsCh, processors.NewRunProcessor(runStore), logger)
	runOrchestrator.StartWorkers(ctx)

	srv := server.NewServer(cfg, scoringDispatcher, runStore, runEventsCh, logger)

	go func() {
		logger.Info("server_started",
			zap.String("port", cfg.Server.Port),
			zap.String("strategy", string(cfg.Scoring.Strategy)),
			zap.Bool("ml_mock_mode", cfg.Scoring.MockMode()),
		)
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server_error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting_down")

	// In-flight dispatches finish within the batch timeout.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Scoring.BatchTimeout+5*time.Second)
	defer shutdownCancel()
	shutdownErr := srv.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		logger.Error("shutdown_error", zap.Error(shutdownErr))
	}

	stopRunWorkers(shutdownErr, cancel, runEventsCh, runOrchestrator)
}

// stopRunWorkers closes the run queue only after a clean shutdown, when no handler can
// enqueue anymore, and lets the workers drain it. After a failed shutdown handlers may
// still be running, so the queue stays open and the workers are canceled instead.
func stopRunWorkers(shutdownErr error, cancel context.CancelFunc, runEventsCh chan any, orchestrator *workers.Orchestrator) {
	if shutdownErr != nil {
		cancel()
	} else {
		close(runEventsCh)
	}

	orchestrator.Wait()
}
