package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/talkcart-medias-go/internal/config"
	workerHandler "github.com/fhuszti/talkcart-medias-go/internal/handler/worker"
	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/metrics"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/storage"
	"github.com/fhuszti/talkcart-medias-go/internal/task"
	mediaSvc "github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	recorder, err := metrics.New(nil)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to register metrics: %v", err)
		os.Exit(1)
	}

	backend := initStorage(ctx, cfg, recorder)
	deleteSvc := mediaSvc.NewMediaDeleter(backend)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeDeleteMedia, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseDeleteMediaPayload(t)
		if err != nil {
			logger.Errorf(ctx, "❌  Malformed %s task: %v", task.TypeDeleteMedia, err)
			return asynq.SkipRetry
		}
		return workerHandler.DeleteMediaHandler(ctx, p, deleteSvc)
	})

	runWorker(ctx, mux, cfg)
}

func initStorage(ctx context.Context, cfg *config.Settings, recorder *metrics.Recorder) port.StorageBackend {
	backend, err := storage.NewBackend(ctx, cfg)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialise %s storage: %v", cfg.StorageBackend, err)
		os.Exit(1)
	}
	return storage.NewObservedBackend(backend, recorder)
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{Concurrency: 10})

	if err := srv.Start(mux); err != nil {
		logger.Errorf(ctx, "❌  Worker failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stop accepting new tasks, finish in-flight ones
	srv.Shutdown()
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
