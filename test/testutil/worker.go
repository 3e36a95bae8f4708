package testutil

import (
	"context"

	"github.com/hibiken/asynq"

	workerHandler "github.com/fhuszti/talkcart-medias-go/internal/handler/worker"
	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/task"
	mediaSvc "github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
)

// StartWorker starts an asynq worker processing delete tasks against backend.
// It returns a function to gracefully shut down the worker.
func StartWorker(backend port.StorageBackend, redisAddr string) func() {
	deleteSvc := mediaSvc.NewMediaDeleter(backend)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeDeleteMedia, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseDeleteMediaPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.DeleteMediaHandler(ctx, p, deleteSvc)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	if err := srv.Start(mux); err != nil {
		logger.Errorf(context.Background(), "worker stopped: %v", err)
	}

	return func() {
		srv.Shutdown()
	}
}
