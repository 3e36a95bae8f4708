package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/storage"
	"github.com/fhuszti/talkcart-medias-go/internal/task"
	"github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
)

// DeleteMediaHandler handles a delete-media task.
// Only transient storage failures are handed back to asynq for a retry.
func DeleteMediaHandler(ctx context.Context, p task.DeleteMediaPayload, svc port.MediaDeleter) error {
	err := svc.DeleteMedia(ctx, p.PublicID)
	switch {
	case err == nil:
		logger.Infof(ctx, "✅  Successfully deleted media %q", p.PublicID)
		return nil
	case errors.Is(err, media.ErrInvalidPublicID):
		logger.Errorf(ctx, "❌  Invalid public id %q: %v", p.PublicID, err)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	case storage.IsTransient(err):
		logger.Warnf(ctx, "⚠️  Failed to delete media %q, will retry: %v", p.PublicID, err)
		return err
	default:
		logger.Errorf(ctx, "❌  Failed to delete media %q: %v", p.PublicID, err)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
}
