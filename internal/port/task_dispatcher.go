package port

import (
	"context"
)

// TaskDispatcher enqueues asynchronous storage tasks.
type TaskDispatcher interface {
	EnqueueDeleteMedia(ctx context.Context, publicID string) error
}
