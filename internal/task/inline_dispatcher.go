package task

import (
	"context"

	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

// InlineDispatcher runs tasks synchronously when no queue is configured.
type InlineDispatcher struct {
	deleter port.MediaDeleter
}

var _ port.TaskDispatcher = (*InlineDispatcher)(nil)

func NewInlineDispatcher(deleter port.MediaDeleter) *InlineDispatcher {
	return &InlineDispatcher{deleter: deleter}
}

func (d *InlineDispatcher) EnqueueDeleteMedia(ctx context.Context, publicID string) error {
	return d.deleter.DeleteMedia(ctx, publicID)
}
