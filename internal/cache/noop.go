package cache

import (
	"context"
	"time"

	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetDocumentMedia(ctx context.Context, collection, id string) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) GetEtagDocumentMedia(ctx context.Context, collection, id string) (string, error) {
	return "", nil
}

func (n *NoopCache) SetDocumentMedia(ctx context.Context, collection, id string, data []byte, ttl time.Duration) {
}

func (n *NoopCache) SetEtagDocumentMedia(ctx context.Context, collection, id string, etag string, ttl time.Duration) {
}

func (n *NoopCache) DeleteDocumentMedia(ctx context.Context, collection, id string) error { return nil }

func (n *NoopCache) DeleteEtagDocumentMedia(ctx context.Context, collection, id string) error {
	return nil
}
