package port

import (
	"context"
	"time"
)

// Cache stores the rendered media list of a document together with its ETag.
type Cache interface {
	GetDocumentMedia(ctx context.Context, collection, id string) ([]byte, error)
	GetEtagDocumentMedia(ctx context.Context, collection, id string) (string, error)
	SetDocumentMedia(ctx context.Context, collection, id string, data []byte, ttl time.Duration)
	SetEtagDocumentMedia(ctx context.Context, collection, id string, etag string, ttl time.Duration)
	DeleteDocumentMedia(ctx context.Context, collection, id string) error
	DeleteEtagDocumentMedia(ctx context.Context, collection, id string) error
}
