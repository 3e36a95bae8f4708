package port

import (
	"context"
)

// HTTPRenderer mediates between HTTP handlers and the document media use case.
// It returns the JSON representation of the result and an ETag derived from it.
type HTTPRenderer interface {
	// RenderDocumentMedia returns the cached JSON result and its ETag if available or
	// executes the underlying use case and caches the output otherwise.
	RenderDocumentMedia(ctx context.Context, lister DocumentMediaLister, in DocumentMediaInput) ([]byte, string, error)
}
