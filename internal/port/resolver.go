package port

import (
	"context"

	"github.com/fhuszti/talkcart-medias-go/internal/resolver"
)

// FileResolver finds the best available local file for an upload-root relative path.
type FileResolver interface {
	Resolve(ctx context.Context, rel string) (resolver.Resolution, error)
}
