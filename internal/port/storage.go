package port

import (
	"context"
	"io"

	"github.com/fhuszti/talkcart-medias-go/internal/model"
)

// StoreRequest carries one uploaded payload to a storage backend.
type StoreRequest struct {
	Body     io.Reader
	Size     int64
	Filename string
	MimeType string
	Kind     model.ResourceKind
	// Scheme and Host of the incoming request; the local backend builds its URLs from them.
	Scheme string
	Host   string
}

// StoredObject is what a backend reports after persisting a payload.
type StoredObject struct {
	PublicID     string
	URL          string
	SecureURL    string
	Format       string
	ThumbnailURL string
}

// StorageBackend persists uploaded bytes. Exactly one implementation is selected at
// process start.
type StorageBackend interface {
	Store(ctx context.Context, req StoreRequest) (StoredObject, error)
	Delete(ctx context.Context, publicID string) error
	Name() string
}
