package port

import (
	"context"

	"github.com/fhuszti/talkcart-medias-go/internal/model"
)

// DocumentRepository reads and rewrites the media array embedded in posts and messages.
type DocumentRepository interface {
	GetByID(ctx context.Context, collection, id string) (*model.Document, error)
	// ForEachWithMedia streams every document of collection that has a non-empty
	// media array. Iteration stops at the first error returned by fn.
	ForEachWithMedia(ctx context.Context, collection string, fn func(model.Document) error) error
	// UpdateMediaURLs rewrites url and secure_url of the listed media items in place.
	// Every other field of the document and of its media items is left untouched.
	UpdateMediaURLs(ctx context.Context, collection, id string, fixes []MediaURLFix) error
}

// MediaURLFix targets the media item at Index, which must still carry PublicID.
type MediaURLFix struct {
	Index    int
	PublicID string
	URL      string
}
