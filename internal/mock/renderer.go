package mock

import (
	"context"

	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

// HTTPRenderer implements port.HTTPRenderer for tests.
type HTTPRenderer struct {
	// stored values
	MediaOut []byte

	// etag values
	EtagMedia string

	// captured inputs
	In port.DocumentMediaInput

	// errors
	Err error

	// call flags
	Called bool
}

func (m *HTTPRenderer) RenderDocumentMedia(ctx context.Context, lister port.DocumentMediaLister, in port.DocumentMediaInput) ([]byte, string, error) {
	m.Called = true
	m.In = in
	return m.MediaOut, m.EtagMedia, m.Err
}
