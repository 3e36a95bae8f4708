package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

type httpRenderer struct {
	cache port.Cache
	ttl   time.Duration
}

// compile-time check: *httpRenderer must satisfy port.HTTPRenderer
var _ port.HTTPRenderer = (*httpRenderer)(nil)

// NewHTTPRenderer creates a port.HTTPRenderer whose cache entries live for ttl.
func NewHTTPRenderer(cache port.Cache, ttl time.Duration) port.HTTPRenderer {
	return &httpRenderer{cache: cache, ttl: ttl}
}

// RenderDocumentMedia fetches a document's media either from cache or from the
// wrapped use case. It returns the JSON encoded output and a quoted ETag string.
func (r *httpRenderer) RenderDocumentMedia(ctx context.Context, lister port.DocumentMediaLister, in port.DocumentMediaInput) ([]byte, string, error) {
	raw, err := r.cache.GetDocumentMedia(ctx, in.Collection, in.ID)
	etag, errEtag := r.cache.GetEtagDocumentMedia(ctx, in.Collection, in.ID)
	if err == nil && errEtag == nil && raw != nil && etag != "" {
		return raw, etag, nil
	}

	out, err := lister.ListDocumentMedia(ctx, in)
	if err != nil {
		return nil, "", err
	}

	raw, err = json.Marshal(out)
	if err != nil {
		return nil, "", fmt.Errorf("json marshal: %w", err)
	}

	etag = ETag(raw)
	r.cache.SetDocumentMedia(ctx, in.Collection, in.ID, raw, r.ttl)
	r.cache.SetEtagDocumentMedia(ctx, in.Collection, in.ID, etag, r.ttl)

	return raw, etag, nil
}

// ETag is the quoted CRC32 of a rendered body.
func ETag(raw []byte) string {
	return fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))
}
