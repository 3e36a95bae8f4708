package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/normaliser"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

type uploadIngestorSrv struct {
	backend  port.StorageBackend
	norm     *normaliser.Normaliser
	policies map[UploadClass]uploadPolicy
}

// compile-time check: *uploadIngestorSrv must satisfy port.UploadIngestor
var _ port.UploadIngestor = (*uploadIngestorSrv)(nil)

// NewUploadIngestor constructs an UploadIngestor writing to the given backend.
func NewUploadIngestor(backend port.StorageBackend, norm *normaliser.Normaliser, limits UploadLimits) port.UploadIngestor {
	return &uploadIngestorSrv{backend: backend, norm: norm, policies: limits.policies()}
}

// Ingest validates the upload against its class, stores it and returns the
// normalised reference the caller persists.
func (s *uploadIngestorSrv) Ingest(ctx context.Context, in port.UploadInput) (model.MediaReference, error) {
	class, ok := ParseUploadClass(in.Class)
	if !ok {
		return model.MediaReference{}, &UploadError{Class: class, Err: ErrInvalidUploadClass}
	}
	policy := s.policies[class]

	mimeType := baseMimeType(in.MimeType)
	if _, ok := policy.allowed[mimeType]; !ok {
		return model.MediaReference{}, &UploadError{Class: class, MimeType: mimeType, Err: ErrUnsupportedMimeType}
	}
	if in.Size <= 0 || in.Body == nil {
		return model.MediaReference{}, &UploadError{Class: class, MimeType: mimeType, Err: ErrEmptyFile}
	}
	if policy.maxBytes > 0 && in.Size > policy.maxBytes {
		return model.MediaReference{}, &UploadError{Class: class, MimeType: mimeType, Size: in.Size, Limit: policy.maxBytes, Err: ErrFileTooLarge}
	}

	kind := model.KindFromMimeType(mimeType)
	obj, err := s.backend.Store(ctx, port.StoreRequest{
		Body:     in.Body,
		Size:     in.Size,
		Filename: in.Filename,
		MimeType: mimeType,
		Kind:     kind,
		Scheme:   in.Scheme,
		Host:     in.Host,
	})
	if err != nil {
		return model.MediaReference{}, fmt.Errorf("store %s upload: %w", class, err)
	}

	ref := s.norm.NormaliseReference(model.MediaReference{
		PublicID:     obj.PublicID,
		URL:          obj.URL,
		SecureURL:    obj.SecureURL,
		ResourceKind: kind,
		Format:       strings.TrimPrefix(obj.Format, "."),
		ThumbnailURL: obj.ThumbnailURL,
	})
	if !isAbsolute(ref.PreferredURL()) {
		return model.MediaReference{}, errors.New("storage backend returned no usable url")
	}

	logger.Infof(ctx, "✅ stored %s upload %s on %s", kind, ref.PublicID, s.backend.Name())
	return ref, nil
}

func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://")
}
