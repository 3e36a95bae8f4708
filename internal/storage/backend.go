package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/talkcart-medias-go/internal/config"
	"github.com/fhuszti/talkcart-medias-go/internal/metrics"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

// NewBackend builds the single backend selected by STORAGE_BACKEND.
func NewBackend(ctx context.Context, cfg *config.Settings) (port.StorageBackend, error) {
	switch cfg.StorageBackend {
	case config.BackendLocal:
		return NewLocalDisk(ctx, LocalDiskConfig{
			Root:       cfg.UploadDir,
			Namespace:  cfg.Namespace,
			PathPrefix: cfg.PathPrefix,
			BaseURL:    cfg.PublicBaseURL,
		})
	case config.BackendCloudinary:
		return NewCloudinaryStorage(ctx, cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Namespace)
	case config.BackendMinio:
		return NewMinioStorage(ctx, MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			Bucket:    cfg.Minio.Bucket,
			Namespace: cfg.Namespace,
			PublicURL: cfg.Minio.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// ObservedBackend times every call of the wrapped backend.
type ObservedBackend struct {
	next     port.StorageBackend
	recorder *metrics.Recorder
}

// compile-time check: *ObservedBackend must satisfy port.StorageBackend
var _ port.StorageBackend = (*ObservedBackend)(nil)

func NewObservedBackend(next port.StorageBackend, recorder *metrics.Recorder) *ObservedBackend {
	return &ObservedBackend{next: next, recorder: recorder}
}

func (b *ObservedBackend) Name() string {
	return b.next.Name()
}

func (b *ObservedBackend) Store(ctx context.Context, req port.StoreRequest) (port.StoredObject, error) {
	start := time.Now()
	obj, err := b.next.Store(ctx, req)
	b.recorder.StorageOperation(b.next.Name(), "store", time.Since(start), err)
	b.recorder.Upload(b.next.Name(), req.Size, err)
	return obj, err
}

func (b *ObservedBackend) Delete(ctx context.Context, publicID string) error {
	start := time.Now()
	err := b.next.Delete(ctx, publicID)
	b.recorder.StorageOperation(b.next.Name(), "delete", time.Since(start), err)
	return err
}
