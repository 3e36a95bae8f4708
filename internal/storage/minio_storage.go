package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

const BackendMinio = "minio"

// anonymous read on the namespace prefix so stored URLs are directly fetchable
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/%s/*"]}]}`

type MinioStorage struct {
	client     minioClient
	bucketName string
	namespace  string
	publicURL  *url.URL
	newName    NameFunc
}

// compile-time check: *MinioStorage must satisfy port.StorageBackend
var _ port.StorageBackend = (*MinioStorage)(nil)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Namespace string
	// PublicURL overrides the endpoint in generated URLs, e.g. a CDN in front of the bucket.
	PublicURL string
}

func NewMinioStorage(ctx context.Context, cfg MinioConfig) (*MinioStorage, error) {
	logger.Info(ctx, "initialising minio client...")
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, mapMinioErr("init", err)
	}
	return newMinioStorage(ctx, client, cfg)
}

func newMinioStorage(ctx context.Context, client minioClient, cfg MinioConfig) (*MinioStorage, error) {
	s := &MinioStorage{
		client:     client,
		bucketName: cfg.Bucket,
		namespace:  strings.Trim(cfg.Namespace, "/"),
		newName:    DefaultName,
	}

	if cfg.PublicURL != "" {
		u, err := url.Parse(strings.TrimRight(cfg.PublicURL, "/"))
		if err != nil {
			return nil, permanent(BackendMinio, "init", fmt.Errorf("invalid public url %q: %w", cfg.PublicURL, err))
		}
		s.publicURL = u
	} else {
		endpoint := *client.EndpointURL()
		s.publicURL = &endpoint
	}

	if err := s.initBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinioStorage) initBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return mapMinioErr("init", err)
	}
	if ok {
		return nil
	}

	logger.Infof(ctx, "bucket %q does not exist, creating it...", s.bucketName)
	if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
		return mapMinioErr("init", err)
	}
	policy := fmt.Sprintf(publicReadPolicy, s.bucketName, s.namespace)
	if err := s.client.SetBucketPolicy(ctx, s.bucketName, policy); err != nil {
		return mapMinioErr("init", err)
	}
	return nil
}

func (s *MinioStorage) Name() string {
	return BackendMinio
}

func (s *MinioStorage) Store(ctx context.Context, req port.StoreRequest) (port.StoredObject, error) {
	ext, body, err := resolveExtension(req.Body, req.Filename, req.MimeType)
	if err != nil {
		return port.StoredObject{}, permanent(BackendMinio, "store", err)
	}

	key := objectKey(s.namespace, s.newName()+ext)
	logger.Infof(ctx, "saving file %q into bucket %q...", key, s.bucketName)

	opts := minio.PutObjectOptions{ContentType: req.MimeType}
	size := req.Size
	if size <= 0 {
		size = -1
	}
	if _, err := s.client.PutObject(ctx, s.bucketName, key, body, size, opts); err != nil {
		return port.StoredObject{}, mapMinioErr("store", err)
	}

	u := s.objectURL(key)
	return port.StoredObject{
		PublicID:  key,
		URL:       u,
		SecureURL: u,
		Format:    strings.TrimPrefix(ext, "."),
	}, nil
}

func (s *MinioStorage) Delete(ctx context.Context, publicID string) error {
	key := strings.TrimPrefix(publicID, "/")
	if key == "" || strings.Contains(key, "..") {
		return permanent(BackendMinio, "delete", ErrInvalidKey)
	}
	logger.Infof(ctx, "removing file %q from bucket %q...", key, s.bucketName)

	err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{})
	return mapMinioErr("delete", err)
}

func (s *MinioStorage) objectURL(key string) string {
	u := *s.publicURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + s.bucketName + "/" + key
	u.RawPath = ""
	return u.String()
}
