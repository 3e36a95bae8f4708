package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

const BackendCloudinary = "cloudinary"

type CloudinaryStorage struct {
	client    cloudinaryClient
	namespace string
	newName   NameFunc
}

// compile-time check: *CloudinaryStorage must satisfy port.StorageBackend
var _ port.StorageBackend = (*CloudinaryStorage)(nil)

func NewCloudinaryStorage(ctx context.Context, cloudName, apiKey, apiSecret, namespace string) (*CloudinaryStorage, error) {
	logger.Info(ctx, "initialising cloudinary client...")

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, permanent(BackendCloudinary, "init", err)
	}
	return &CloudinaryStorage{
		client:    &cld.Upload,
		namespace: strings.Trim(namespace, "/"),
		newName:   DefaultName,
	}, nil
}

func (s *CloudinaryStorage) Name() string {
	return BackendCloudinary
}

func (s *CloudinaryStorage) Store(ctx context.Context, req port.StoreRequest) (port.StoredObject, error) {
	ext, body, err := resolveExtension(req.Body, req.Filename, req.MimeType)
	if err != nil {
		return port.StoredObject{}, permanent(BackendCloudinary, "store", err)
	}

	name := s.newName()
	logger.Infof(ctx, "uploading %q to cloudinary folder %q...", name, s.namespace)

	res, err := s.client.Upload(ctx, body, uploader.UploadParams{
		PublicID:     name,
		Folder:       s.namespace,
		ResourceType: "auto",
	})
	if err != nil {
		return port.StoredObject{}, classify(BackendCloudinary, "store", err)
	}
	if res == nil {
		return port.StoredObject{}, transient(BackendCloudinary, "store", errors.New("empty upload response"))
	}
	if res.Error.Message != "" {
		return port.StoredObject{}, mapCloudinaryMessage("store", res.Error.Message)
	}

	format := res.Format
	if format == "" {
		format = strings.TrimPrefix(ext, ".")
	}

	out := port.StoredObject{
		PublicID:  res.PublicID,
		URL:       res.URL,
		SecureURL: res.SecureURL,
		Format:    format,
	}
	if out.SecureURL == "" {
		out.SecureURL = out.URL
	}
	if res.ResourceType == string(model.ResourceKindVideo) || req.Kind == model.ResourceKindVideo {
		out.ThumbnailURL = VideoThumbnailURL(out.SecureURL)
	}
	return out, nil
}

// Delete tries every resource type a public id may live under.
func (s *CloudinaryStorage) Delete(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return permanent(BackendCloudinary, "delete", ErrInvalidKey)
	}
	logger.Infof(ctx, "removing %q from cloudinary...", publicID)

	for _, rt := range []string{"image", "video", "raw"} {
		res, err := s.client.Destroy(ctx, uploader.DestroyParams{PublicID: publicID, ResourceType: rt})
		if err != nil {
			return classify(BackendCloudinary, "delete", err)
		}
		if res == nil {
			continue
		}
		if res.Error.Message != "" {
			return mapCloudinaryMessage("delete", res.Error.Message)
		}
		if res.Result == "ok" {
			return nil
		}
	}

	logger.Warnf(ctx, "⚠️  %q was not found on cloudinary", publicID)
	return nil
}

// VideoThumbnailURL derives a poster frame URL from a delivered video URL using a
// URL transform. It returns "" for URLs that are not video deliveries.
func VideoThumbnailURL(videoURL string) string {
	const marker = "/video/upload/"
	idx := strings.Index(videoURL, marker)
	if idx < 0 {
		return ""
	}
	rest := videoURL[idx+len(marker):]
	if q := strings.IndexAny(rest, "?#"); q >= 0 {
		rest = rest[:q]
	}
	if ext := filepath.Ext(rest); ext != "" {
		rest = strings.TrimSuffix(rest, ext)
	}
	return fmt.Sprintf("%s%sso_0/%s.jpg", videoURL[:idx], marker, rest)
}
