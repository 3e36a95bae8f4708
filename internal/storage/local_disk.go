package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

const BackendLocal = "local"

type LocalDiskConfig struct {
	Root       string
	Namespace  string
	PathPrefix string
	// BaseURL is used when a request carries no host, e.g. "http://localhost:8000".
	BaseURL string
}

// LocalDisk stores uploads under <root>/<namespace> and serves them from
// <pathPrefix>/<namespace>.
type LocalDisk struct {
	root      string
	namespace string
	prefix    string
	baseURL   *url.URL
	newName   NameFunc
}

// compile-time check: *LocalDisk must satisfy port.StorageBackend
var _ port.StorageBackend = (*LocalDisk)(nil)

func NewLocalDisk(ctx context.Context, cfg LocalDiskConfig) (*LocalDisk, error) {
	logger.Info(ctx, "initialising local disk storage...")

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, permanent(BackendLocal, "init", err)
	}
	ns := strings.Trim(cfg.Namespace, "/")
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(ns)), 0o755); err != nil {
		return nil, permanent(BackendLocal, "init", err)
	}

	var base *url.URL
	if cfg.BaseURL != "" {
		if base, err = url.Parse(cfg.BaseURL); err != nil {
			return nil, permanent(BackendLocal, "init", fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err))
		}
	}

	prefix := "/" + strings.Trim(cfg.PathPrefix, "/")
	if prefix == "/" {
		prefix = "/uploads"
	}

	return &LocalDisk{
		root:      root,
		namespace: ns,
		prefix:    prefix,
		baseURL:   base,
		newName:   DefaultName,
	}, nil
}

func (s *LocalDisk) Name() string {
	return BackendLocal
}

func (s *LocalDisk) Store(ctx context.Context, req port.StoreRequest) (port.StoredObject, error) {
	ext, body, err := resolveExtension(req.Body, req.Filename, req.MimeType)
	if err != nil {
		return port.StoredObject{}, permanent(BackendLocal, "store", err)
	}

	name := s.newName() + ext
	publicID := objectKey(s.namespace, name)
	dir := filepath.Join(s.root, filepath.FromSlash(s.namespace))

	logger.Infof(ctx, "saving file %q into %q...", name, dir)

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return port.StoredObject{}, permanent(BackendLocal, "store", err)
	}
	defer func() {
		// no-op once renamed
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return port.StoredObject{}, permanent(BackendLocal, "store", err)
	}
	if err := tmp.Close(); err != nil {
		return port.StoredObject{}, permanent(BackendLocal, "store", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return port.StoredObject{}, permanent(BackendLocal, "store", err)
	}

	u := s.publicURL(req.Scheme, req.Host, publicID)
	return port.StoredObject{
		PublicID:  publicID,
		URL:       u,
		SecureURL: u,
		Format:    strings.TrimPrefix(ext, "."),
	}, nil
}

func (s *LocalDisk) Delete(ctx context.Context, publicID string) error {
	abs, err := s.contain(publicID)
	if err != nil {
		return permanent(BackendLocal, "delete", err)
	}

	logger.Infof(ctx, "removing file %q...", abs)

	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return permanent(BackendLocal, "delete", err)
	}
	return nil
}

func (s *LocalDisk) contain(publicID string) (string, error) {
	abs := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(publicID)))
	if !strings.HasPrefix(abs, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, publicID)
	}
	return abs, nil
}

func (s *LocalDisk) publicURL(scheme, host, publicID string) string {
	if host == "" && s.baseURL != nil {
		scheme, host = s.baseURL.Scheme, s.baseURL.Host
	}
	if scheme == "" {
		scheme = "http"
	}
	u := url.URL{Scheme: scheme, Host: host, Path: s.prefix + "/" + publicID}
	return u.String()
}

func objectKey(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}
