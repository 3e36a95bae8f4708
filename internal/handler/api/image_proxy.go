package api

import (
	"bytes"
	_ "embed"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/resolver"
	"github.com/fhuszti/talkcart-medias-go/internal/validation"
)

//go:embed assets/placeholder.png
var defaultProxyPlaceholder []byte

// DefaultProxyPlaceholder returns the image served for truncated files.
func DefaultProxyPlaceholder() []byte {
	return defaultProxyPlaceholder
}

type ImageProxyRequest struct {
	Path string `json:"path" validate:"required,max=2048,relpath"`
}

// ProxyConfig configures the image proxy. Files smaller than MinBytes are replaced
// by Placeholder.
type ProxyConfig struct {
	PathPrefix  string
	MinBytes    int64
	Placeholder []byte
}

// ImageProxyHandler serves an upload by relative or absolute path with permissive
// CORS headers, going through the same resolver chain as the static path.
func ImageProxyHandler(res port.FileResolver, cfg ProxyConfig) http.HandlerFunc {
	marker := "/" + strings.Trim(cfg.PathPrefix, "/") + "/"
	placeholder := cfg.Placeholder
	if len(placeholder) == 0 {
		placeholder = defaultProxyPlaceholder
	}
	placeholderType := mimetype.Detect(placeholder).String()
	startedAt := time.Now()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		setProxyHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		req := ImageProxyRequest{Path: r.URL.Query().Get("path")}
		if errs := validation.ValidateStruct(req); errs != nil {
			WriteValidationError(w, errs)
			return
		}

		rel := proxyRelPath(req.Path, marker)
		found, err := res.Resolve(ctx, rel)
		switch {
		case errors.Is(err, resolver.ErrOutsideRoot):
			WriteError(w, http.StatusBadRequest, "Invalid image path", nil)
			return
		case err != nil:
			if !errors.Is(err, resolver.ErrNotFound) {
				logger.Errorf(ctx, "❌  resolving %s: %v", rel, err)
			}
			WriteError(w, http.StatusNotFound, "Image not found", nil)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		if found.Size < cfg.MinBytes {
			logger.Warnf(ctx, "⚠️  %s is only %d bytes, serving placeholder", found.RelPath, found.Size)
			w.Header().Set("Content-Type", placeholderType)
			http.ServeContent(w, r, "placeholder", startedAt, bytes.NewReader(placeholder))
			return
		}

		if !serveFile(w, r, found.AbsPath) {
			WriteError(w, http.StatusNotFound, "Image not found", nil)
		}
	}
}

// proxyRelPath keeps what follows the upload marker of an absolute URL or path.
func proxyRelPath(raw, marker string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	if i := strings.Index(p, marker); i >= 0 {
		return p[i+len(marker):]
	}
	return strings.TrimPrefix(p, "/")
}

func setProxyHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	h.Set("Cross-Origin-Resource-Policy", "cross-origin")
}
