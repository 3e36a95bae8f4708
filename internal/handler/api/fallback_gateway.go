package api

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/metrics"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/resolver"
)

const (
	OutcomeDirect      = "direct"
	OutcomeNearMatch   = "near_match"
	OutcomePlaceholder = "placeholder"
	OutcomeNotFound    = "not_found"
	OutcomeRejected    = "rejected"
)

// FallbackGatewayHandler serves files under prefix. A missing file is answered with a
// redirect to the resolver's candidate, or a JSON 404 when there is none.
func FallbackGatewayHandler(res port.FileResolver, prefix string, rec *metrics.Recorder) http.HandlerFunc {
	prefix = "/" + strings.Trim(prefix, "/")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rel := strings.TrimPrefix(r.URL.Path, prefix+"/")
		if rel == r.URL.Path || rel == "" {
			rec.GatewayOutcome(OutcomeNotFound)
			WriteError(w, http.StatusNotFound, "Media not found", nil)
			return
		}

		found, err := res.Resolve(ctx, rel)
		if err != nil {
			if errors.Is(err, resolver.ErrOutsideRoot) {
				rec.GatewayOutcome(OutcomeRejected)
			} else {
				rec.GatewayOutcome(OutcomeNotFound)
			}
			if !errors.Is(err, resolver.ErrNotFound) && !errors.Is(err, resolver.ErrOutsideRoot) {
				logger.Errorf(ctx, "❌  resolving %s: %v", rel, err)
			}
			WriteError(w, http.StatusNotFound, "Media not found", nil)
			return
		}

		if found.Outcome == resolver.OutcomeExact {
			if serveFile(w, r, found.AbsPath) {
				rec.GatewayOutcome(OutcomeDirect)
				return
			}
			rec.GatewayOutcome(OutcomeNotFound)
			WriteError(w, http.StatusNotFound, "Media not found", nil)
			return
		}

		outcome := OutcomeNearMatch
		if found.Substitute {
			outcome = OutcomePlaceholder
		}
		rec.GatewayOutcome(outcome)

		location := prefix + "/" + escapePath(found.RelPath)
		w.Header().Set("Cache-Control", "no-store")
		http.Redirect(w, r, location, http.StatusFound)
		logger.Infof(ctx, "↪️  %s redirected to %s (%s)", rel, location, outcome)
	}
}

// serveFile streams a regular file with range and conditional request support.
func serveFile(w http.ResponseWriter, r *http.Request, abs string) bool {
	f, err := os.Open(abs)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, filepath.Base(abs), info.ModTime(), f)
	return true
}

func escapePath(rel string) string {
	segs := strings.Split(rel, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
