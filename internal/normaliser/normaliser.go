package normaliser

import (
	"net"
	"net/url"
	"path"
	"strings"

	"github.com/fhuszti/talkcart-medias-go/internal/model"
)

// Config holds the immutable settings the normaliser works with.
type Config struct {
	// BaseOrigin is prepended to relative references, e.g. "http://localhost:8000".
	BaseOrigin string
	// PathPrefix is the public path local uploads are served under, e.g. "/uploads".
	PathPrefix string
	// Namespace is the storage namespace directory, e.g. "talkcart".
	Namespace string
	// VideoExt is appended to extensionless video references on development hosts.
	VideoExt string
	// DevHosts are extra host names treated like loopback.
	DevHosts []string
}

// Normaliser turns any stored or uploaded media URL into its canonical absolute form.
// It performs no I/O and is safe for concurrent use.
type Normaliser struct {
	baseOrigin string
	prefix     string
	prefixSeg  string
	namespace  string
	videoExt   string
	devHosts   map[string]struct{}
}

func New(cfg Config) *Normaliser {
	prefix := "/" + strings.Trim(cfg.PathPrefix, "/")
	if prefix == "/" {
		prefix = "/uploads"
	}
	videoExt := cfg.VideoExt
	if videoExt == "" {
		videoExt = ".mp4"
	}
	if !strings.HasPrefix(videoExt, ".") {
		videoExt = "." + videoExt
	}

	hosts := map[string]struct{}{
		"localhost": {},
		"127.0.0.1": {},
		"::1":       {},
		"0.0.0.0":   {},
	}
	for _, h := range cfg.DevHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts[h] = struct{}{}
		}
	}

	return &Normaliser{
		baseOrigin: strings.TrimRight(strings.TrimSpace(cfg.BaseOrigin), "/"),
		prefix:     prefix,
		prefixSeg:  path.Base(prefix),
		namespace:  strings.Trim(cfg.Namespace, "/"),
		videoExt:   strings.ToLower(videoExt),
		devHosts:   hosts,
	}
}

// PathPrefix returns the public path prefix of local uploads, without trailing slash.
func (n *Normaliser) PathPrefix() string {
	return n.prefix
}

// Normalise returns the canonical absolute URL for raw, or false when raw is empty
// or cannot be understood as an http(s) URL. Normalise(Normalise(x)) == Normalise(x).
func (n *Normaliser) Normalise(raw string, kind model.ResourceKind) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	switch {
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case strings.HasPrefix(s, "/"):
		if n.baseOrigin == "" {
			return "", false
		}
		s = n.baseOrigin + s
	case strings.HasPrefix(s, strings.TrimPrefix(n.prefix, "/")+"/"):
		if n.baseOrigin == "" {
			return "", false
		}
		s = n.baseOrigin + "/" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Hostname() == "" || u.Opaque != "" {
		return "", false
	}

	p := u.Path
	for {
		next := n.collapse(p)
		if next == p {
			break
		}
		p = next
	}

	dev := n.IsDevHost(u.Hostname())
	if dev && n.needsVideoExt(p, kind) {
		p += n.videoExt
	}

	if p != u.Path {
		u.Path = p
		u.RawPath = ""
	}

	if u.Scheme == "http" && !dev {
		u.Scheme = "https"
	}

	return u.String(), true
}

// NormaliseReference applies Normalise to every URL field of ref. When only one of
// url/secure_url is usable, both are set to it.
func (n *Normaliser) NormaliseReference(ref model.MediaReference) model.MediaReference {
	kind := model.ParseResourceKind(string(ref.ResourceKind))
	out := ref
	out.ResourceKind = kind

	secure, okSecure := n.Normalise(ref.SecureURL, kind)
	plain, okPlain := n.Normalise(ref.URL, kind)
	switch {
	case okSecure && okPlain:
		out.SecureURL, out.URL = secure, plain
	case okSecure:
		out.SecureURL, out.URL = secure, secure
	case okPlain:
		out.SecureURL, out.URL = plain, plain
	}

	if ref.ThumbnailURL != "" {
		if thumb, ok := n.Normalise(ref.ThumbnailURL, model.ResourceKindImage); ok {
			out.ThumbnailURL = thumb
		}
	}
	return out
}

// IsDevHost reports whether host is a loopback or configured development host.
func (n *Normaliser) IsDevHost(host string) bool {
	h := strings.ToLower(strings.Trim(host, "[]"))
	if _, ok := n.devHosts[h]; ok {
		return true
	}
	if strings.HasSuffix(h, ".localhost") {
		return true
	}
	if ip := net.ParseIP(h); ip != nil && ip.IsLoopback() {
		return true
	}
	return false
}

// LocalPath extracts the upload-root relative path of a local upload reference,
// e.g. "talkcart/file.mp4" from "http://host/uploads/talkcart/file.mp4".
func (n *Normaliser) LocalPath(rawURL string) (string, bool) {
	p := rawURL
	if u, err := url.Parse(strings.TrimSpace(rawURL)); err == nil {
		p = u.Path
	}
	token := n.prefix + "/"
	idx := strings.LastIndex(p, token)
	if idx < 0 {
		return "", false
	}
	rel := p[idx+len(token):]
	if rel == "" {
		return "", false
	}
	return rel, true
}

// WithLocalPath replaces the upload-root relative part of rawURL with rel.
func (n *Normaliser) WithLocalPath(rawURL, rel string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	token := n.prefix + "/"
	idx := strings.LastIndex(u.Path, token)
	if idx < 0 {
		return "", false
	}
	u.Path = u.Path[:idx] + token + strings.TrimPrefix(rel, "/")
	u.RawPath = ""
	return u.String(), true
}

// IsLocal reports whether rawURL points into the local upload path.
func (n *Normaliser) IsLocal(rawURL string) bool {
	return strings.Contains(rawURL, n.prefix+"/")
}

func (n *Normaliser) collapse(p string) string {
	if n.namespace == "" {
		return p
	}
	segs := strings.Split(p, "/")
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		k := len(out)
		if s == n.namespace && k >= 2 && out[k-1] == n.namespace && out[k-2] == n.prefixSeg {
			continue
		}
		out = append(out, s)
	}
	return strings.Join(out, "/")
}

func (n *Normaliser) needsVideoExt(p string, kind model.ResourceKind) bool {
	if !strings.HasPrefix(p, n.prefix+"/") || strings.HasSuffix(p, "/") {
		return false
	}
	last := p[strings.LastIndex(p, "/")+1:]
	if last == "" || path.Ext(last) != "" {
		return false
	}

	switch kind {
	case model.ResourceKindVideo:
		return true
	case model.ResourceKindRaw:
		lower := strings.ToLower(p)
		return strings.Contains(lower, "video") || strings.Contains(lower, "mp4") || strings.Contains(lower, "mov")
	default:
		return false
	}
}
