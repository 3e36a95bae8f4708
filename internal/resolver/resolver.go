package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
)

var (
	ErrOutsideRoot = errors.New("path escapes upload root")
	ErrNotFound    = errors.New("no file or substitute found")
)

// DefaultAllowedExts are the media extensions a near match may carry.
var DefaultAllowedExts = []string{
	".mp4", ".mp4v", ".webm", ".ogg", ".mov", ".mkv", ".avi", ".flv",
	".mp3", ".wav",
	".jpg", ".jpeg", ".png", ".gif", ".webp",
}

// DefaultPlaceholders are tried in order when nothing matches.
var DefaultPlaceholders = []string{"placeholder.mp4", "talkcart/placeholder.mp4"}

const DefaultMinPlaceholderBytes = 100

type Outcome string

const (
	OutcomeExact       Outcome = "exact"
	OutcomeNearMatch   Outcome = "near_match"
	OutcomePlaceholder Outcome = "placeholder"
)

// Resolution describes the file chosen for a requested path. RelPath is relative to
// the upload root and uses forward slashes.
type Resolution struct {
	RelPath    string
	AbsPath    string
	Size       int64
	Outcome    Outcome
	Substitute bool
}

type Config struct {
	Root                string
	AllowedExts         []string
	Placeholders        []string
	MinPlaceholderBytes int64
	// KnownMissing identifiers skip exact and near matching.
	KnownMissing []string
}

// Resolver finds the best available file under a single upload root. It never
// creates, moves or deletes files.
type Resolver struct {
	root         string
	allowed      map[string]struct{}
	placeholders []string
	minBytes     int64
	knownMissing []string
}

func New(cfg Config) (*Resolver, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, errors.New("resolver root is required")
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", cfg.Root, err)
	}

	exts := cfg.AllowedExts
	if len(exts) == 0 {
		exts = DefaultAllowedExts
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = struct{}{}
	}

	placeholders := cfg.Placeholders
	if placeholders == nil {
		placeholders = DefaultPlaceholders
	}
	minBytes := cfg.MinPlaceholderBytes
	if minBytes <= 0 {
		minBytes = DefaultMinPlaceholderBytes
	}

	var known []string
	for _, k := range cfg.KnownMissing {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			known = append(known, k)
		}
	}

	return &Resolver{
		root:         filepath.Clean(root),
		allowed:      allowed,
		placeholders: placeholders,
		minBytes:     minBytes,
		knownMissing: known,
	}, nil
}

func (r *Resolver) Root() string {
	return r.root
}

// Contain joins rel with the root and rejects anything that does not stay strictly
// inside it.
func (r *Resolver) Contain(rel string) (string, error) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	abs := filepath.Clean(filepath.Join(r.root, filepath.FromSlash(rel)))
	if abs == r.root || !strings.HasPrefix(abs, r.root+string(os.PathSeparator)) {
		return "", ErrOutsideRoot
	}
	return abs, nil
}

// IsKnownMissing reports whether the base name of rel contains a deny-listed identifier.
func (r *Resolver) IsKnownMissing(rel string) bool {
	base := strings.ToLower(filepath.Base(filepath.FromSlash(rel)))
	for _, k := range r.knownMissing {
		if strings.Contains(base, k) {
			return true
		}
	}
	return false
}

// Resolve walks the chain exact file, near match in the same directory, then the
// first usable placeholder.
func (r *Resolver) Resolve(ctx context.Context, rel string) (Resolution, error) {
	abs, err := r.Contain(rel)
	if err != nil {
		return Resolution{}, err
	}

	if !r.IsKnownMissing(rel) {
		if info, err := os.Stat(abs); err == nil && info.Mode().IsRegular() {
			return r.resolution(abs, info.Size(), OutcomeExact, false), nil
		}

		if res, ok := r.nearMatch(ctx, abs); ok {
			return res, nil
		}
	}

	if res, ok := r.placeholder(ctx); ok {
		return res, nil
	}

	return Resolution{}, ErrNotFound
}

func (r *Resolver) nearMatch(ctx context.Context, abs string) (Resolution, bool) {
	dir := filepath.Dir(abs)
	name := filepath.Base(abs)

	stem := name
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if _, ok := r.allowed[ext]; ok {
			stem = strings.TrimSuffix(name, filepath.Ext(name))
		}
	}
	if stem == "" {
		return Resolution{}, false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warnf(ctx, "⚠️  could not list %s: %v", dir, err)
		}
		return Resolution{}, false
	}

	var best os.DirEntry
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if _, ok := r.allowed[ext]; !ok {
			continue
		}
		if !strings.EqualFold(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), stem) {
			continue
		}
		if strings.EqualFold(e.Name(), name) {
			best = e
			break
		}
		if best == nil {
			best = e
		}
	}
	if best == nil {
		return Resolution{}, false
	}

	info, err := best.Info()
	if err != nil {
		return Resolution{}, false
	}
	return r.resolution(filepath.Join(dir, best.Name()), info.Size(), OutcomeNearMatch, false), true
}

func (r *Resolver) placeholder(ctx context.Context) (Resolution, bool) {
	for _, p := range r.placeholders {
		abs, err := r.Contain(p)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if info.Size() <= r.minBytes {
			if info.Size() == 0 {
				logger.Warnf(ctx, "⚠️  placeholder %s is empty", p)
			}
			continue
		}
		return r.resolution(abs, info.Size(), OutcomePlaceholder, true), true
	}
	return Resolution{}, false
}

func (r *Resolver) resolution(abs string, size int64, outcome Outcome, substitute bool) Resolution {
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		rel = filepath.Base(abs)
	}
	return Resolution{
		RelPath:    filepath.ToSlash(rel),
		AbsPath:    abs,
		Size:       size,
		Outcome:    outcome,
		Substitute: substitute,
	}
}
