package media

import (
	"context"
	"errors"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/normaliser"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/resolver"
)

type documentMediaListerSrv struct {
	repo     port.DocumentRepository
	resolver port.FileResolver
	norm     *normaliser.Normaliser
}

// compile-time check: *documentMediaListerSrv must satisfy port.DocumentMediaLister
var _ port.DocumentMediaLister = (*documentMediaListerSrv)(nil)

func NewDocumentMediaLister(repo port.DocumentRepository, res port.FileResolver, norm *normaliser.Normaliser) port.DocumentMediaLister {
	return &documentMediaListerSrv{repo: repo, resolver: res, norm: norm}
}

// ListDocumentMedia reads the media of one document, normalises every reference and
// checks local files. Missing local files point at their substitute when one exists.
func (s *documentMediaListerSrv) ListDocumentMedia(ctx context.Context, in port.DocumentMediaInput) (*port.DocumentMediaOutput, error) {
	doc, err := s.repo.GetByID(ctx, in.Collection, in.ID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	out := &port.DocumentMediaOutput{
		ID:         doc.ID,
		Collection: in.Collection,
		Media:      make([]port.ResolvedMedia, 0, len(doc.Media)),
	}
	for _, ref := range doc.Media {
		item := port.ResolvedMedia{MediaReference: s.norm.NormaliseReference(ref)}
		s.resolveLocal(ctx, &item)
		out.Media = append(out.Media, item)
	}
	return out, nil
}

func (s *documentMediaListerSrv) resolveLocal(ctx context.Context, item *port.ResolvedMedia) {
	current := item.PreferredURL()
	rel, ok := s.norm.LocalPath(current)
	if !ok {
		return
	}

	res, err := s.resolver.Resolve(ctx, rel)
	if err != nil {
		if !errors.Is(err, resolver.ErrNotFound) && !errors.Is(err, resolver.ErrOutsideRoot) {
			logger.Warnf(ctx, "⚠️  could not resolve %s: %v", rel, err)
		}
		item.Missing = true
		return
	}
	if res.Outcome == resolver.OutcomeExact {
		return
	}

	item.Missing = res.Substitute
	if resolved, ok := s.norm.WithLocalPath(current, res.RelPath); ok {
		item.ResolvedURL = resolved
	}
}
