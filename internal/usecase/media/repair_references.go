package media

import (
	"context"
	"errors"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/normaliser"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/resolver"
)

type referenceRepairerSrv struct {
	repo        port.DocumentRepository
	resolver    port.FileResolver
	norm        *normaliser.Normaliser
	cache       port.Cache
	collections []string
}

// compile-time check: *referenceRepairerSrv must satisfy port.ReferenceRepairer
var _ port.ReferenceRepairer = (*referenceRepairerSrv)(nil)

// NewReferenceRepairer constructs the offline repair job over posts and messages.
func NewReferenceRepairer(repo port.DocumentRepository, res port.FileResolver, norm *normaliser.Normaliser, cache port.Cache) port.ReferenceRepairer {
	return &referenceRepairerSrv{
		repo:        repo,
		resolver:    res,
		norm:        norm,
		cache:       cache,
		collections: model.DocumentCollections,
	}
}

// RepairReferences scans every document with media, stages corrected URLs and,
// in apply mode and once confirmed, writes them back one document at a time.
// Only the fix tuples of the report are held until confirmation.
func (s *referenceRepairerSrv) RepairReferences(ctx context.Context, in port.RepairInput) (port.RepairReport, error) {
	report := port.RepairReport{Fixes: []port.ReferenceFix{}, Unresolved: []port.UnresolvedReference{}}

	for _, collection := range s.collections {
		err := s.repo.ForEachWithMedia(ctx, collection, func(doc model.Document) error {
			report.Scanned++
			s.repairDocument(ctx, collection, doc, &report)
			return ctx.Err()
		})
		if err != nil {
			return report, err
		}
	}

	logger.Infof(ctx, "scanned %d documents, %d local references, %d corrections, %d unresolved",
		report.Scanned, report.Checked, len(report.Fixes), len(report.Unresolved))

	if !in.Apply || len(report.Fixes) == 0 {
		return report, nil
	}
	if in.Confirm == nil || !in.Confirm(report) {
		report.Aborted = true
		logger.Warn(ctx, "⚠️  repair not confirmed, nothing written")
		return report, nil
	}

	// fixes of one document are contiguous in scan order
	for start := 0; start < len(report.Fixes); {
		first := report.Fixes[start]
		end := start + 1
		for end < len(report.Fixes) && report.Fixes[end].Collection == first.Collection && report.Fixes[end].DocumentID == first.DocumentID {
			end++
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		s.applyDocument(ctx, first.Collection, first.DocumentID, report.Fixes[start:end], &report)
		start = end
	}

	logger.Infof(ctx, "✅ applied corrections to %d documents, %d failed", report.Applied, report.Failed)
	return report, nil
}

func (s *referenceRepairerSrv) applyDocument(ctx context.Context, collection, id string, fixes []port.ReferenceFix, report *port.RepairReport) {
	updates := make([]port.MediaURLFix, len(fixes))
	for i, f := range fixes {
		updates[i] = port.MediaURLFix{Index: f.Index, PublicID: f.PublicID, URL: f.To}
	}
	if err := s.repo.UpdateMediaURLs(ctx, collection, id, updates); err != nil {
		report.Failed++
		logger.Errorf(ctx, "❌ failed to update %s #%s: %v", collection, id, err)
		return
	}
	report.Applied++
	s.invalidate(ctx, collection, id)
}

// repairDocument records a fix for every local reference whose canonical URL
// differs from the stored one, and flags references whose file is missing.
// A missing file still gets its normalised URL; placeholders are never written.
func (s *referenceRepairerSrv) repairDocument(ctx context.Context, collection string, doc model.Document, report *port.RepairReport) {
	for i, ref := range doc.Media {
		stored := ref.PreferredURL()
		if !s.norm.IsLocal(stored) {
			continue
		}
		report.Checked++

		n := s.norm.NormaliseReference(ref)
		target := n.PreferredURL()

		if rel, ok := s.norm.LocalPath(target); ok {
			res, err := s.resolver.Resolve(ctx, rel)
			switch {
			case err != nil:
				if !errors.Is(err, resolver.ErrNotFound) && !errors.Is(err, resolver.ErrOutsideRoot) {
					logger.Warnf(ctx, "⚠️  could not resolve %s in %s #%s: %v", rel, collection, doc.ID, err)
				}
				report.Unresolved = append(report.Unresolved, port.UnresolvedReference{
					Collection: collection, DocumentID: doc.ID, Index: i, URL: stored,
				})
			case res.Substitute:
				report.Unresolved = append(report.Unresolved, port.UnresolvedReference{
					Collection: collection, DocumentID: doc.ID, Index: i, URL: stored, Substitute: res.RelPath,
				})
			case res.RelPath != rel:
				if rebuilt, ok := s.norm.WithLocalPath(target, res.RelPath); ok {
					target = rebuilt
					if again, ok := s.norm.Normalise(rebuilt, n.ResourceKind); ok {
						target = again
					}
				}
			}
		}

		if target == ref.URL && target == ref.SecureURL {
			continue
		}
		report.Fixes = append(report.Fixes, port.ReferenceFix{
			Collection: collection, DocumentID: doc.ID, Index: i, PublicID: ref.PublicID, From: stored, To: target,
		})
	}
}

func (s *referenceRepairerSrv) invalidate(ctx context.Context, collection, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteDocumentMedia(ctx, collection, id); err != nil {
		logger.Warnf(ctx, "⚠️  failed deleting cache for %s #%s: %v", collection, id, err)
	}
	if err := s.cache.DeleteEtagDocumentMedia(ctx, collection, id); err != nil {
		logger.Warnf(ctx, "⚠️  failed deleting etag cache for %s #%s: %v", collection, id, err)
	}
}
