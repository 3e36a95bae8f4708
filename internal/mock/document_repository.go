package mock

import (
	"context"
	"errors"

	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

// DocumentRepository implements port.DocumentRepository for tests, backed by an
// in-memory map keyed by collection. Successful URL fixes are applied to Docs.
type DocumentRepository struct {
	Docs map[string][]model.Document

	// errors
	GetErr     error
	ForEachErr error
	// UpdateErrs fails UpdateMediaURLs for the given document ids.
	UpdateErrs map[string]error

	// captured inputs
	Updated map[string][]port.MediaURLFix

	// call flags
	GetCalled     bool
	ForEachCalled bool
	UpdateCalled  bool
}

func (m *DocumentRepository) GetByID(ctx context.Context, collection, id string) (*model.Document, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, d := range m.Docs[collection] {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}

func (m *DocumentRepository) ForEachWithMedia(ctx context.Context, collection string, fn func(model.Document) error) error {
	m.ForEachCalled = true
	if m.ForEachErr != nil {
		return m.ForEachErr
	}
	for _, d := range m.Docs[collection] {
		if len(d.Media) == 0 {
			continue
		}
		media := make([]model.MediaReference, len(d.Media))
		copy(media, d.Media)
		d.Media = media
		if err := fn(d); err != nil {
			return err
		}
	}
	return nil
}

func (m *DocumentRepository) UpdateMediaURLs(ctx context.Context, collection, id string, fixes []port.MediaURLFix) error {
	m.UpdateCalled = true
	if err := m.UpdateErrs[id]; err != nil {
		return err
	}
	for i, d := range m.Docs[collection] {
		if d.ID != id {
			continue
		}
		media := make([]model.MediaReference, len(d.Media))
		copy(media, d.Media)
		for _, f := range fixes {
			if f.Index >= len(media) || media[f.Index].PublicID != f.PublicID {
				return errors.New("media changed")
			}
			media[f.Index].URL = f.URL
			media[f.Index].SecureURL = f.URL
		}
		m.Docs[collection][i].Media = media
	}
	if m.Updated == nil {
		m.Updated = map[string][]port.MediaURLFix{}
	}
	m.Updated[collection+"/"+id] = fixes
	return nil
}
