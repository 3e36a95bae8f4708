package mock

import (
	"context"

	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

// DocumentMediaLister implements port.DocumentMediaLister for tests.
type DocumentMediaLister struct {
	Out    *port.DocumentMediaOutput
	Err    error
	Called bool
	In     port.DocumentMediaInput
}

func (m *DocumentMediaLister) ListDocumentMedia(ctx context.Context, in port.DocumentMediaInput) (*port.DocumentMediaOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// UploadIngestor implements port.UploadIngestor for tests. When Errs is set, the
// n-th call returns Errs[n] (nil past the end).
type UploadIngestor struct {
	Out   model.MediaReference
	Err   error
	Errs  []error
	Calls int
	In    port.UploadInput
	Body  []byte
}

func (m *UploadIngestor) Ingest(ctx context.Context, in port.UploadInput) (model.MediaReference, error) {
	m.Calls++
	m.In = in
	if in.Body != nil {
		buf := make([]byte, 512)
		n, _ := in.Body.Read(buf)
		m.Body = buf[:n]
	}
	if m.Errs != nil {
		if m.Calls <= len(m.Errs) && m.Errs[m.Calls-1] != nil {
			return model.MediaReference{}, m.Errs[m.Calls-1]
		}
		return m.Out, nil
	}
	if m.Err != nil {
		return model.MediaReference{}, m.Err
	}
	return m.Out, nil
}

// ReferenceNormaliser implements port.ReferenceNormaliser for tests.
type ReferenceNormaliser struct {
	Out    port.NormaliseReferencesOutput
	Err    error
	Called bool
	In     port.NormaliseReferencesInput
}

func (m *ReferenceNormaliser) NormaliseReferences(ctx context.Context, in port.NormaliseReferencesInput) (port.NormaliseReferencesOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// MediaDeleter implements port.MediaDeleter for tests.
type MediaDeleter struct {
	Err      error
	Called   bool
	PublicID string
}

func (m *MediaDeleter) DeleteMedia(ctx context.Context, publicID string) error {
	m.Called = true
	m.PublicID = publicID
	return m.Err
}

// MediaDeleteScheduler implements port.MediaDeleteScheduler for tests.
type MediaDeleteScheduler struct {
	Err      error
	Called   bool
	PublicID string
}

func (m *MediaDeleteScheduler) ScheduleDelete(ctx context.Context, publicID string) error {
	m.Called = true
	m.PublicID = publicID
	return m.Err
}

// ReferenceRepairer implements port.ReferenceRepairer for tests.
type ReferenceRepairer struct {
	Out    port.RepairReport
	Err    error
	Called bool
	In     port.RepairInput
}

func (m *ReferenceRepairer) RepairReferences(ctx context.Context, in port.RepairInput) (port.RepairReport, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}
