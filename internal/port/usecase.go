package port

import (
	"context"
	"io"

	"github.com/fhuszti/talkcart-medias-go/internal/model"
)

// UploadIngestor validates an upload, stores it and returns its canonical reference.
type UploadIngestor interface {
	Ingest(ctx context.Context, in UploadInput) (model.MediaReference, error)
}
type UploadInput struct {
	Body     io.Reader
	Size     int64
	Filename string
	MimeType string
	Class    string
	Scheme   string
	Host     string
}

// ReferenceNormaliser canonicalises references a collaborator is about to persist.
type ReferenceNormaliser interface {
	NormaliseReferences(ctx context.Context, in NormaliseReferencesInput) (NormaliseReferencesOutput, error)
}
type NormaliseReferencesInput struct {
	Media []model.MediaReference `json:"media" validate:"required,min=1,max=50,dive"`
}
type NormaliseReferencesOutput struct {
	Media []model.MediaReference `json:"media"`
}

// DocumentMediaLister returns the normalised media of one document, with local
// files checked for existence.
type DocumentMediaLister interface {
	ListDocumentMedia(ctx context.Context, in DocumentMediaInput) (*DocumentMediaOutput, error)
}
type DocumentMediaInput struct {
	Collection string
	ID         string
}
type ResolvedMedia struct {
	model.MediaReference
	// ResolvedURL is set when the referenced local file is missing and a substitute was found.
	ResolvedURL string `json:"resolved_url,omitempty"`
	Missing     bool   `json:"missing,omitempty"`
}
type DocumentMediaOutput struct {
	ID         string          `json:"id"`
	Collection string          `json:"collection"`
	Media      []ResolvedMedia `json:"media"`
}

// MediaDeleter removes stored bytes from the active backend.
type MediaDeleter interface {
	DeleteMedia(ctx context.Context, publicID string) error
}

// MediaDeleteScheduler validates a delete request and hands it to the task queue.
type MediaDeleteScheduler interface {
	ScheduleDelete(ctx context.Context, publicID string) error
}

// ReferenceRepairer rewrites stored references whose local file moved or vanished.
type ReferenceRepairer interface {
	RepairReferences(ctx context.Context, in RepairInput) (RepairReport, error)
}
type RepairInput struct {
	Apply bool
	// Confirm is asked once, after the scan, before anything is written.
	Confirm func(RepairReport) bool
}
type ReferenceFix struct {
	Collection string `json:"collection"`
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	PublicID   string `json:"public_id"`
	From       string `json:"from"`
	To         string `json:"to"`
}
type UnresolvedReference struct {
	Collection string `json:"collection"`
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	URL        string `json:"url"`
	// Substitute names the placeholder that would be served, if any.
	Substitute string `json:"substitute,omitempty"`
}
type RepairReport struct {
	Scanned    int                   `json:"scanned_documents"`
	Checked    int                   `json:"checked_references"`
	Fixes      []ReferenceFix        `json:"fixes"`
	Unresolved []UnresolvedReference `json:"unresolved"`
	Applied    int                   `json:"applied_documents"`
	Failed     int                   `json:"failed_documents"`
	Aborted    bool                  `json:"aborted"`
}

// ExtensionFixer renames extensionless upload files after sniffing their content.
type ExtensionFixer interface {
	FixExtensions(ctx context.Context, in FixExtensionsInput) (FixExtensionsReport, error)
}
type FixExtensionsInput struct {
	Apply bool
}
type FileRename struct {
	From     string `json:"from"`
	To       string `json:"to"`
	MimeType string `json:"mime_type"`
}
type FixExtensionsReport struct {
	Scanned int          `json:"scanned_files"`
	Renames []FileRename `json:"renames"`
	Skipped []string     `json:"skipped"`
	Applied int          `json:"applied"`
	Failed  int          `json:"failed"`
}
