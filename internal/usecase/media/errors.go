package media

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrEmptyFile           = errors.New("empty file")
	ErrInvalidUploadClass  = errors.New("invalid upload class")

	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidPublicID  = errors.New("invalid public id")
	ErrMissingURL       = errors.New("reference has no usable url")
	ErrKnownMissing     = errors.New("reference points at a known missing file")
)

// UploadError is a client error raised before anything reaches a storage backend.
// It is never worth retrying.
type UploadError struct {
	Class    UploadClass
	MimeType string
	Size     int64
	Limit    int64
	Err      error
}

func (e *UploadError) Error() string {
	switch {
	case errors.Is(e.Err, ErrUnsupportedMimeType):
		return fmt.Sprintf("file type %s is not allowed for %s uploads", e.MimeType, e.Class)
	case errors.Is(e.Err, ErrFileTooLarge):
		return fmt.Sprintf("file of %d bytes exceeds the %d bytes limit for %s uploads", e.Size, e.Limit, e.Class)
	case errors.Is(e.Err, ErrInvalidUploadClass):
		return fmt.Sprintf("upload class %q is not one of %s, %s", e.Class, ClassMedia, ClassProfile)
	default:
		return e.Err.Error()
	}
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// ReferenceError points at the offending entry of a normalisation batch.
type ReferenceError struct {
	Index int
	Err   error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("media[%d]: %v", e.Index, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}
