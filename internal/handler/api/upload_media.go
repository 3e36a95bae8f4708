package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gabriel-vasile/mimetype"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/storage"
	"github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
)

const (
	uploadFileField = "file"
	maxFormFields   = 10
	// maxStoreRetries bounds extra attempts on transient storage failures.
	maxStoreRetries = 2
	multipartSlack  = 1 << 20
)

// UploadConfig bounds the request body and the retry schedule of one upload.
type UploadConfig struct {
	MaxBytes       int64
	InitialBackoff time.Duration
	// TrustForwarded honours X-Forwarded-Proto/Host; enable only behind a proxy
	// that overwrites them.
	TrustForwarded bool
}

func newUploadBackOff(cfg UploadConfig) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if cfg.InitialBackoff > 0 {
		b.InitialInterval = cfg.InitialBackoff
	}
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, maxStoreRetries)
}

// UploadMediaHandler accepts one multipart file under the "file" field and an
// optional "class" form value.
func UploadMediaHandler(svc port.UploadIngestor, cfg UploadConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if cfg.MaxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBytes+multipartSlack)
		}

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
				WriteError(w, http.StatusRequestEntityTooLarge, "file too large", err)
				return
			}
			WriteError(w, http.StatusBadRequest, "invalid multipart payload", err)
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		header, err := singleFile(r.MultipartForm)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}

		file, err := header.Open()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "could not read uploaded file", err)
			return
		}
		defer func() { _ = file.Close() }()

		mimeType, err := declaredOrSniffedType(header.Header.Get("Content-Type"), file)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "could not read uploaded file", err)
			return
		}

		in := port.UploadInput{
			Body:     file,
			Size:     header.Size,
			Filename: header.Filename,
			MimeType: mimeType,
			Class:    r.FormValue("class"),
			Scheme:   requestScheme(r, cfg.TrustForwarded),
			Host:     requestHost(r, cfg.TrustForwarded),
		}

		var ref model.MediaReference
		attempt := 0
		op := func() error {
			if attempt > 0 {
				if _, err := file.Seek(0, io.SeekStart); err != nil {
					return backoff.Permanent(fmt.Errorf("rewind upload: %w", err))
				}
				logger.Warnf(ctx, "⚠️  retrying upload of %s (attempt %d)", header.Filename, attempt+1)
			}
			attempt++

			out, err := svc.Ingest(ctx, in)
			if err != nil {
				if storage.IsTransient(err) {
					return err
				}
				return backoff.Permanent(err)
			}
			ref = out
			return nil
		}
		if err := backoff.Retry(op, backoff.WithContext(newUploadBackOff(cfg), ctx)); err != nil {
			writeUploadError(w, err)
			return
		}

		RespondJSON(w, http.StatusCreated, ref)
		logger.Infof(ctx, "✅  Successfully uploaded %s as %s", header.Filename, ref.PublicID)
	}
}

// declaredOrSniffedType keeps the part's Content-Type unless the client sent none
// or a generic one, in which case the content decides. file is rewound.
func declaredOrSniffedType(declared string, file multipart.File) (string, error) {
	if declared != "" && !strings.HasPrefix(declared, "application/octet-stream") {
		return declared, nil
	}
	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mt.String(), nil
}

func singleFile(form *multipart.Form) (*multipart.FileHeader, error) {
	if len(form.Value) > maxFormFields {
		return nil, errors.New("too many form fields")
	}
	for field, files := range form.File {
		if field != uploadFileField {
			return nil, fmt.Errorf("unexpected file field %q", field)
		}
		if len(files) != 1 {
			return nil, errors.New("exactly one file is allowed")
		}
	}
	files := form.File[uploadFileField]
	if len(files) == 0 {
		return nil, errors.New("file is required")
	}
	return files[0], nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	var ue *media.UploadError
	switch {
	case errors.As(err, &ue) && errors.Is(err, media.ErrFileTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, ue.Error(), nil)
	case errors.As(err, &ue):
		WriteError(w, http.StatusBadRequest, ue.Error(), nil)
	case storage.IsTransient(err):
		WriteError(w, http.StatusServiceUnavailable, "storage temporarily unavailable", err)
	default:
		WriteError(w, http.StatusInternalServerError, "could not store upload", err)
	}
}

func requestScheme(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if p := strings.ToLower(strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Proto"), ",")[0])); p == "http" || p == "https" {
			return p
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func requestHost(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if h := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Host"), ",")[0]); h != "" {
			return h
		}
	}
	return r.Host
}
