package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fhuszti/talkcart-medias-go/internal/mock"
	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
	"github.com/fhuszti/talkcart-medias-go/internal/storage"
)

func uploadInput(class, mimeType string, size int64) port.UploadInput {
	return port.UploadInput{
		Body:     strings.NewReader("payload"),
		Size:     size,
		Filename: "clip.mp4",
		MimeType: mimeType,
		Class:    class,
		Scheme:   "http",
		Host:     "localhost:4000",
	}
}

func TestIngest_ClientErrors(t *testing.T) {
	limits := UploadLimits{MediaMaxBytes: 1000, ProfileMaxBytes: 100}

	tests := []struct {
		name    string
		in      port.UploadInput
		wantErr error
		wantMsg string
	}{
		{"unknown class", uploadInput("banner", "image/png", 10), ErrInvalidUploadClass, `upload class "banner" is not one of media, profile`},
		{"unsupported type", uploadInput("", "application/pdf", 10), ErrUnsupportedMimeType, "file type application/pdf is not allowed for media uploads"},
		{"video as profile", uploadInput("profile", "video/mp4", 10), ErrUnsupportedMimeType, "file type video/mp4 is not allowed for profile uploads"},
		{"empty", uploadInput("media", "video/mp4", 0), ErrEmptyFile, "empty file"},
		{"too large", uploadInput("media", "video/mp4", 1001), ErrFileTooLarge, "file of 1001 bytes exceeds the 1000 bytes limit for media uploads"},
		{"profile too large", uploadInput("profile", "image/png", 101), ErrFileTooLarge, "file of 101 bytes exceeds the 100 bytes limit for profile uploads"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := &mock.StorageBackend{}
			svc := NewUploadIngestor(backend, newNormaliser(), limits)

			_, err := svc.Ingest(context.Background(), tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			var ue *UploadError
			if !errors.As(err, &ue) {
				t.Fatalf("expected *UploadError, got %T", err)
			}
			if err.Error() != tc.wantMsg {
				t.Errorf("message = %q; want %q", err.Error(), tc.wantMsg)
			}
			if backend.StoreCalled {
				t.Error("backend must not be called for rejected uploads")
			}
		})
	}
}

func TestIngest_LocalVideo(t *testing.T) {
	backend := &mock.StorageBackend{
		NameOut: storage.BackendLocal,
		StoreOut: port.StoredObject{
			PublicID:  "talkcart/file_1",
			URL:       "http://localhost:4000/uploads/talkcart/talkcart/file_1",
			SecureURL: "http://localhost:4000/uploads/talkcart/talkcart/file_1",
			Format:    ".mp4",
		},
	}
	svc := NewUploadIngestor(backend, newNormaliser(), DefaultUploadLimits())

	ref, err := svc.Ingest(context.Background(), uploadInput("", "video/mp4; codecs=avc1", 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "http://localhost:4000/uploads/talkcart/file_1.mp4"
	if ref.URL != want || ref.SecureURL != want {
		t.Errorf("urls = %q / %q; want %q", ref.URL, ref.SecureURL, want)
	}
	if ref.ResourceKind != model.ResourceKindVideo || ref.Format != "mp4" {
		t.Errorf("kind/format = %s/%s", ref.ResourceKind, ref.Format)
	}
	if backend.StoreReq.MimeType != "video/mp4" || backend.StoreReq.Kind != model.ResourceKindVideo {
		t.Errorf("unexpected store request %+v", backend.StoreReq)
	}
	if backend.StoreReq.Host != "localhost:4000" || backend.StoreReq.Scheme != "http" {
		t.Errorf("request origin not forwarded: %+v", backend.StoreReq)
	}
	if string(backend.StoredRaw) != "payload" {
		t.Errorf("stored body = %q", backend.StoredRaw)
	}
}

func TestIngest_ManagedUpgradesScheme(t *testing.T) {
	backend := &mock.StorageBackend{
		NameOut: storage.BackendCloudinary,
		StoreOut: port.StoredObject{
			PublicID:     "talkcart/file_2",
			URL:          "http://res.cloudinary.com/demo/video/upload/v1/talkcart/file_2.mp4",
			ThumbnailURL: "http://res.cloudinary.com/demo/video/upload/so_0/v1/talkcart/file_2.jpg",
		},
	}
	svc := NewUploadIngestor(backend, newNormaliser(), DefaultUploadLimits())

	ref, err := svc.Ingest(context.Background(), uploadInput("media", "video/mp4", 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ref.SecureURL, "https://") || ref.SecureURL != ref.URL {
		t.Errorf("expected both urls upgraded to https, got %q / %q", ref.URL, ref.SecureURL)
	}
	if !strings.HasPrefix(ref.ThumbnailURL, "https://") {
		t.Errorf("thumbnail not normalised: %q", ref.ThumbnailURL)
	}
}

func TestIngest_StoreErrorKeepsClassification(t *testing.T) {
	storeErr := &storage.StorageError{Backend: "mock", Op: "store", Transient: true, Err: errors.New("timeout")}
	backend := &mock.StorageBackend{StoreErr: storeErr}
	svc := NewUploadIngestor(backend, newNormaliser(), DefaultUploadLimits())

	_, err := svc.Ingest(context.Background(), uploadInput("profile", "image/png", 7))
	if !storage.IsTransient(err) {
		t.Fatalf("expected transient storage error, got %v", err)
	}
}

func TestIngest_UnusableURL(t *testing.T) {
	backend := &mock.StorageBackend{StoreOut: port.StoredObject{PublicID: "talkcart/x", URL: "ftp://nope/x"}}
	svc := NewUploadIngestor(backend, newNormaliser(), DefaultUploadLimits())

	if _, err := svc.Ingest(context.Background(), uploadInput("media", "image/png", 7)); err == nil {
		t.Fatal("expected error for unusable backend url")
	}
}

func TestIsMimeTypeAllowed(t *testing.T) {
	tests := []struct {
		class UploadClass
		mime  string
		want  bool
	}{
		{ClassMedia, "image/jpg", true},
		{ClassMedia, "VIDEO/QUICKTIME", true},
		{ClassMedia, "audio/mpeg", false},
		{ClassProfile, "image/webp", true},
		{ClassProfile, "video/webm", false},
		{"other", "image/png", false},
	}
	for _, tc := range tests {
		if got := IsMimeTypeAllowed(tc.class, tc.mime); got != tc.want {
			t.Errorf("IsMimeTypeAllowed(%s, %s) = %v; want %v", tc.class, tc.mime, got, tc.want)
		}
	}
}
