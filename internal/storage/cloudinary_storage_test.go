package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

type mockCloudinary struct {
	uploadFn  func(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	destroyFn func(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)

	destroyedTypes []string
}

func (m *mockCloudinary) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	return m.uploadFn(ctx, file, params)
}

func (m *mockCloudinary) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	m.destroyedTypes = append(m.destroyedTypes, params.ResourceType)
	return m.destroyFn(ctx, params)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func newTestCloudinary(m *mockCloudinary) *CloudinaryStorage {
	return &CloudinaryStorage{client: m, namespace: "talkcart", newName: func() string { return "file_1-2_abc" }}
}

func TestCloudinaryStorage_Store(t *testing.T) {
	var gotParams uploader.UploadParams
	var gotBody []byte
	m := &mockCloudinary{
		uploadFn: func(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
			gotParams = params
			gotBody, _ = io.ReadAll(file.(io.Reader))
			return &uploader.UploadResult{
				PublicID:     "talkcart/file_1-2_abc",
				URL:          "http://res.cloudinary.com/demo/video/upload/v1/talkcart/file_1-2_abc.mp4",
				SecureURL:    "https://res.cloudinary.com/demo/video/upload/v1/talkcart/file_1-2_abc.mp4",
				Format:       "mp4",
				ResourceType: "video",
			}, nil
		},
	}
	s := newTestCloudinary(m)

	obj, err := s.Store(context.Background(), port.StoreRequest{
		Body:     bytes.NewReader([]byte("video")),
		Filename: "clip.mp4",
		MimeType: "video/mp4",
		Kind:     model.ResourceKindVideo,
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	if gotParams.Folder != "talkcart" || gotParams.PublicID != "file_1-2_abc" || gotParams.ResourceType != "auto" {
		t.Errorf("unexpected upload params %+v", gotParams)
	}
	if string(gotBody) != "video" {
		t.Errorf("uploaded body = %q", gotBody)
	}
	if obj.PublicID != "talkcart/file_1-2_abc" || obj.Format != "mp4" {
		t.Errorf("unexpected stored object %+v", obj)
	}
	wantThumb := "https://res.cloudinary.com/demo/video/upload/so_0/v1/talkcart/file_1-2_abc.jpg"
	if obj.ThumbnailURL != wantThumb {
		t.Errorf("ThumbnailURL = %q; want %q", obj.ThumbnailURL, wantThumb)
	}
}

func TestCloudinaryStorage_Store_Errors(t *testing.T) {
	tests := []struct {
		name          string
		res           *uploader.UploadResult
		err           error
		wantTransient bool
	}{
		{"network timeout", nil, timeoutErr{}, true},
		{"cancelled", nil, context.Canceled, false},
		{"api error", &uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}, nil, false},
		{"rate limited", &uploader.UploadResult{Error: api.ErrorResp{Message: "Rate Limit Exceeded"}}, nil, true},
		{"empty response", nil, nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockCloudinary{
				uploadFn: func(context.Context, interface{}, uploader.UploadParams) (*uploader.UploadResult, error) {
					return tc.res, tc.err
				},
			}
			_, err := newTestCloudinary(m).Store(context.Background(), port.StoreRequest{Body: bytes.NewReader([]byte("x")), Filename: "a.png"})

			var se *StorageError
			if !errors.As(err, &se) {
				t.Fatalf("expected StorageError, got %v", err)
			}
			if se.Transient != tc.wantTransient {
				t.Errorf("Transient = %v; want %v", se.Transient, tc.wantTransient)
			}
			if IsTransient(err) != tc.wantTransient {
				t.Errorf("IsTransient disagrees with StorageError.Transient")
			}
		})
	}
}

func TestCloudinaryStorage_Delete(t *testing.T) {
	m := &mockCloudinary{
		destroyFn: func(_ context.Context, p uploader.DestroyParams) (*uploader.DestroyResult, error) {
			if p.ResourceType == "video" {
				return &uploader.DestroyResult{Result: "ok"}, nil
			}
			return &uploader.DestroyResult{Result: "not found"}, nil
		},
	}
	if err := newTestCloudinary(m).Delete(context.Background(), "talkcart/file_1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(m.destroyedTypes) != 2 || m.destroyedTypes[1] != "video" {
		t.Errorf("expected image then video attempts, got %v", m.destroyedTypes)
	}
}

func TestCloudinaryStorage_Delete_NotFoundAnywhere(t *testing.T) {
	m := &mockCloudinary{
		destroyFn: func(context.Context, uploader.DestroyParams) (*uploader.DestroyResult, error) {
			return &uploader.DestroyResult{Result: "not found"}, nil
		},
	}
	if err := newTestCloudinary(m).Delete(context.Background(), "talkcart/gone"); err != nil {
		t.Fatalf("missing asset should not fail, got %v", err)
	}
	if len(m.destroyedTypes) != 3 {
		t.Errorf("expected three attempts, got %v", m.destroyedTypes)
	}
}

func TestCloudinaryStorage_Delete_EmptyID(t *testing.T) {
	if err := newTestCloudinary(&mockCloudinary{}).Delete(context.Background(), " "); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestVideoThumbnailURL(t *testing.T) {
	tests := map[string]string{
		"https://res.cloudinary.com/demo/video/upload/v1/talkcart/a.mp4":  "https://res.cloudinary.com/demo/video/upload/so_0/v1/talkcart/a.jpg",
		"https://res.cloudinary.com/demo/video/upload/talkcart/a.mov?x=1": "https://res.cloudinary.com/demo/video/upload/so_0/talkcart/a.jpg",
		"https://res.cloudinary.com/demo/image/upload/v1/talkcart/a.png":  "",
		"http://localhost:8000/uploads/talkcart/file_1.mp4":               "",
	}
	for in, want := range tests {
		if got := VideoThumbnailURL(in); got != want {
			t.Errorf("VideoThumbnailURL(%q) = %q; want %q", in, got, want)
		}
	}
}
