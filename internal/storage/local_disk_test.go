package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestLocalDisk(t *testing.T, baseURL string) (*LocalDisk, string) {
	t.Helper()
	root := t.TempDir()
	s, err := NewLocalDisk(context.Background(), LocalDiskConfig{
		Root:       root,
		Namespace:  "talkcart",
		PathPrefix: "/uploads",
		BaseURL:    baseURL,
	})
	if err != nil {
		t.Fatalf("NewLocalDisk: %v", err)
	}
	s.newName = func() string { return "file_1-2_abc" }
	return s, root
}

func TestNewLocalDisk_CreatesNamespaceDir(t *testing.T) {
	_, root := newTestLocalDisk(t, "")
	info, err := os.Stat(filepath.Join(root, "talkcart"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected namespace dir to exist, err=%v", err)
	}
}

func TestLocalDisk_Store(t *testing.T) {
	s, root := newTestLocalDisk(t, "")
	payload := []byte("some video bytes")

	obj, err := s.Store(context.Background(), port.StoreRequest{
		Body:     bytes.NewReader(payload),
		Size:     int64(len(payload)),
		Filename: "Clip.MP4",
		MimeType: "video/mp4",
		Kind:     model.ResourceKindVideo,
		Scheme:   "http",
		Host:     "localhost:8000",
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	want := port.StoredObject{
		PublicID:  "talkcart/file_1-2_abc.mp4",
		URL:       "http://localhost:8000/uploads/talkcart/file_1-2_abc.mp4",
		SecureURL: "http://localhost:8000/uploads/talkcart/file_1-2_abc.mp4",
		Format:    "mp4",
	}
	if obj != want {
		t.Errorf("Store = %+v; want %+v", obj, want)
	}

	got, err := os.ReadFile(filepath.Join(root, "talkcart", "file_1-2_abc.mp4"))
	if err != nil || !bytes.Equal(got, payload) {
		t.Fatalf("stored bytes mismatch: %q, err=%v", got, err)
	}

	entries, _ := os.ReadDir(filepath.Join(root, "talkcart"))
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, found %d entries", len(entries))
	}
}

func TestLocalDisk_Store_SniffsMissingExtension(t *testing.T) {
	s, _ := newTestLocalDisk(t, "https://media.example.com")

	obj, err := s.Store(context.Background(), port.StoreRequest{
		Body:     bytes.NewReader(pngHeader),
		Filename: "blob",
		MimeType: "application/octet-stream",
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if obj.PublicID != "talkcart/file_1-2_abc.png" {
		t.Errorf("PublicID = %q; want sniffed .png", obj.PublicID)
	}
	if obj.URL != "https://media.example.com/uploads/talkcart/file_1-2_abc.png" {
		t.Errorf("URL = %q; want base url fallback", obj.URL)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestLocalDisk_Store_ReadError(t *testing.T) {
	s, root := newTestLocalDisk(t, "")

	_, err := s.Store(context.Background(), port.StoreRequest{Body: failingReader{}, Filename: "a.png"})
	var se *StorageError
	if !errors.As(err, &se) || se.Transient {
		t.Fatalf("expected permanent StorageError, got %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(root, "talkcart"))
	if len(entries) != 0 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}
}

func TestLocalDisk_Delete(t *testing.T) {
	s, root := newTestLocalDisk(t, "")
	p := filepath.Join(root, "talkcart", "old.png")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(context.Background(), "talkcart/old.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Errorf("file still exists")
	}
	if err := s.Delete(context.Background(), "talkcart/old.png"); err != nil {
		t.Errorf("deleting a missing file should succeed, got %v", err)
	}
}

func TestLocalDisk_Delete_RejectsTraversal(t *testing.T) {
	s, _ := newTestLocalDisk(t, "")
	for _, id := range []string{"../outside.png", "talkcart/../../x", ""} {
		if err := s.Delete(context.Background(), id); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Delete(%q) err = %v; want ErrInvalidKey", id, err)
		}
	}
}
