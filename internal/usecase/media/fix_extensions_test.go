package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func writeUploads(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFixExtensions_DryRun(t *testing.T) {
	dir := writeUploads(t, map[string][]byte{
		"file_1":     pngHeader,
		"file_2.png": pngHeader,
		".gitkeep":   nil,
	})
	svc := NewExtensionFixer(dir)

	report, err := svc.FixExtensions(context.Background(), port.FixExtensionsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Scanned != 1 || len(report.Renames) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	r := report.Renames[0]
	if r.From != "file_1" || r.To != "file_1.png" || r.MimeType != "image/png" {
		t.Errorf("unexpected rename %+v", r)
	}
	if _, err := os.Stat(filepath.Join(dir, "file_1")); err != nil {
		t.Error("dry run must not rename anything")
	}
}

func TestFixExtensions_Apply(t *testing.T) {
	dir := writeUploads(t, map[string][]byte{
		"file_1":     pngHeader,
		"file_3":     {0x00, 0x01, 0x02, 0x03},
		"file_4":     pngHeader,
		"file_4.png": pngHeader,
	})
	svc := NewExtensionFixer(dir)

	report, err := svc.FixExtensions(context.Background(), port.FixExtensionsInput{Apply: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Applied != 1 || report.Failed != 0 {
		t.Fatalf("applied/failed = %d/%d", report.Applied, report.Failed)
	}
	if _, err := os.Stat(filepath.Join(dir, "file_1.png")); err != nil {
		t.Errorf("expected file_1.png after apply: %v", err)
	}
	if len(report.Skipped) != 2 {
		t.Errorf("expected unknown content and existing target to be skipped, got %v", report.Skipped)
	}
}

func TestFixExtensions_MissingDir(t *testing.T) {
	svc := NewExtensionFixer(filepath.Join(t.TempDir(), "nope"))
	if _, err := svc.FixExtensions(context.Background(), port.FixExtensionsInput{}); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
