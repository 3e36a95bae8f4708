package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

type extensionFixerSrv struct {
	dir string
}

// compile-time check: *extensionFixerSrv must satisfy port.ExtensionFixer
var _ port.ExtensionFixer = (*extensionFixerSrv)(nil)

// NewExtensionFixer works on the files directly inside dir, usually
// <upload dir>/<namespace>.
func NewExtensionFixer(dir string) port.ExtensionFixer {
	return &extensionFixerSrv{dir: dir}
}

// FixExtensions sniffs every extensionless file and, in apply mode, renames it
// with the extension matching its content. Existing targets are never overwritten.
func (s *extensionFixerSrv) FixExtensions(ctx context.Context, in port.FixExtensionsInput) (port.FixExtensionsReport, error) {
	report := port.FixExtensionsReport{Renames: []port.FileRename{}, Skipped: []string{}}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return report, fmt.Errorf("list %s: %w", s.dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") || filepath.Ext(name) != "" {
			continue
		}
		report.Scanned++

		src := filepath.Join(s.dir, name)
		mtype, err := mimetype.DetectFile(src)
		if err != nil {
			logger.Warnf(ctx, "⚠️  could not sniff %s: %v", name, err)
			report.Skipped = append(report.Skipped, name)
			continue
		}
		ext := mtype.Extension()
		if ext == "" || mtype.Is("application/octet-stream") {
			report.Skipped = append(report.Skipped, name)
			continue
		}

		target := name + ext
		if _, err := os.Stat(filepath.Join(s.dir, target)); err == nil {
			logger.Warnf(ctx, "⚠️  %s already exists, leaving %s alone", target, name)
			report.Skipped = append(report.Skipped, name)
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			report.Skipped = append(report.Skipped, name)
			continue
		}

		report.Renames = append(report.Renames, port.FileRename{From: name, To: target, MimeType: mtype.String()})
		if !in.Apply {
			continue
		}
		if err := os.Rename(src, filepath.Join(s.dir, target)); err != nil {
			report.Failed++
			logger.Errorf(ctx, "❌ failed to rename %s: %v", name, err)
			continue
		}
		report.Applied++
	}

	logger.Infof(ctx, "scanned %d extensionless files, %d renames, %d applied", report.Scanned, len(report.Renames), report.Applied)
	return report, nil
}
