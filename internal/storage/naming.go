package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const sniffLen = 3072

// NameFunc builds a unique object name (without extension).
type NameFunc func() string

// DefaultName produces names like file_1718000000000-123456789_9f1c2e3a4b5d.
func DefaultName() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("file_%d-%d_%s", time.Now().UnixMilli(), rand.Int64N(1_000_000_000), token)
}

// resolveExtension picks the extension for an upload: the client filename first,
// then the sniffed content, then the declared MIME type. The returned reader replays
// any sniffed bytes.
func resolveExtension(body io.Reader, filename, mimeType string) (string, io.Reader, error) {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && ext != "." {
		return ext, body, nil
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]
	replay := io.MultiReader(bytes.NewReader(head), body)

	if ext := mimetype.Detect(head).Extension(); ext != "" {
		return ext, replay, nil
	}
	if mt := mimetype.Lookup(mimeType); mt != nil {
		return mt.Extension(), replay, nil
	}
	return "", replay, nil
}
