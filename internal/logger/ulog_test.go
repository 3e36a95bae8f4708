package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fhuszti/talkcart-medias-go/internal/api_context"
)

func TestInitWriter_AddsServiceAndUID(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(func() { std = nil })

	ctx := context.WithValue(context.Background(), api_context.AuthUserIDKey, "user-42")
	Infof(ctx, "stored %s", "talkcart/a.png")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "stored talkcart/a.png" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["svc"] != serviceName {
		t.Errorf("svc = %v; want %s", rec["svc"], serviceName)
	}
	if rec["uid"] != "user-42" {
		t.Errorf("uid = %v; want user-42", rec["uid"])
	}
}

func TestInitWriter_SystemUIDAndLevel(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "warn")

	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(func() { std = nil })

	Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	Warn(context.Background(), "shown")
	if !bytes.Contains(buf.Bytes(), []byte("uid=system")) {
		t.Errorf("expected uid=system in %q", buf.String())
	}
}
