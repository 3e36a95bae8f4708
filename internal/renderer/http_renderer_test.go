package renderer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"testing"
	"time"

	"github.com/fhuszti/talkcart-medias-go/internal/mock"
	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

func TestRenderDocumentMedia_Cases(t *testing.T) {
	ctx := context.Background()
	in := port.DocumentMediaInput{Collection: model.CollectionPosts, ID: "65f1c0ffee0123456789abcd"}

	t.Run("cache hit", func(t *testing.T) {
		c := &mock.Cache{MediaOut: []byte(`{"ok":true}`), EtagMedia: "\"1234\""}
		r := NewHTTPRenderer(c, time.Minute)
		lister := &mock.DocumentMediaLister{}

		out, etag, err := r.RenderDocumentMedia(ctx, lister, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != string(c.MediaOut) {
			t.Errorf("raw mismatch: got %s want %s", out, c.MediaOut)
		}
		if etag != c.EtagMedia {
			t.Errorf("etag mismatch: got %s want %s", etag, c.EtagMedia)
		}
		if lister.Called {
			t.Error("lister should not be called on cache hit")
		}
		if c.SetMediaCalled || c.SetEtagMediaCalled {
			t.Error("cache should not be set on hit")
		}
	})

	t.Run("cache miss", func(t *testing.T) {
		c := &mock.Cache{}
		resp := &port.DocumentMediaOutput{ID: in.ID, Collection: in.Collection, Media: []port.ResolvedMedia{}}
		lister := &mock.DocumentMediaLister{Out: resp}
		r := NewHTTPRenderer(c, 5*time.Minute)

		out, etag, err := r.RenderDocumentMedia(ctx, lister, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected, _ := json.Marshal(resp)
		if string(out) != string(expected) {
			t.Errorf("raw mismatch: got %s want %s", out, expected)
		}
		expEtag := fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(expected))
		if etag != expEtag {
			t.Errorf("etag mismatch: got %s want %s", etag, expEtag)
		}
		if !lister.Called || lister.In != in {
			t.Errorf("lister should be called with %+v, got %+v", in, lister.In)
		}
		if !c.SetMediaCalled || !c.SetEtagMediaCalled {
			t.Error("cache should be written on miss")
		}
		if c.TTL != 5*time.Minute {
			t.Errorf("cache ttl = %v; want 5m", c.TTL)
		}
		if c.EtagMedia != expEtag {
			t.Errorf("cached etag mismatch: got %s want %s", c.EtagMedia, expEtag)
		}
	})

	t.Run("lister error", func(t *testing.T) {
		c := &mock.Cache{}
		l := &mock.DocumentMediaLister{Err: errors.New("fail")}
		r := NewHTTPRenderer(c, time.Minute)

		if _, _, err := r.RenderDocumentMedia(ctx, l, in); err == nil {
			t.Fatal("expected error, got nil")
		}
		if c.SetMediaCalled || c.SetEtagMediaCalled {
			t.Error("cache should not be written on error")
		}
	})

	t.Run("cache error", func(t *testing.T) {
		c := &mock.Cache{GetMediaErr: errors.New("boom")}
		l := &mock.DocumentMediaLister{Out: &port.DocumentMediaOutput{ID: in.ID}}
		r := NewHTTPRenderer(c, time.Minute)

		if _, _, err := r.RenderDocumentMedia(ctx, l, in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !l.Called {
			t.Error("lister should be called when cache returns error")
		}
		if !c.SetMediaCalled || !c.SetEtagMediaCalled {
			t.Error("cache should be written when missing due to error")
		}
	})
}
