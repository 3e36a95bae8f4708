package mock

import (
	"context"
	"time"
)

// Cache implements port.Cache for tests.
type Cache struct {
	// stored values
	MediaOut []byte

	// etag values
	EtagMedia string

	// captured inputs
	Collection string
	ID         string
	TTL        time.Duration

	// errors
	GetMediaErr     error
	GetEtagMediaErr error
	DelMediaErr     error
	DelEtagMediaErr error

	// call flags
	GetMediaCalled     bool
	GetEtagMediaCalled bool
	SetMediaCalled     bool
	SetEtagMediaCalled bool
	DelMediaCalled     bool
	DelEtagMediaCalled bool
}

func (c *Cache) GetDocumentMedia(ctx context.Context, collection, id string) ([]byte, error) {
	c.GetMediaCalled = true
	if c.GetMediaErr != nil {
		return nil, c.GetMediaErr
	}
	return c.MediaOut, nil
}

func (c *Cache) GetEtagDocumentMedia(ctx context.Context, collection, id string) (string, error) {
	c.GetEtagMediaCalled = true
	if c.GetEtagMediaErr != nil {
		return "", c.GetEtagMediaErr
	}
	return c.EtagMedia, nil
}

func (c *Cache) SetDocumentMedia(ctx context.Context, collection, id string, data []byte, ttl time.Duration) {
	c.SetMediaCalled = true
	c.MediaOut = data
	c.TTL = ttl
}

func (c *Cache) SetEtagDocumentMedia(ctx context.Context, collection, id string, etag string, ttl time.Duration) {
	c.SetEtagMediaCalled = true
	c.EtagMedia = etag
}

func (c *Cache) DeleteDocumentMedia(ctx context.Context, collection, id string) error {
	c.DelMediaCalled = true
	c.Collection, c.ID = collection, id
	return c.DelMediaErr
}

func (c *Cache) DeleteEtagDocumentMedia(ctx context.Context, collection, id string) error {
	c.DelEtagMediaCalled = true
	return c.DelEtagMediaErr
}
