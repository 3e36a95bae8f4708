package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/talkcart-medias-go/internal/logger"
	"github.com/fhuszti/talkcart-medias-go/internal/port"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

func (c *Cache) GetDocumentMedia(ctx context.Context, collection, id string) ([]byte, error) {
	logger.Debugf(ctx, "getting entry in cache for %s #%s...", collection, id)

	val, err := c.client.Get(ctx, getCacheKey(collection, id, false)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (c *Cache) GetEtagDocumentMedia(ctx context.Context, collection, id string) (string, error) {
	val, err := c.client.Get(ctx, getCacheKey(collection, id, true)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

// SetDocumentMedia is best effort: a failed write only costs a later cache miss.
func (c *Cache) SetDocumentMedia(ctx context.Context, collection, id string, data []byte, ttl time.Duration) {
	logger.Debugf(ctx, "creating entry in cache for %s #%s, ttl %s...", collection, id, ttl)

	if err := c.client.Set(ctx, getCacheKey(collection, id, false), data, ttl).Err(); err != nil {
		logger.Warnf(ctx, "⚠️  redis set failed for %s #%s: %v", collection, id, err)
	}
}

func (c *Cache) SetEtagDocumentMedia(ctx context.Context, collection, id string, etag string, ttl time.Duration) {
	if err := c.client.Set(ctx, getCacheKey(collection, id, true), etag, ttl).Err(); err != nil {
		logger.Warnf(ctx, "⚠️  redis set etag failed for %s #%s: %v", collection, id, err)
	}
}

func (c *Cache) DeleteDocumentMedia(ctx context.Context, collection, id string) error {
	logger.Debugf(ctx, "deleting entry in cache for %s #%s...", collection, id)

	if err := c.client.Del(ctx, getCacheKey(collection, id, false)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (c *Cache) DeleteEtagDocumentMedia(ctx context.Context, collection, id string) error {
	if err := c.client.Del(ctx, getCacheKey(collection, id, true)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
// Ping reports whether Redis answers.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func getCacheKey(collection, id string, etag bool) string {
	key := "media:" + collection + ":" + id
	if etag {
		return "etag:" + key
	}
	return key
}
