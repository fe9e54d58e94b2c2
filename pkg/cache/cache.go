// Package cache provides byte-oriented caching for rendered artifacts and
// layout documents, with file, Redis, and null backends.
//
// Keys are content-addressed: a render key hashes the scene bytes and the
// output dimensions, so editing a scene file naturally invalidates its
// cached artifacts. The [Instrumented] wrapper reports hits, misses, and
// writes through the observability hooks.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/easel/pkg/observability"
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// instrumented wraps a Cache and reports operations through the
// observability hooks under a fixed key type label.
type instrumented struct {
	inner   Cache
	keyType string
}

// Instrumented wraps a cache so hits, misses, and writes are reported to
// the registered cache hooks, labeled with keyType.
func Instrumented(inner Cache, keyType string) Cache {
	return &instrumented{inner: inner, keyType: keyType}
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	}
	return err
}

func (c *instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumented) Close() error { return c.inner.Close() }

var _ Cache = (*instrumented)(nil)
