package cache

import (
	"context"
	"time"
)

// SceneKey identifies a scene by content hash.
func SceneKey(sceneBytes []byte) string {
	return "scene:" + Hash(sceneBytes)
}

// LayoutKey identifies the solved layout document of a scene.
func LayoutKey(sceneBytes []byte) string {
	return hashKey("layout", Hash(sceneBytes))
}

// RenderKey identifies a rendered artifact: the scene content plus the
// output dimensions it was rasterized at.
func RenderKey(sceneBytes []byte, width, height int) string {
	return hashKey("render", Hash(sceneBytes), width, height)
}

// prefixed namespaces every key of an inner cache, isolating tenants or
// deployments sharing one backend.
type prefixed struct {
	inner  Cache
	prefix string
}

// WithPrefix wraps a cache so every key is namespaced under prefix.
func WithPrefix(inner Cache, prefix string) Cache {
	return &prefixed{inner: inner, prefix: prefix}
}

func (c *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

func (c *prefixed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

func (c *prefixed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

func (c *prefixed) Close() error { return c.inner.Close() }

var _ Cache = (*prefixed)(nil)
