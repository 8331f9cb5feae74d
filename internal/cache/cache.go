// Package cache provides the resolution cache for the deep-link resolver.
//
// Backends store opaque byte values; the resolver serializes resolution
// records itself. The memory backend is a TTL-aware LRU; the redis backend
// shares resolutions across resolver instances.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/vyrodovalexey/navlink/internal/config"
	"github.com/vyrodovalexey/navlink/internal/observability"
)

// Common cache errors.
var (
	// ErrCacheMiss indicates that the key was not found in the cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidConfig indicates that the cache configuration is invalid.
	ErrInvalidConfig = errors.New("invalid cache configuration")
)

// Cache is the interface implemented by all backends.
type Cache interface {
	// Get retrieves a value. Returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A TTL of 0 applies the
	// backend's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a live entry is present without touching its
	// recency or hit counters.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases backend resources.
	Close() error
}

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int64
}

// StatsProvider is implemented by backends that track statistics.
type StatsProvider interface {
	Stats() Stats
}

// New creates a cache backend from configuration.
func New(cfg *config.CacheConfig, logger observability.Logger) (Cache, error) {
	if cfg == nil || !cfg.Enabled {
		return newDisabledCache(), nil
	}

	switch cfg.Backend {
	case "", "memory":
		return newMemoryCache(cfg, logger), nil
	case "redis":
		return newRedisCache(cfg, logger)
	case "disabled":
		return newDisabledCache(), nil
	default:
		return nil, ErrInvalidConfig
	}
}

// disabledCache is a no-op backend used when caching is turned off.
type disabledCache struct{}

func newDisabledCache() *disabledCache {
	return &disabledCache{}
}

func (c *disabledCache) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheMiss
}

func (c *disabledCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (c *disabledCache) Delete(context.Context, string) error {
	return nil
}

func (c *disabledCache) Exists(context.Context, string) (bool, error) {
	return false, nil
}

func (c *disabledCache) Close() error {
	return nil
}
