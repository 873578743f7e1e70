// Package cache provides pluggable byte caches for API responses, plus the
// retry helpers the API clients use around cache misses.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [NullCache]: never stores anything (--no-cache, tests)
//   - [RedisCache]: shared cache for `fundamental serve` deployments
//   - [MongoCache]: shared cache backed by a MongoDB collection
//
// [Open] selects a backend from a URL:
//
//	c, err := cache.Open(ctx, "redis://localhost:6379/0", dir)
//	c, err := cache.Open(ctx, "", dir) // file cache in dir
//
// All backends are safe for concurrent use.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Open returns a Cache for rawURL. An empty URL or a file:// URL selects a
// FileCache (dir is used when the URL has no path); "none" selects a
// NullCache; redis:// and rediss:// select Redis; mongodb:// and
// mongodb+srv:// select MongoDB.
func Open(ctx context.Context, rawURL, dir string) (Cache, error) {
	if rawURL == "" {
		return openFile(dir)
	}
	if rawURL == "none" {
		return NewNullCache(), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse cache url: %w", err)
	}
	switch u.Scheme {
	case "file":
		if u.Path != "" {
			dir = u.Path
		}
		return openFile(dir)
	case "redis", "rediss":
		c, err := NewRedisCache(ctx, rawURL, "fundamental:")
		if err != nil {
			return nil, err
		}
		return c, nil
	case "mongodb", "mongodb+srv":
		c, err := NewMongoCache(ctx, rawURL, "fundamental", "http_cache")
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache scheme %q", u.Scheme)
	}
}

func openFile(dir string) (Cache, error) {
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NullCache stores nothing; every Get is a miss. It backs --no-cache.
type NullCache struct{}

// NewNullCache returns a NullCache as a Cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
