// Package cache provides content-addressed caching for layouts, rendered
// artifacts and data-source snapshots.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// # Keys
//
// Keys are built by a [Keyer] from a content hash plus every option that
// changes the output, so a hit is always safe to reuse:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(cache.Hash(graphJSON), cache.LayoutKeyOpts{Width: 900, Height: 600, Seed: 42})
//
// A cached layout is a recomputation shortcut only. The explorer never
// treats it as the authoritative layout of a graph; every relayout still
// goes through the layout engine.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry kind.
const (
	// TTLSnapshot keeps the last good response of a remote data source.
	TTLSnapshot = 7 * 24 * time.Hour
	// TTLLayout keeps computed layouts.
	TTLLayout = 24 * time.Hour
	// TTLArtifact keeps rendered outputs.
	TTLArtifact = 24 * time.Hour
)
