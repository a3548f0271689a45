// Package cache stores rendered venue artifacts.
//
// Every backend implements [Cache], a byte-oriented key/value store with
// optional expiry. Keys come from a [Keyer] so that equal inputs (venue
// content plus render options) always map to the same entry:
//
//	c, err := cache.Open(ctx, cache.Config{Backend: cache.BackendFile, Dir: dir})
//	key := cache.NewDefaultKeyer().ArtifactKey(venueHash, cache.ArtifactKeyOpts{Format: "svg"})
//	data, hit, err := c.Get(ctx, key)
//
// Backends: [FileCache] for the CLI, [RedisCache] and [MongoCache] for the
// shared HTTP service, and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for rendered artifacts.
//
// A miss is reported as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLArtifact is how long rendered outputs stay cached. Artifacts are keyed
// by content, so the TTL only bounds disk use.
const TTLArtifact = 7 * 24 * time.Hour

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered output of the venue whose
	// content hash is venueHash.
	ArtifactKey(venueHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every option that changes a rendered output.
type ArtifactKeyOpts struct {
	Format   string   `json:"format"`
	Style    string   `json:"style,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`
	Padding  float64  `json:"padding,omitempty"`
	Include  []string `json:"include,omitempty"`
	Title    string   `json:"title,omitempty"`
}

// DefaultKeyer produces keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the venue hash together with the options.
func (DefaultKeyer) ArtifactKey(venueHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", venueHash, opts)
}
