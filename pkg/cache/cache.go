// Package cache stores rendered artifacts so repeated renders of the same
// seeded painting can skip both the subdivision and the encoding step.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for teams and CI runners
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes every option that affects
// the output bytes, and [ScopedKeyer] namespaces keys of another keyer.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	ArtifactKey(opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists everything that changes a rendered artifact's bytes.
type ArtifactKeyOpts struct {
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Style         string   `json:"style"`
	Seed          uint64   `json:"seed"`
	Padding       int      `json:"padding"`
	MinCanvasSize int      `json:"min_size"`
	Axis          string   `json:"axis"`
	Palettes      []string `json:"palettes,omitempty"`
	Format        string   `json:"format"`
	Scale         int      `json:"scale"`
	MaxDepth      int      `json:"max_depth,omitempty"` // diagrams only
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256 of opts>".
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey("artifact", opts)
}
