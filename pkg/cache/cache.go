// Package cache provides the caching layer for the org-chart pipeline.
//
// Each pipeline stage (fetch, layout, render) caches its output under a key
// derived from its inputs: fetched trees are keyed by company, scope filters,
// and a per-company version; layouts by the tree's content hash and the
// layout options; artifacts by the layout hash and render options. Because
// the downstream keys are content-hashed, invalidating a company after a
// mutation only requires bumping its version counter.
//
// Backends: [FileCache] for the CLI, [RedisCache] for multi-instance server
// deployments, [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// TTLs for each pipeline stage. Fetched trees go stale quickly since admins
// edit records; layouts and artifacts are content-addressed and can live
// longer.
const (
	TTLTree     = 5 * time.Minute
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
	TTLVersion  = 0 // never expires
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of zero means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TreeKeyOpts are the inputs that distinguish one fetched tree from another.
type TreeKeyOpts struct {
	Version      int64    `json:"version"`
	SchoolIDs    []string `json:"school_ids,omitempty"`
	BranchIDs    []string `json:"branch_ids,omitempty"`
	ShowInactive bool     `json:"show_inactive,omitempty"`
	Expanded     []string `json:"expanded,omitempty"` // sorted expanded node IDs driving lazy loads
}

// LayoutKeyOpts are the layout parameters that affect positions.
type LayoutKeyOpts struct {
	GapX              float64 `json:"gap_x"`
	GapY              float64 `json:"gap_y"`
	CenterParents     bool    `json:"center_parents"`
	MaxSiblingsPerRow int     `json:"max_siblings_per_row"`
	CompactGapX       float64 `json:"compact_gap_x"`
	RowGapY           float64 `json:"row_gap_y"`
	Margin            float64 `json:"margin"`
	DimsHash          string  `json:"dims_hash,omitempty"`
}

// ArtifactKeyOpts are the render parameters that affect output bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
	Badges   bool   `json:"badges,omitempty"`
}

// Keyer generates cache keys for the pipeline stages. Implementations must
// be deterministic: identical inputs yield identical keys.
type Keyer interface {
	// VersionKey returns the key holding a company's cache version counter.
	VersionKey(companyID string) string

	// TreeKey returns the key for a fetched and normalized tree.
	TreeKey(companyID string, opts TreeKeyOpts) string

	// LayoutKey returns the key for a computed layout.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// VersionKey returns "orgver:<companyID>". Version keys are not hashed so
// they stay greppable in Redis.
func (DefaultKeyer) VersionKey(companyID string) string {
	return "orgver:" + companyID
}

// TreeKey generates a key for a fetched tree.
func (DefaultKeyer) TreeKey(companyID string, opts TreeKeyOpts) string {
	return hashKey("tree", companyID, opts)
}

// LayoutKey generates a key for a computed layout.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
