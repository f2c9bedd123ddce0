package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Different tenants (companies under different platform accounts) must not
// share cache namespaces even if record IDs ever collide.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:acme:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// VersionKey generates a prefixed version-counter key.
func (k *ScopedKeyer) VersionKey(companyID string) string {
	return k.prefix + k.inner.VersionKey(companyID)
}

// TreeKey generates a prefixed key for fetched trees.
func (k *ScopedKeyer) TreeKey(companyID string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(companyID, opts)
}

// LayoutKey generates a prefixed key for computed layouts.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
