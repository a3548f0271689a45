package cache

// ScopedKeyer wraps a Keyer with a prefix so that several producers can
// share one backend without colliding. The HTTP service scopes its keys
// with "api:" and the CLI with "cli:".
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(venueHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(venueHash, opts)
}
