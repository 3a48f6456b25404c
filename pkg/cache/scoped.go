package cache

// ScopedKeyer wraps a Keyer with a prefix so several installations, or
// several served logs, can share one cache without colliding. Scopes nest:
//
//	base := NewScopedKeyer(NewDefaultKeyer(), "graphstream:")
//	feed := NewScopedKeyer(base, "feed-1a2b3c:")
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

// RenderKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) RenderKey(dotHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(dotHash, opts)
}

// SnapshotKey generates a prefixed key for snapshots.
func (k *ScopedKeyer) SnapshotKey(graphID string, revision uint64) string {
	return k.prefix + k.inner.SnapshotKey(graphID, revision)
}
