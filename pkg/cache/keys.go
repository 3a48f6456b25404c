package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Key types reported to the cache hooks.
const (
	KeyTypeRender   = "render"
	KeyTypeSnapshot = "snapshot"
)

// RenderKeyOpts are the render settings that change the produced artifact.
type RenderKeyOpts struct {
	Format       string
	Detailed     bool
	UsePositions bool
}

// Keyer derives cache keys.
type Keyer interface {
	// RenderKey keys an artifact rendered from DOT source with the given hash.
	RenderKey(dotHash string, opts RenderKeyOpts) string

	// SnapshotKey keys the snapshot of graphID at the given revision.
	SnapshotKey(graphID string, revision uint64) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey hashes dotHash together with opts.
func (DefaultKeyer) RenderKey(dotHash string, opts RenderKeyOpts) string {
	return hashKey(KeyTypeRender, dotHash, opts)
}

// SnapshotKey hashes the graph id and revision.
func (DefaultKeyer) SnapshotKey(graphID string, revision uint64) string {
	return hashKey(KeyTypeSnapshot, graphID, revision)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<keyType>:<digest of parts>". Parts are formatted with %v
// and separated by NUL, so ("ab", "c") and ("a", "bc") differ.
func hashKey(keyType string, parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%v\x00", p)
	}
	return keyType + ":" + hex.EncodeToString(h.Sum(nil))
}
