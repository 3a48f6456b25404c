// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about graph changes, log replay, cache
// operations and backend store calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The graph core never calls hooks itself. Graph events reach [GraphHooks]
// through [Listener], a graph listener registered by the application.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    c := prom.NewCollector("graphstream")
//	    observability.SetGraphHooks(c)
//	    observability.SetCacheHooks(c)
//	    g.AddListener(observability.Listener())
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Replay().OnReplayStart(ctx, path)
//	// ... apply events ...
//	observability.Replay().OnReplayComplete(ctx, path, n, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/graphstream/pkg/graph"
)

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives the events emitted by instrumented graphs.
type GraphHooks interface {
	// OnEvent records one event of the given kind from graph source.
	OnEvent(source string, kind string)
}

// =============================================================================
// Replay Hooks
// =============================================================================

// ReplayHooks receives events from event log replay and rendering.
type ReplayHooks interface {
	OnReplayStart(ctx context.Context, source string)
	OnReplayComplete(ctx context.Context, source string, events int, duration time.Duration, err error)

	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from the Redis and Mongo backends.
type StoreHooks interface {
	// OnStoreOp records one backend round trip.
	OnStoreOp(ctx context.Context, backend, op string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnEvent(string, string) {}

// NoopReplayHooks is a no-op implementation of ReplayHooks.
type NoopReplayHooks struct{}

func (NoopReplayHooks) OnReplayStart(context.Context, string)                               {}
func (NoopReplayHooks) OnReplayComplete(context.Context, string, int, time.Duration, error) {}
func (NoopReplayHooks) OnRenderComplete(context.Context, string, time.Duration, error)      {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreOp(context.Context, string, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	graphHooks  GraphHooks  = NoopGraphHooks{}
	replayHooks ReplayHooks = NoopReplayHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetGraphHooks registers custom graph hooks.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetReplayHooks registers custom replay hooks.
// This should be called once at application startup.
func SetReplayHooks(h ReplayHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		replayHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Replay returns the registered replay hooks.
func Replay() ReplayHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return replayHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	graphHooks = NoopGraphHooks{}
	replayHooks = NoopReplayHooks{}
	cacheHooks = NoopCacheHooks{}
	storeHooks = NoopStoreHooks{}
}

// =============================================================================
// Graph Listener
// =============================================================================

// Listener returns a graph listener forwarding every event to the graph
// hooks registered at the time of the event.
func Listener() graph.Listener {
	return graph.EventFunc(func(e graph.Event) {
		Graph().OnEvent(e.SourceID, e.Kind.String())
	})
}
