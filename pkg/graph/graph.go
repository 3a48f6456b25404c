package graph

import (
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Graph owns a set of nodes and edges, stamps every change with an event id
// and forwards it to its listeners. The graph is itself an [Element] whose
// attributes are reported with [ElementGraph], and a [Listener] that mirrors
// another graph's events.
//
// Use [New] for the single-threaded profile and [NewConcurrent] when several
// goroutines mutate or read the graph.
type Graph struct {
	element

	mu    rwLocker
	clock clock

	nodes map[string]Node
	edges map[string]Edge

	// revision counts stamped events, mirrored ones included; step is the
	// last STEP time. Both are guarded by mu.
	revision uint64
	step     float64

	// Policy; strict and autoCreate are guarded by mu.
	strict      bool
	autoCreate  bool
	multigraph  bool
	nullErrors  bool
	replayAttrs bool
	concurrent  bool

	nodeFactory NodeFactory
	edgeFactory EdgeFactory

	listeners *fanout
	seen      *seenEvents
	logger    *log.Logger
}

// Option configures a Graph at construction.
type Option func(*Graph)

// WithStrictChecking sets whether duplicate and missing ids are errors.
// The default is true.
func WithStrictChecking(on bool) Option {
	return func(g *Graph) { g.strict = on }
}

// WithAutoCreate sets whether AddEdge creates missing endpoints when strict
// checking is off. The default is false.
func WithAutoCreate(on bool) Option {
	return func(g *Graph) { g.autoCreate = on }
}

// WithMultigraph permits several edges between the same pair of nodes.
func WithMultigraph() Option {
	return func(g *Graph) { g.multigraph = true }
}

// WithNullAttributesAreErrors makes storing [None] fail with
// ErrIllegalAttribute instead of removing the attribute.
func WithNullAttributesAreErrors() Option {
	return func(g *Graph) { g.nullErrors = true }
}

// WithAttributeReplay makes SetDirected and SwitchDirection re-emit the
// edge's attributes as ADD events after the synthetic EDGE_ADDED, so that
// listeners rebuilding the edge do not lose them.
func WithAttributeReplay() Option {
	return func(g *Graph) { g.replayAttrs = true }
}

// WithNodeFactory replaces the node factory.
func WithNodeFactory(f NodeFactory) Option {
	return func(g *Graph) {
		if f != nil {
			g.nodeFactory = f
		}
	}
}

// WithEdgeFactory replaces the edge factory.
func WithEdgeFactory(f EdgeFactory) Option {
	return func(g *Graph) {
		if f != nil {
			g.edgeFactory = f
		}
	}
}

// WithLogger sets the logger receiving debug output for degraded operations
// in non-strict mode. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates an empty single-threaded graph. All mutation and listener
// dispatch happens on the calling goroutine; the graph must not be shared
// between goroutines without external synchronization.
//
// An empty id is replaced by a random UUID.
func New(id string, opts ...Option) *Graph {
	return newGraph(id, nopLocker{}, &seqClock{}, false, opts)
}

// NewConcurrent creates an empty graph safe for concurrent mutation and
// reads. Registries and incidence lists are guarded by a read/write lock and
// event ids come from an atomic counter. Ids are strictly increasing in the
// order changes are applied; listeners may observe events of different
// writers interleaved.
func NewConcurrent(id string, opts ...Option) *Graph {
	return newGraph(id, &sync.RWMutex{}, &atomicClock{}, true, opts)
}

func newGraph(id string, mu rwLocker, c clock, concurrent bool, opts []Option) *Graph {
	if id == "" {
		id = uuid.NewString()
	}
	g := &Graph{
		mu:          mu,
		clock:       c,
		nodes:       make(map[string]Node),
		edges:       make(map[string]Edge),
		strict:      true,
		concurrent:  concurrent,
		nodeFactory: DefaultNodeFactory,
		edgeFactory: DefaultEdgeFactory,
		listeners:   newFanout(!concurrent),
		seen:        newSeenEvents(),
		logger:      log.New(io.Discard),
	}
	g.init(g, id, ElementGraph)
	g.attached = true
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// origin carries the (source, event id) pair of a mirrored change. The zero
// origin means the change starts here and gets a fresh id.
type origin struct {
	source string
	id     uint64
}

// stamp returns the source and event id for the next event.
func (g *Graph) stamp(o origin) (string, uint64) {
	g.revision++
	if o.source == "" {
		return g.id, g.clock.next()
	}
	return o.source, o.id
}

func (g *Graph) event(kind EventKind, t ElementType, id string, o origin) Event {
	src, eid := g.stamp(o)
	return Event{Kind: kind, SourceID: src, EventID: eid, ElementType: t, ElementID: id}
}

// =============================================================================
// Policy
// =============================================================================

// StrictChecking reports whether duplicate and missing ids are errors.
func (g *Graph) StrictChecking() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.strict
}

// SetStrictChecking changes the strict checking policy.
func (g *Graph) SetStrictChecking(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.strict = on
}

// AutoCreate reports whether AddEdge creates missing endpoints.
func (g *Graph) AutoCreate() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.autoCreate
}

// SetAutoCreate changes the auto-creation policy. It only takes effect while
// strict checking is off.
func (g *Graph) SetAutoCreate(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.autoCreate = on
}

// Multigraph reports whether parallel edges are permitted.
func (g *Graph) Multigraph() bool { return g.multigraph }

// NullAttributesAreErrors reports whether storing None fails.
func (g *Graph) NullAttributesAreErrors() bool { return g.nullErrors }

// Concurrent reports whether g was built with [NewConcurrent].
func (g *Graph) Concurrent() bool { return g.concurrent }

// NodeFactory returns the node factory.
func (g *Graph) NodeFactory() NodeFactory {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodeFactory
}

// SetNodeFactory replaces the node factory for subsequently created nodes.
// A nil factory restores [DefaultNodeFactory].
func (g *Graph) SetNodeFactory(f NodeFactory) {
	if f == nil {
		f = DefaultNodeFactory
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodeFactory = f
}

// EdgeFactory returns the edge factory.
func (g *Graph) EdgeFactory() EdgeFactory {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edgeFactory
}

// SetEdgeFactory replaces the edge factory for subsequently created edges.
// A nil factory restores [DefaultEdgeFactory].
func (g *Graph) SetEdgeFactory(f EdgeFactory) {
	if f == nil {
		f = DefaultEdgeFactory
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edgeFactory = f
}

// LastEventID returns the most recently issued event id, 0 before the first
// event.
func (g *Graph) LastEventID() uint64 { return g.clock.current() }

// Revision returns the number of events the graph has emitted, mirrored
// events included. It changes whenever the graph's state may have changed.
func (g *Graph) Revision() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.revision
}

// Step returns the time of the last STEP event, 0 before the first.
func (g *Graph) Step() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.step
}

// =============================================================================
// Queries
// =============================================================================

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[id]
}

// Edge returns the edge with the given id, or nil.
func (g *Graph) Edge(id string) Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[id]
}

// HasNode reports whether a node with id is present.
func (g *Graph) HasNode(id string) bool { return g.Node(id) != nil }

// HasEdge reports whether an edge with id is present.
func (g *Graph) HasEdge(id string) bool { return g.Edge(id) != nil }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Nodes returns every node ordered by id.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, 0, len(g.nodes))
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns every edge ordered by id.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, 0, len(g.edges))
	for _, id := range slices.Sorted(maps.Keys(g.edges)) {
		out = append(out, g.edges[id])
	}
	return out
}

// =============================================================================
// Listeners
// =============================================================================

// AddListener registers l on both the elements and attributes channels.
// On a single-threaded graph, registering from inside a callback fails with
// ErrListenerDispatch.
func (g *Graph) AddListener(l Listener) error {
	if err := g.listeners.addElementListener(l); err != nil {
		return err
	}
	return g.listeners.addAttributeListener(l)
}

// RemoveListener unregisters l from both channels.
func (g *Graph) RemoveListener(l Listener) error {
	if err := g.listeners.removeElementListener(l); err != nil {
		return err
	}
	return g.listeners.removeAttributeListener(l)
}

// AddElementListener registers l for structural and step events.
func (g *Graph) AddElementListener(l ElementListener) error {
	return g.listeners.addElementListener(l)
}

// RemoveElementListener unregisters l from the elements channel.
func (g *Graph) RemoveElementListener(l ElementListener) error {
	return g.listeners.removeElementListener(l)
}

// AddAttributeListener registers l for attribute changes.
func (g *Graph) AddAttributeListener(l AttributeListener) error {
	return g.listeners.addAttributeListener(l)
}

// RemoveAttributeListener unregisters l from the attributes channel.
func (g *Graph) RemoveAttributeListener(l AttributeListener) error {
	return g.listeners.removeAttributeListener(l)
}

// ClearListeners unregisters every listener.
func (g *Graph) ClearListeners() error {
	return g.listeners.clear()
}

// ElementListeners returns the elements channel in registration order.
func (g *Graph) ElementListeners() []ElementListener {
	return slices.Clone(g.listeners.elementSnapshot())
}

// AttributeListeners returns the attributes channel in registration order.
func (g *Graph) AttributeListeners() []AttributeListener {
	return slices.Clone(g.listeners.attributeSnapshot())
}
