package graph

// Edge connects two nodes, possibly the same node twice (a loop). When
// directed, Node0 is the source and Node1 the target.
type Edge interface {
	Element

	// Graph returns the graph the edge was built for.
	Graph() *Graph

	Node0() Node
	Node1() Node

	// Source and Target are Node0 and Node1 respectively.
	Source() Node
	Target() Node

	// Opposite returns the other endpoint of n, or nil if n is not an
	// endpoint. For a loop the opposite of the node is itself.
	Opposite(n Node) Node

	IsDirected() bool

	// IsLoop reports whether both endpoints are the same node.
	IsLoop() bool

	// SetDirected changes the directedness. Listeners observe an EDGE_REMOVED
	// immediately followed by an EDGE_ADDED for the same id; unless the graph
	// was built with [WithAttributeReplay], the re-added edge reaches them
	// without attributes.
	//
	// In a simple graph a change that would make the edge duplicate another
	// one between the same nodes is refused: strict checking fails with
	// ErrElementExists, otherwise the edge is left as it was.
	SetDirected(directed bool) error

	// SwitchDirection swaps Node0 and Node1, with the same event pair and
	// conflict rule as SetDirected.
	SwitchDirection() error

	edgeBase() *BaseEdge
}

// BaseEdge is the default [Edge] implementation. Endpoints are held as node
// ids and resolved through the owning graph.
type BaseEdge struct {
	element

	// node0, node1 and directed are guarded by g.mu.
	node0    string
	node1    string
	directed bool
}

// NewBaseEdge returns a detached edge between from and to for g. It is
// registered when returned from g's edge factory.
func NewBaseEdge(g *Graph, id string, from, to Node, directed bool) *BaseEdge {
	e := &BaseEdge{directed: directed}
	e.init(g, id, ElementEdge)
	if from != nil {
		e.node0 = from.ID()
	}
	if to != nil {
		e.node1 = to.ID()
	}
	return e
}

func (e *BaseEdge) edgeBase() *BaseEdge { return e }

func (e *BaseEdge) Graph() *Graph { return e.g }

func (e *BaseEdge) Node0() Node {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	return e.endpointLocked(e.node0)
}

func (e *BaseEdge) Node1() Node {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	return e.endpointLocked(e.node1)
}

func (e *BaseEdge) Source() Node { return e.Node0() }
func (e *BaseEdge) Target() Node { return e.Node1() }

func (e *BaseEdge) Opposite(n Node) Node {
	if n == nil {
		return nil
	}
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	cur := e.endpointLocked(n.ID())
	if cur == nil || cur.nodeBase() != n.nodeBase() {
		return nil
	}
	other, ok := e.oppositeID(n.ID())
	if !ok {
		return nil
	}
	return e.endpointLocked(other)
}

func (e *BaseEdge) IsDirected() bool {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	return e.directed
}

func (e *BaseEdge) IsLoop() bool {
	e.g.mu.RLock()
	defer e.g.mu.RUnlock()
	return e.node0 == e.node1
}

func (e *BaseEdge) SetDirected(directed bool) error {
	return e.g.changeDirection(e, func() bool {
		if e.directed == directed {
			return false
		}
		e.directed = directed
		return true
	})
}

func (e *BaseEdge) SwitchDirection() error {
	return e.g.changeDirection(e, func() bool {
		e.node0, e.node1 = e.node1, e.node0
		return true
	})
}

// endpointLocked resolves an endpoint id while the edge is registered.
func (e *BaseEdge) endpointLocked(id string) Node {
	if !e.attached || (id != e.node0 && id != e.node1) {
		return nil
	}
	return e.g.nodes[id]
}

func (e *BaseEdge) oppositeID(id string) (string, bool) {
	switch id {
	case e.node0:
		return e.node1, true
	case e.node1:
		return e.node0, true
	}
	return "", false
}

// leaves reports whether the edge can be traversed away from node id.
func (e *BaseEdge) leaves(id string) bool {
	return !e.directed || e.node0 == id
}

// enters reports whether the edge can be traversed into node id.
func (e *BaseEdge) enters(id string) bool {
	return !e.directed || e.node1 == id
}
