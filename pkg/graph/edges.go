package graph

import (
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
)

// AddEdge creates an edge from node from to node to and emits EDGE_ADDED.
// When directed, from is the source and to the target.
//
// Missing endpoints fail with ErrElementNotFound under strict checking. With
// strict checking off they are created first when auto-creation is on, each
// emitting its own NODE_ADDED (from before to); otherwise nil is returned.
//
// A taken edge id fails with ErrElementExists under strict checking and
// returns the existing edge otherwise. Unless the graph is a multigraph, an
// edge already joining the two nodes in a compatible direction fails with
// ErrElementExists, or returns nil without strict checking. Two directed
// edges of opposite orientation are compatible.
func (g *Graph) AddEdge(id, from, to string, directed bool) (Edge, error) {
	return g.addEdge(id, from, to, directed, origin{})
}

// AddUndirectedEdge is AddEdge with directed set to false.
func (g *Graph) AddUndirectedEdge(id, from, to string) (Edge, error) {
	return g.addEdge(id, from, to, false, origin{})
}

func (g *Graph) addEdge(id, from, to string, directed bool, o origin) (Edge, error) {
	for {
		n0, n1, result, err := g.prepareEdge(id, from, to, directed)
		if n0 == nil || err != nil {
			return result, err
		}

		e, err := g.newEdge(id, n0, n1, directed)
		if err != nil {
			return nil, err
		}

		g.mu.Lock()
		_, taken := g.edges[id]
		cur0, cur1 := g.nodes[from], g.nodes[to]
		if taken || cur0 == nil || cur1 == nil ||
			cur0.nodeBase() != n0.nodeBase() || cur1.nodeBase() != n1.nodeBase() ||
			(!g.multigraph && g.conflictLocked(n0.nodeBase(), to, directed, nil) != nil) {
			// Another writer changed the endpoints meanwhile; re-apply policy.
			g.mu.Unlock()
			continue
		}
		b := e.edgeBase()
		if b.attached {
			g.mu.Unlock()
			return nil, errClassMismatch("edge %q is already registered", id)
		}
		b.attached = true
		g.edges[id] = e
		n0.nodeBase().link(id)
		n1.nodeBase().link(id)
		ev := g.event(EdgeAdded, ElementEdge, id, o)
		ev.From, ev.To, ev.Directed = from, to, directed
		g.mu.Unlock()

		g.listeners.dispatch(ev)
		return e, nil
	}
}

// prepareEdge resolves both endpoints under the graph policy, auto-creating
// them if allowed. It returns the endpoints when the edge can be built, or
// nil endpoints with the policy outcome otherwise.
func (g *Graph) prepareEdge(id, from, to string, directed bool) (Node, Node, Edge, error) {
	for {
		g.mu.RLock()
		strict, auto := g.strict, g.autoCreate
		existing, taken := g.edges[id]
		n0, ok0 := g.nodes[from]
		n1, ok1 := g.nodes[to]
		var conflict Edge
		if !taken && ok0 && ok1 && !g.multigraph {
			conflict = g.conflictLocked(n0.nodeBase(), to, directed, nil)
		}
		g.mu.RUnlock()

		switch {
		case taken:
			if strict {
				return nil, nil, nil, errExists(ElementEdge, id)
			}
			g.logger.Debug("edge already exists", "graph", g.id, "edge", id)
			return nil, nil, existing, nil

		case !ok0 || !ok1:
			missing := from
			if ok0 {
				missing = to
			}
			if strict {
				return nil, nil, nil, errNotFound(ElementNode, missing)
			}
			if !auto {
				g.logger.Debug("edge endpoint not found", "graph", g.id, "edge", id, "node", missing)
				return nil, nil, nil, nil
			}
			if _, err := g.addNode(missing, origin{}); err != nil {
				return nil, nil, nil, err
			}

		case conflict != nil:
			if strict {
				return nil, nil, nil, gserrors.Wrap(gserrors.ErrCodeElementAlreadyExists, ErrElementExists,
					"edge %q: %q already joins %q and %q", id, conflict.ID(), from, to)
			}
			g.logger.Debug("nodes already joined", "graph", g.id, "edge", id, "existing", conflict.ID())
			return nil, nil, nil, nil

		default:
			return n0, n1, nil, nil
		}
	}
}

// conflictLocked returns an edge of from, other than except, that an edge
// to to would duplicate in a simple graph.
func (g *Graph) conflictLocked(from *BaseNode, to string, directed bool, except *BaseEdge) Edge {
	return from.findEdgeLocked(to, func(b *BaseEdge) bool {
		if b == except {
			return false
		}
		if !directed || !b.directed {
			return true
		}
		return b.node0 == from.id && b.node1 == to
	})
}

// RemoveEdge removes the edge with the given id and emits EDGE_REMOVED.
//
// If the edge is absent, strict checking fails with ErrElementNotFound;
// otherwise nil is returned and no event is emitted.
func (g *Graph) RemoveEdge(id string) (Edge, error) {
	return g.removeEdge(id, origin{})
}

func (g *Graph) removeEdge(id string, o origin) (Edge, error) {
	g.mu.Lock()
	e, ok := g.edges[id]
	if !ok {
		strict := g.strict
		g.mu.Unlock()
		if strict {
			return nil, errNotFound(ElementEdge, id)
		}
		g.logger.Debug("edge not found", "graph", g.id, "edge", id)
		return nil, nil
	}
	ev := g.unlinkEdgeLocked(e, o)
	g.mu.Unlock()

	g.listeners.dispatch(ev)
	return e, nil
}

// RemoveEdgeBetween removes an edge that can be traversed from node from to
// node to. With parallel edges, the earliest inserted one in from's
// incidence list is removed.
//
// Missing nodes or a missing edge fail with ErrElementNotFound under strict
// checking; otherwise nil is returned and no event is emitted.
func (g *Graph) RemoveEdgeBetween(from, to string) (Edge, error) {
	g.mu.Lock()
	strict := g.strict
	n0, ok0 := g.nodes[from]
	_, ok1 := g.nodes[to]
	var e Edge
	if ok0 && ok1 {
		e = n0.nodeBase().findEdgeLocked(to, func(b *BaseEdge) bool { return b.leaves(from) })
	}
	if e == nil {
		g.mu.Unlock()
		if !strict {
			g.logger.Debug("no edge between nodes", "graph", g.id, "from", from, "to", to)
			return nil, nil
		}
		switch {
		case !ok0:
			return nil, errNotFound(ElementNode, from)
		case !ok1:
			return nil, errNotFound(ElementNode, to)
		}
		return nil, gserrors.Wrap(gserrors.ErrCodeElementNotFound, ErrElementNotFound,
			"no edge from %q to %q", from, to)
	}
	ev := g.unlinkEdgeLocked(e, origin{})
	g.mu.Unlock()

	g.listeners.dispatch(ev)
	return e, nil
}

// unlinkEdgeLocked unregisters e and returns its EDGE_REMOVED event.
func (g *Graph) unlinkEdgeLocked(e Edge, o origin) Event {
	b := e.edgeBase()
	delete(g.edges, b.id)
	if n, ok := g.nodes[b.node0]; ok {
		n.nodeBase().unlink(b.id)
	}
	if n, ok := g.nodes[b.node1]; ok {
		n.nodeBase().unlink(b.id)
	}
	b.attached = false
	return g.event(EdgeRemoved, ElementEdge, b.id, o)
}

// changeDirection applies a direction change to e. A registered edge is
// announced as removed and re-added; attributes follow only with
// WithAttributeReplay. In a simple graph a change that collides with another
// edge is undone.
func (g *Graph) changeDirection(e *BaseEdge, apply func() bool) error {
	g.mu.Lock()
	if !e.attached {
		apply()
		g.mu.Unlock()
		return nil
	}

	node0, node1, directed := e.node0, e.node1, e.directed
	if !apply() {
		g.mu.Unlock()
		return nil
	}
	if !g.multigraph {
		if conflict := g.conflictLocked(g.nodes[e.node0].nodeBase(), e.node1, e.directed, e); conflict != nil {
			e.node0, e.node1, e.directed = node0, node1, directed
			strict := g.strict
			g.mu.Unlock()
			if strict {
				return gserrors.Wrap(gserrors.ErrCodeElementAlreadyExists, ErrElementExists,
					"edge %q: %q already joins %q and %q", e.id, conflict.ID(), node0, node1)
			}
			g.logger.Debug("direction change would duplicate edge", "graph", g.id, "edge", e.id, "existing", conflict.ID())
			return nil
		}
	}
	removed := g.event(EdgeRemoved, ElementEdge, e.id, origin{})
	added := g.event(EdgeAdded, ElementEdge, e.id, origin{})
	added.From, added.To, added.Directed = e.node0, e.node1, e.directed
	events := []Event{removed, added}

	if g.replayAttrs {
		for _, k := range e.attrs.Keys() {
			v, _ := e.attrs.Get(k)
			ev := g.event(AttributeChangedEvent, ElementEdge, e.id, origin{})
			ev.Key, ev.Change, ev.NewValue = k, AttributeAdded, v
			events = append(events, ev)
		}
	}
	g.mu.Unlock()

	g.listeners.dispatch(events...)
	return nil
}
