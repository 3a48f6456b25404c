package graph

import "slices"

// Node is a graph vertex. Nodes are created by a graph's [NodeFactory] and
// only through [Graph.AddNode] or auto-creation in [Graph.AddEdge].
//
// Custom node types embed *[BaseNode] and are produced by a custom factory:
//
//	type City struct {
//	    *graph.BaseNode
//	    Population int
//	}
//
//	factory := graph.NodeFactoryFunc(func(g *graph.Graph, id string) graph.Node {
//	    return &City{BaseNode: graph.NewBaseNode(g, id)}
//	})
type Node interface {
	Element

	// Graph returns the graph the node was built for.
	Graph() *Graph

	// Degree is the number of incident edges. A loop counts once.
	Degree() int

	// InDegree counts incident edges entering the node: directed edges
	// targeting it and every undirected edge.
	InDegree() int

	// OutDegree counts incident edges leaving the node: directed edges
	// sourced at it and every undirected edge.
	OutDegree() int

	// EdgeSet returns the incident edges in insertion order.
	EdgeSet() []Edge
	EnteringEdges() []Edge
	LeavingEdges() []Edge

	// Neighbors returns the distinct opposite endpoints of the incident edges.
	Neighbors() []Node

	// EdgeBetween returns an edge connecting this node and id in any
	// direction, or nil.
	EdgeBetween(id string) Edge

	// EdgeToward returns an edge that can be traversed from this node to id:
	// an undirected edge or a directed edge sourced here. Nil if none.
	EdgeToward(id string) Edge

	// EdgeFrom returns an edge that can be traversed from id to this node.
	EdgeFrom(id string) Edge

	HasEdgeBetween(id string) bool
	HasEdgeToward(id string) bool
	HasEdgeFrom(id string) bool

	nodeBase() *BaseNode
}

// BaseNode is the default [Node] implementation. Its incidence list holds
// edge ids that are resolved through the owning graph.
type BaseNode struct {
	element

	// edges lists incident edge ids in insertion order; guarded by g.mu.
	edges []string
}

// NewBaseNode returns a detached node for g. It is registered when returned
// from g's node factory.
func NewBaseNode(g *Graph, id string) *BaseNode {
	n := &BaseNode{}
	n.init(g, id, ElementNode)
	return n
}

func (n *BaseNode) nodeBase() *BaseNode { return n }

func (n *BaseNode) Graph() *Graph { return n.g }

func (n *BaseNode) Degree() int {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	return len(n.edges)
}

func (n *BaseNode) InDegree() int {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	count := 0
	for _, e := range n.edgesLocked() {
		if e.edgeBase().enters(n.id) {
			count++
		}
	}
	return count
}

func (n *BaseNode) OutDegree() int {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	count := 0
	for _, e := range n.edgesLocked() {
		if e.edgeBase().leaves(n.id) {
			count++
		}
	}
	return count
}

func (n *BaseNode) EdgeSet() []Edge {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	return n.edgesLocked()
}

func (n *BaseNode) EnteringEdges() []Edge {
	return n.filterEdges(func(b *BaseEdge) bool { return b.enters(n.id) })
}

func (n *BaseNode) LeavingEdges() []Edge {
	return n.filterEdges(func(b *BaseEdge) bool { return b.leaves(n.id) })
}

func (n *BaseNode) Neighbors() []Node {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	var out []Node
	seen := make(map[string]bool)
	for _, e := range n.edgesLocked() {
		other, _ := e.edgeBase().oppositeID(n.id)
		if seen[other] {
			continue
		}
		seen[other] = true
		if o, ok := n.g.nodes[other]; ok {
			out = append(out, o)
		}
	}
	return out
}

func (n *BaseNode) EdgeBetween(id string) Edge {
	return n.findEdge(id, func(*BaseEdge) bool { return true })
}

func (n *BaseNode) EdgeToward(id string) Edge {
	return n.findEdge(id, func(b *BaseEdge) bool { return b.leaves(n.id) })
}

func (n *BaseNode) EdgeFrom(id string) Edge {
	return n.findEdge(id, func(b *BaseEdge) bool { return b.enters(n.id) })
}

func (n *BaseNode) HasEdgeBetween(id string) bool { return n.EdgeBetween(id) != nil }
func (n *BaseNode) HasEdgeToward(id string) bool  { return n.EdgeToward(id) != nil }
func (n *BaseNode) HasEdgeFrom(id string) bool    { return n.EdgeFrom(id) != nil }

func (n *BaseNode) filterEdges(keep func(*BaseEdge) bool) []Edge {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	var out []Edge
	for _, e := range n.edgesLocked() {
		if keep(e.edgeBase()) {
			out = append(out, e)
		}
	}
	return out
}

func (n *BaseNode) findEdge(other string, keep func(*BaseEdge) bool) Edge {
	n.g.mu.RLock()
	defer n.g.mu.RUnlock()
	return n.findEdgeLocked(other, keep)
}

func (n *BaseNode) findEdgeLocked(other string, keep func(*BaseEdge) bool) Edge {
	for _, e := range n.edgesLocked() {
		b := e.edgeBase()
		if o, _ := b.oppositeID(n.id); o == other && keep(b) {
			return e
		}
	}
	return nil
}

// edgesLocked resolves the incidence list. Callers hold g.mu.
func (n *BaseNode) edgesLocked() []Edge {
	out := make([]Edge, 0, len(n.edges))
	for _, id := range n.edges {
		if e, ok := n.g.edges[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (n *BaseNode) link(edgeID string) {
	if !slices.Contains(n.edges, edgeID) {
		n.edges = append(n.edges, edgeID)
	}
}

func (n *BaseNode) unlink(edgeID string) {
	if i := slices.Index(n.edges, edgeID); i >= 0 {
		n.edges = slices.Delete(n.edges, i, i+1)
	}
}
