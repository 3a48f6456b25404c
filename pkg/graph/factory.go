package graph

import "reflect"

// NodeFactory creates the nodes of a graph. Implementations must return a
// node built with [NewBaseNode] for the same graph and id.
type NodeFactory interface {
	NewNode(g *Graph, id string) Node
}

// EdgeFactory creates the edges of a graph. Implementations must return an
// edge built with [NewBaseEdge] for the same graph, id and endpoints.
type EdgeFactory interface {
	NewEdge(g *Graph, id string, from, to Node, directed bool) Edge
}

// NodeFactoryFunc adapts a function to [NodeFactory].
type NodeFactoryFunc func(g *Graph, id string) Node

func (f NodeFactoryFunc) NewNode(g *Graph, id string) Node { return f(g, id) }

// EdgeFactoryFunc adapts a function to [EdgeFactory].
type EdgeFactoryFunc func(g *Graph, id string, from, to Node, directed bool) Edge

func (f EdgeFactoryFunc) NewEdge(g *Graph, id string, from, to Node, directed bool) Edge {
	return f(g, id, from, to, directed)
}

// DefaultNodeFactory builds [BaseNode]s.
var DefaultNodeFactory NodeFactory = NodeFactoryFunc(func(g *Graph, id string) Node {
	return NewBaseNode(g, id)
})

// DefaultEdgeFactory builds [BaseEdge]s.
var DefaultEdgeFactory EdgeFactory = EdgeFactoryFunc(func(g *Graph, id string, from, to Node, directed bool) Edge {
	return NewBaseEdge(g, id, from, to, directed)
})

// newNode runs the node factory and checks that its product belongs to g.
func (g *Graph) newNode(id string) (Node, error) {
	g.mu.RLock()
	f := g.nodeFactory
	g.mu.RUnlock()

	n := f.NewNode(g, id)
	if isNil(n) || n.nodeBase() == nil {
		return nil, errClassMismatch("node factory returned no node for %q", id)
	}
	b := n.nodeBase()
	switch {
	case b.g != g:
		return nil, errClassMismatch("node %q was built for another graph", id)
	case b.id != id:
		return nil, errClassMismatch("node factory returned %q for %q", b.id, id)
	case b.typ != ElementNode:
		return nil, errClassMismatch("node %q is not a node element", id)
	}
	return n, nil
}

// newEdge runs the edge factory and checks that its product belongs to g and
// joins the requested endpoints.
func (g *Graph) newEdge(id string, from, to Node, directed bool) (Edge, error) {
	g.mu.RLock()
	f := g.edgeFactory
	g.mu.RUnlock()

	e := f.NewEdge(g, id, from, to, directed)
	if isNil(e) || e.edgeBase() == nil {
		return nil, errClassMismatch("edge factory returned no edge for %q", id)
	}
	b := e.edgeBase()
	switch {
	case b.g != g:
		return nil, errClassMismatch("edge %q was built for another graph", id)
	case b.id != id:
		return nil, errClassMismatch("edge factory returned %q for %q", b.id, id)
	case b.typ != ElementEdge:
		return nil, errClassMismatch("edge %q is not an edge element", id)
	case b.node0 != from.ID() || b.node1 != to.ID() || b.directed != directed:
		return nil, errClassMismatch("edge %q does not join %q and %q as requested", id, from.ID(), to.ID())
	}
	return e, nil
}

// isNil catches typed nil pointers returned through an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}
