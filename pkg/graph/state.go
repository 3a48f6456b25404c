package graph

import (
	"maps"
	"slices"
)

// State is a copy of a graph's structure and attributes taken at one point
// between mutations.
type State struct {
	ID          string
	LastEventID uint64
	Revision    uint64
	Step        float64
	Attributes  map[string]Value
	Nodes       []NodeState
	Edges       []EdgeState
}

// NodeState is one node of a [State].
type NodeState struct {
	ID         string
	Attributes map[string]Value
}

// EdgeState is one edge of a [State].
type EdgeState struct {
	ID         string
	From       string
	To         string
	Directed   bool
	Attributes map[string]Value
}

// State copies the graph under a single read lock, so on a concurrent graph
// the endpoints of every returned edge are among the returned nodes. Nodes
// and edges are ordered by id.
func (g *Graph) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()

	st := State{
		ID:          g.id,
		LastEventID: g.clock.current(),
		Revision:    g.revision,
		Step:        g.step,
		Attributes:  g.attrs.Snapshot(),
		Nodes:       make([]NodeState, 0, len(g.nodes)),
		Edges:       make([]EdgeState, 0, len(g.edges)),
	}
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		b := g.nodes[id].nodeBase()
		st.Nodes = append(st.Nodes, NodeState{ID: id, Attributes: b.attrs.Snapshot()})
	}
	for _, id := range slices.Sorted(maps.Keys(g.edges)) {
		b := g.edges[id].edgeBase()
		st.Edges = append(st.Edges, EdgeState{
			ID:         id,
			From:       b.node0,
			To:         b.node1,
			Directed:   b.directed,
			Attributes: b.attrs.Snapshot(),
		})
	}
	return st
}
