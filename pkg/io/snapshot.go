package io

import (
	"fmt"

	"github.com/matzehuels/graphstream/pkg/graph"
)

// Snapshot is the serializable state of a graph.
type Snapshot struct {
	ID         string         `json:"id" bson:"graph_id"`
	Step       float64        `json:"step,omitempty" bson:"step"`
	Attributes map[string]any `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Nodes      []NodeRecord   `json:"nodes" bson:"nodes"`
	Edges      []EdgeRecord   `json:"edges" bson:"edges"`
}

// NodeRecord is one node of a [Snapshot].
type NodeRecord struct {
	ID         string         `json:"id" bson:"id"`
	Attributes map[string]any `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

// EdgeRecord is one edge of a [Snapshot].
type EdgeRecord struct {
	ID         string         `json:"id" bson:"id"`
	From       string         `json:"from" bson:"from"`
	To         string         `json:"to" bson:"to"`
	Directed   bool           `json:"directed" bson:"directed"`
	Attributes map[string]any `json:"attributes,omitempty" bson:"attributes,omitempty"`
}

// Capture records the current state of g, read atomically, so a snapshot of
// a concurrent graph under mutation never holds an edge without its
// endpoints. Nodes and edges are ordered by id.
func Capture(g *graph.Graph) *Snapshot {
	return FromState(g.State())
}

// FromState converts a graph state into a snapshot.
func FromState(st graph.State) *Snapshot {
	s := &Snapshot{
		ID:         st.ID,
		Step:       st.Step,
		Attributes: plain(st.Attributes),
		Nodes:      make([]NodeRecord, 0, len(st.Nodes)),
		Edges:      make([]EdgeRecord, 0, len(st.Edges)),
	}
	for _, n := range st.Nodes {
		s.Nodes = append(s.Nodes, NodeRecord{ID: n.ID, Attributes: plain(n.Attributes)})
	}
	for _, e := range st.Edges {
		s.Edges = append(s.Edges, EdgeRecord{
			ID:         e.ID,
			From:       e.From,
			To:         e.To,
			Directed:   e.Directed,
			Attributes: plain(e.Attributes),
		})
	}
	return s
}

// Restore adds the snapshot's elements and attributes to g. Nodes are added
// before edges; attributes follow their element. The first failure is
// returned with the offending element in context.
func (s *Snapshot) Restore(g *graph.Graph) error {
	if err := g.SetAttributes(s.Attributes); err != nil {
		return fmt.Errorf("graph attributes: %w", err)
	}
	for _, rec := range s.Nodes {
		n, err := g.AddNode(rec.ID)
		if err != nil {
			return fmt.Errorf("node %s: %w", rec.ID, err)
		}
		if n == nil {
			continue
		}
		if err := n.SetAttributes(rec.Attributes); err != nil {
			return fmt.Errorf("node %s: %w", rec.ID, err)
		}
	}
	for _, rec := range s.Edges {
		e, err := g.AddEdge(rec.ID, rec.From, rec.To, rec.Directed)
		if err != nil {
			return fmt.Errorf("edge %s (%s->%s): %w", rec.ID, rec.From, rec.To, err)
		}
		if e == nil {
			continue
		}
		if err := e.SetAttributes(rec.Attributes); err != nil {
			return fmt.Errorf("edge %s: %w", rec.ID, err)
		}
	}
	return nil
}

// Build creates a new single-threaded graph holding the snapshot.
func (s *Snapshot) Build(opts ...graph.Option) (*graph.Graph, error) {
	g := graph.New(s.ID, opts...)
	if err := s.Restore(g); err != nil {
		return nil, err
	}
	return g, nil
}

// NodeIDs returns the ids of the snapshot's nodes in order.
func (s *Snapshot) NodeIDs() []string {
	ids := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func plain(attrs map[string]graph.Value) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v.Any()
	}
	return out
}
