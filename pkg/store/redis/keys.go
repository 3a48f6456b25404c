package redis

import "github.com/matzehuels/graphstream/pkg/graph"

// keyspace is the key prefix of one mirrored graph. Each key kind has its
// own segment, so no element id can produce another kind's key.
type keyspace string

func (k keyspace) events() string             { return string(k) + ":events" }
func (k keyspace) nodes() string              { return string(k) + ":nodes" }
func (k keyspace) edges() string              { return string(k) + ":edges" }
func (k keyspace) graphAttrs() string         { return string(k) + ":attrs" }
func (k keyspace) step() string               { return string(k) + ":step" }
func (k keyspace) node(id string) string      { return string(k) + ":node:" + id }
func (k keyspace) edge(id string) string      { return string(k) + ":edge:" + id }
func (k keyspace) edgeAttrs(id string) string { return string(k) + ":edgeattrs:" + id }

// attrs returns the attribute hash of an element.
func (k keyspace) attrs(t graph.ElementType, id string) string {
	switch t {
	case graph.ElementNode:
		return k.node(id)
	case graph.ElementEdge:
		return k.edgeAttrs(id)
	}
	return k.graphAttrs()
}
