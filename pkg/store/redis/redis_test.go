package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
)

func TestKeyspace(t *testing.T) {
	k := New(nil, WithPrefix("gs")).keys("city")

	tests := []struct {
		got, want string
	}{
		{k.events(), "gs:city:events"},
		{k.nodes(), "gs:city:nodes"},
		{k.node("A"), "gs:city:node:A"},
		{k.edge("AB"), "gs:city:edge:AB"},
		{k.attrs(graph.ElementNode, "A"), "gs:city:node:A"},
		{k.attrs(graph.ElementEdge, "AB"), "gs:city:edgeattrs:AB"},
		{k.attrs(graph.ElementGraph, "city"), "gs:city:attrs"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %s, want %s", tt.got, tt.want)
		}
	}

	if New(nil, WithPrefix("")).prefix != DefaultPrefix {
		t.Error("empty prefix should keep the default")
	}
}

func TestKeyspaceKindsDoNotCollide(t *testing.T) {
	k := New(nil).keys("g")
	ids := []string{"e", "e:attrs", "attrs", "edgeattrs:e", "s", "nodes"}

	owner := make(map[string]string)
	claim := func(key, who string) {
		if prev, ok := owner[key]; ok {
			t.Errorf("%s and %s share key %s", prev, who, key)
		}
		owner[key] = who
	}
	for _, key := range []string{k.events(), k.nodes(), k.edges(), k.graphAttrs(), k.step()} {
		claim(key, key)
	}
	for _, id := range ids {
		claim(k.node(id), "node "+id)
		claim(k.edge(id), "edge "+id)
		claim(k.edgeAttrs(id), "edge attrs "+id)
	}
}

func TestDecodeValue(t *testing.T) {
	v, err := decodeValue(`3.5`)
	require.NoError(t, err)
	f, ok := v.Number()
	assert.True(t, ok)
	assert.Equal(t, 3.5, f)

	v, err = decodeValue(`["a",1]`)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())

	_, err = decodeValue(`{`)
	assert.Error(t, err)
}

func dial(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("GRAPHSTREAM_REDIS_ADDR")
	if addr == "" {
		t.Skip("GRAPHSTREAM_REDIS_ADDR not set")
	}
	s, err := Dial(context.Background(), addr, "", 0, WithPrefix("graphstream-test"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMirrorAndLoad(t *testing.T) {
	s := dial(t)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { s.Delete(ctx, id) })

	g := graph.New(id, graph.WithStrictChecking(false), graph.WithAutoCreate(true))
	m := s.Mirror(ctx, id)
	require.NoError(t, g.AddListener(m))

	g.SetAttribute("title", graph.Text("roads"))
	g.AddEdge("AB", "A", "B", true)
	g.AddUndirectedEdge("BC", "B", "C")
	g.Node("A").SetAttribute("x", graph.Number(1))
	g.Edge("BC").SetAttribute("weight", graph.Number(2.5))
	g.StepBegins(4)
	g.RemoveNode("C")

	require.NoError(t, m.Err())
	assert.Equal(t, int(g.LastEventID()), m.Count())

	loaded := graph.New(id)
	require.NoError(t, s.Load(ctx, id, loaded))
	assert.Equal(t, 2, loaded.NodeCount())
	assert.Equal(t, 1, loaded.EdgeCount())
	assert.True(t, loaded.Edge("AB").IsDirected())
	x, _ := loaded.Node("A").Number("x")
	assert.Equal(t, 1.0, x)
	title, _ := loaded.Text("title")
	assert.Equal(t, "roads", title)

	events, err := s.Events(ctx, id)
	require.NoError(t, err)
	require.Len(t, events, m.Count())
	assert.Equal(t, graph.NodeAdded, events[1].Kind)
	assert.Equal(t, uint64(1), events[0].EventID)

	replayed := graph.New("replay")
	for _, e := range events {
		graph.Apply(replayed, e)
	}
	assert.Equal(t, loaded.NodeCount(), replayed.NodeCount())
	assert.Equal(t, loaded.EdgeCount(), replayed.EdgeCount())
}

func TestMirrorClear(t *testing.T) {
	s := dial(t)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { s.Delete(ctx, id) })

	g := graph.New(id, graph.WithStrictChecking(false), graph.WithAutoCreate(true))
	m := s.Mirror(ctx, id)
	require.NoError(t, g.AddListener(m))
	g.AddEdge("AB", "A", "B", false)
	g.Clear()
	require.NoError(t, m.Err())

	loaded := graph.New(id)
	require.NoError(t, s.Load(ctx, id, loaded))
	assert.Zero(t, loaded.NodeCount())
	assert.Zero(t, loaded.EdgeCount())
}

func TestLoadMissing(t *testing.T) {
	s := dial(t)
	err := s.Load(context.Background(), uuid.NewString(), graph.New("g"))
	assert.True(t, gserrors.Is(err, gserrors.ErrCodeNotFound))
}
