package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
	gsio "github.com/matzehuels/graphstream/pkg/io"
)

func connect(t *testing.T) *Archive {
	t.Helper()
	uri := os.Getenv("GRAPHSTREAM_MONGO_URI")
	if uri == "" {
		t.Skip("GRAPHSTREAM_MONGO_URI not set")
	}
	ctx := context.Background()
	a, err := Connect(ctx, uri, "graphstream_test")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(ctx) })
	return a
}

func TestArchiveRoundTrip(t *testing.T) {
	a := connect(t)
	ctx := context.Background()
	id := uuid.NewString()
	t.Cleanup(func() { a.Delete(ctx, id) })

	g := graph.New(id, graph.WithStrictChecking(false), graph.WithAutoCreate(true))
	g.AddEdge("AB", "A", "B", true)
	g.Node("A").SetAttributes(map[string]any{"label": "Alpha", "tags": []any{"x", 1}})

	for _, step := range []float64{2, 1} {
		s := gsio.Capture(g)
		s.Step = step
		require.NoError(t, a.Save(ctx, s, g.LastEventID()))
	}
	g.AddNode("C")
	s := gsio.Capture(g)
	s.Step = 2
	require.NoError(t, a.Save(ctx, s, g.LastEventID()), "same step replaces")

	steps, err := a.Steps(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, steps)

	latest, err := a.Latest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2.0, latest.Step)
	assert.Len(t, latest.Nodes, 3)

	first, err := a.Load(ctx, id, 1)
	require.NoError(t, err)
	restored, err := first.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, restored.NodeCount())
	assert.Equal(t, "Alpha", restored.Node("A").Label())
	tags, _ := restored.Node("A").Attribute("tags")
	assert.Equal(t, 2, tags.Len())

	n, err := a.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestArchiveMissing(t *testing.T) {
	a := connect(t)
	_, err := a.Latest(context.Background(), uuid.NewString())
	assert.True(t, gserrors.Is(err, gserrors.ErrCodeNotFound))
}
