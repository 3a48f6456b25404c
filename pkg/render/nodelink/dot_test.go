package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/graphstream/pkg/cache"
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
	gsio "github.com/matzehuels/graphstream/pkg/io"
)

func sample(t *testing.T) *gsio.Snapshot {
	t.Helper()
	g := graph.New("g", graph.WithStrictChecking(false), graph.WithAutoCreate(true))
	g.AddEdge("ab", "a", "b", true)
	g.AddEdge("bc", "b", "c", false)
	g.Node("a").SetAttributes(map[string]any{"label": "Alpha", "x": 1, "y": 2})
	g.Node("b").SetAttribute("version", graph.Text("1.0.0"))
	return gsio.Capture(g)
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sample(t), Options{})

	for _, want := range []string{
		"digraph G",
		`"a" [label="Alpha"]`,
		`"b" [label="b"]`,
		`"a" -> "b" [id="ab"]`,
		`"b" -> "c" [id="bc", dir=none]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "pos=") {
		t.Error("positions should only be emitted on request")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sample(t), Options{Detailed: true})
	if !strings.Contains(dot, `version: 1.0.0`) {
		t.Error("ToDOT() detailed output missing attribute")
	}
	if strings.Contains(dot, "label: Alpha") {
		t.Error("label should not be repeated in the details")
	}
}

func TestToDOT_Positions(t *testing.T) {
	dot := ToDOT(sample(t), Options{UsePositions: true})
	if !strings.Contains(dot, "layout=neato") {
		t.Error("missing neato layout")
	}
	if !strings.Contains(dot, `pos="1,2!"`) {
		t.Errorf("missing pinned position:\n%s", dot)
	}
	if strings.Count(dot, "pos=") != 1 {
		t.Error("only a has coordinates")
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	if ToDOT(sample(t), Options{Detailed: true}) != ToDOT(sample(t), Options{Detailed: true}) {
		t.Error("equal snapshots should produce equal DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.50 200.00" width="100" height="200"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("without viewBox = %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(sample(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}

func TestRendererDOT(t *testing.T) {
	r := NewRenderer(nil, 0)
	out, err := r.Render(context.Background(), sample(t), Options{}, FormatDOT)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(out) != ToDOT(sample(t), Options{}) {
		t.Error("DOT format should return the DOT source")
	}
}

func TestRendererUnknownFormat(t *testing.T) {
	_, err := NewRenderer(nil, 0).Render(context.Background(), sample(t), Options{}, "gif")
	if !gserrors.Is(err, gserrors.ErrCodeUnsupported) {
		t.Errorf("Render() error = %v, want UNSUPPORTED", err)
	}
}

func TestRendererUsesCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(c, 0)
	s := sample(t)

	dot := ToDOT(s, Options{})
	key := r.Keyer.RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{Format: FormatSVG})
	if err := c.Set(ctx, key, []byte("<svg>cached</svg>"), 0); err != nil {
		t.Fatal(err)
	}

	out, err := r.Render(ctx, s, Options{}, FormatSVG)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(out) != "<svg>cached</svg>" {
		t.Errorf("Render() should serve the cached artifact, got %s", out)
	}
}
