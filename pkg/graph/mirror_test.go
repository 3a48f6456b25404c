package graph

import (
	"testing"
)

func TestMirror(t *testing.T) {
	src := New("src", WithStrictChecking(false), WithAutoCreate(true))
	dst := New("dst")
	if err := src.AddListener(dst); err != nil {
		t.Fatal(err)
	}
	r := record(t, dst)

	mustEdge(t, src, "e", "A", "B", true)
	src.Node("A").SetAttribute("x", Number(1))
	src.Edge("e").SetAttribute("w", Text("heavy"))
	src.SetAttribute("title", Text("demo"))
	src.StepBegins(2)

	if dst.NodeCount() != 2 || dst.EdgeCount() != 1 {
		t.Fatalf("mirror counts = %d/%d, want 2/1", dst.NodeCount(), dst.EdgeCount())
	}
	if e := dst.Edge("e"); e.Source().ID() != "A" || !e.IsDirected() {
		t.Errorf("mirrored edge = %v", e)
	}
	if v, _ := dst.Node("A").Number("x"); v != 1 {
		t.Errorf("mirrored x = %v", v)
	}
	if s, _ := dst.Edge("e").Text("w"); s != "heavy" {
		t.Errorf("mirrored w = %q", s)
	}
	if s, _ := dst.Text("title"); s != "demo" {
		t.Errorf("mirrored title = %q", s)
	}

	// Re-emitted events keep their origin.
	for _, e := range r.events {
		if e.SourceID != "src" {
			t.Errorf("%v: source = %q, want src", e, e.SourceID)
		}
	}
	if dst.LastEventID() != 0 {
		t.Errorf("mirror issued %d ids of its own", dst.LastEventID())
	}

	src.Node("A").RemoveAttribute("x")
	src.RemoveNode("B")
	if dst.Node("A").HasAttribute("x") || dst.HasNode("B") || dst.EdgeCount() != 0 {
		t.Error("removals were not mirrored")
	}

	src.Clear()
	if dst.NodeCount() != 0 || dst.AttributeCount() != 0 {
		t.Error("clear was not mirrored")
	}
}

func TestMirrorIgnoresOwnAndSeenEvents(t *testing.T) {
	g := New("g")
	r := record(t, g)

	g.NodeAdded("g", 1, "own")
	if g.HasNode("own") {
		t.Error("event from self should be ignored")
	}

	g.NodeAdded("other", 7, "A")
	g.NodeRemoved("other", 7, "A")
	if !g.HasNode("A") {
		t.Error("duplicate (source, id) pair should be ignored")
	}
	if len(r.events) != 1 {
		t.Errorf("events = %v", r.kinds())
	}
}

func TestMirrorCycle(t *testing.T) {
	a := New("a")
	b := New("b")
	a.AddListener(b)
	b.AddListener(a)

	mustNode(t, a, "X")
	mustNode(t, b, "Y")
	a.Node("X").SetAttribute("k", Number(1))

	for _, g := range []*Graph{a, b} {
		if !g.HasNode("X") || !g.HasNode("Y") {
			t.Errorf("%s: nodes not shared", g.ID())
		}
		if v, _ := g.Node("X").Number("k"); v != 1 {
			t.Errorf("%s: k = %v", g.ID(), v)
		}
	}
}

func TestMirrorFailuresAreContained(t *testing.T) {
	src := New("src")
	dst := New("dst")
	src.AddListener(dst)

	mustNode(t, dst, "A") // dst already has A; strict dst rejects the mirrored add
	mustNode(t, src, "A")
	mustNode(t, src, "B")
	if !dst.HasNode("B") {
		t.Error("mirror stopped after a failed event")
	}
}

func TestSeenEventsWindow(t *testing.T) {
	s := newSeenEvents()
	if !s.check("s", 1) || s.check("s", 1) {
		t.Fatal("basic dedup")
	}
	if !s.check("t", 1) {
		t.Error("sources are independent")
	}
	if !s.check("s", 5000) {
		t.Fatal("new max")
	}
	if !s.check("s", 4000) {
		t.Error("id within window should be new")
	}
	if s.check("s", 2) {
		t.Error("id far below window should be treated as seen")
	}
	for id := uint64(5001); id < 5001+3*seenWindow; id++ {
		s.check("s", id)
	}
	if n := len(s.sources["s"].ids); n > 2*seenWindow+1 {
		t.Errorf("window holds %d ids", n)
	}
}
