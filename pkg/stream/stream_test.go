package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
)

func record(t *testing.T) (*bytes.Buffer, *graph.Graph) {
	t.Helper()
	var buf bytes.Buffer
	g := graph.New("src", graph.WithStrictChecking(false), graph.WithAutoCreate(true))
	w := NewWriter(&buf)
	if err := g.AddListener(w); err != nil {
		t.Fatal(err)
	}

	g.SetAttribute("title", graph.Text("demo"))
	g.AddEdge("ab", "A", "B", true)
	g.StepBegins(0)
	g.Node("A").SetAttribute("x", graph.Number(1.5))
	g.Node("A").SetAttribute("x", graph.Number(2))
	g.StepBegins(1)
	g.AddEdge("bc", "B", "C", false)
	g.Edge("bc").SetAttribute("tags", graph.Array(graph.Text("a"), graph.Bool(true)))
	g.Node("A").RemoveAttribute("x")
	g.RemoveNode("B")

	if w.Err() != nil {
		t.Fatal(w.Err())
	}
	if w.Count() != int(g.LastEventID()) {
		t.Fatalf("wrote %d events, graph issued %d", w.Count(), g.LastEventID())
	}
	return &buf, g
}

func TestWriterReaderRoundTrip(t *testing.T) {
	buf, src := record(t)
	lines := strings.Count(buf.String(), "\n")

	events, err := NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != lines {
		t.Fatalf("read %d events from %d lines", len(events), lines)
	}
	for i, e := range events {
		if e.SourceID != "src" || e.EventID != uint64(i+1) {
			t.Errorf("event %d = %v", i, e)
		}
	}
	first := events[0]
	if first.Kind != graph.AttributeChangedEvent || first.ElementType != graph.ElementGraph || first.Change != graph.AttributeAdded {
		t.Errorf("first = %v", first)
	}

	dst := graph.New("dst")
	n, err := Replay(context.Background(), bytes.NewReader(buf.Bytes()), dst)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(events) {
		t.Errorf("applied %d of %d", n, len(events))
	}
	if dst.NodeCount() != src.NodeCount() || dst.EdgeCount() != src.EdgeCount() {
		t.Errorf("replayed %d/%d, want %d/%d", dst.NodeCount(), dst.EdgeCount(), src.NodeCount(), src.EdgeCount())
	}
	if s, _ := dst.Text("title"); s != "demo" {
		t.Errorf("title = %q", s)
	}
	if dst.Node("A").HasAttribute("x") {
		t.Error("removed attribute came back")
	}
}

func TestReplayPreservingOrigin(t *testing.T) {
	buf, _ := record(t)
	events, err := NewReader(buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	mirror := graph.New("mirror")
	for _, e := range events {
		graph.Apply(mirror, e)
	}
	if mirror.LastEventID() != 0 {
		t.Errorf("mirror issued %d ids", mirror.LastEventID())
	}
	if !mirror.HasNode("A") || mirror.HasNode("B") {
		t.Error("mirror state")
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "{nope\n"},
		{"unknown kind", `{"kind":"BOOM","source":"g","id":1}` + "\n"},
		{"unknown type", `{"kind":"NODE_ADDED","source":"g","id":1,"type":"hyper","element":"a"}` + "\n"},
		{"missing element", `{"kind":"NODE_ADDED","source":"g","id":1}` + "\n"},
		{"step without time", `{"kind":"STEP","source":"g","id":1}` + "\n"},
		{"bad change", `{"kind":"ATTRIBUTE_CHANGED","source":"g","id":1,"type":"node","element":"a","key":"k","change":"?"}` + "\n"},
		{"edge without endpoint", `{"kind":"EDGE_ADDED","source":"g","id":1,"type":"edge","element":"e","from":"a"}` + "\n"},
		{"control char id", `{"kind":"NODE_ADDED","source":"g","id":1,"type":"node","element":"a\u0001"}` + "\n"},
		{"blank key", `{"kind":"ATTRIBUTE_CHANGED","source":"g","id":1,"type":"node","element":"a","key":"my key","change":"ADD","new":1}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.input)).Next()
			if !gserrors.Is(err, gserrors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want invalid format", err)
			}
		})
	}

	r := NewReader(strings.NewReader("\n\n"))
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("blank log: err = %v, want EOF", err)
	}
}

func TestReplayStopsOnError(t *testing.T) {
	log := `{"kind":"NODE_ADDED","source":"g","id":1,"type":"node","element":"a"}
{"kind":"NODE_ADDED","source":"g","id":2,"type":"node","element":"a"}
{"kind":"NODE_ADDED","source":"g","id":3,"type":"node","element":"b"}
`
	g := graph.New("g2")
	n, err := Replay(context.Background(), strings.NewReader(log), g)
	if !errors.Is(err, graph.ErrElementExists) || n != 1 {
		t.Errorf("Replay = %d, %v", n, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Replay(ctx, strings.NewReader(log), graph.New("g3")); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSplitFrames(t *testing.T) {
	buf, _ := record(t)
	events, err := NewReader(buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	frames := SplitFrames(events)
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}
	if frames[0].HasStep || !frames[1].HasStep || frames[1].Step != 0 || frames[2].Step != 1 {
		t.Errorf("frame steps: %+v %+v %+v", frames[0].HasStep, frames[1].Step, frames[2].Step)
	}
	total := 0
	for _, f := range frames {
		total += len(f.Events)
	}
	if total != len(events) {
		t.Errorf("frames hold %d of %d events", total, len(events))
	}
	if frames[1].Events[0].Kind != graph.StepBegun {
		t.Error("STEP should open its frame")
	}

	if got := SplitFrames(nil); len(got) != 0 {
		t.Errorf("SplitFrames(nil) = %v", got)
	}
}

func TestPlayer(t *testing.T) {
	buf, src := record(t)
	events, _ := NewReader(buf).ReadAll()

	g := graph.New("play")
	p := NewPlayer(g, SplitFrames(events))
	if p.Len() != 3 {
		t.Fatalf("Len() = %d", p.Len())
	}

	f, ok, err := p.Step()
	if !ok || err != nil || f.HasStep {
		t.Fatalf("first Step = %+v, %v, %v", f, ok, err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("after frame 0: %d/%d", g.NodeCount(), g.EdgeCount())
	}
	for !p.Done() {
		if _, _, err := p.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok, _ := p.Step(); ok {
		t.Error("Step after Done should report false")
	}
	if g.NodeCount() != src.NodeCount() || p.Position() != 3 {
		t.Errorf("final nodes = %d, position %d", g.NodeCount(), p.Position())
	}
}
