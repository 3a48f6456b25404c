package cli

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphstream/pkg/config"
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
	"github.com/matzehuels/graphstream/pkg/stream"
)

func TestComputeStats(t *testing.T) {
	g := graph.New("g", graph.WithStrictChecking(false), graph.WithAutoCreate(true))
	g.AddEdge("ab", "A", "B", true)
	g.AddEdge("ac", "A", "C", false)
	g.AddEdge("aa", "A", "A", true)
	g.Node("B").SetAttribute("label", graph.Text("Bee"))
	g.Node("C").SetAttribute("x", graph.Number(1))

	s := computeStats(g)
	if s.Nodes != 3 || s.Edges != 3 {
		t.Errorf("counts = %d/%d", s.Nodes, s.Edges)
	}
	if s.Directed != 2 || s.Loops != 1 {
		t.Errorf("directed = %d, loops = %d", s.Directed, s.Loops)
	}
	if s.MaxDegree != 3 || !slices.Equal(s.Hubs, []string{"A"}) {
		t.Errorf("max degree = %d %v", s.MaxDegree, s.Hubs)
	}
	if !slices.Equal(s.NodeAttributeSet, []string{"label", "x"}) {
		t.Errorf("attributes = %v", s.NodeAttributeSet)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	s := computeStats(graph.New("empty"))
	if s.Nodes != 0 || s.MaxDegree != 0 || s.Hubs != nil {
		t.Errorf("stats = %+v", s)
	}
}

func TestCountKinds(t *testing.T) {
	events, err := stream.ReadFile(sampleLog)
	if err != nil {
		t.Fatal(err)
	}
	got := countKinds(events)
	want := map[graph.EventKind]int{
		graph.NodeAdded:             3,
		graph.EdgeAdded:             3,
		graph.StepBegun:             2,
		graph.AttributeChangedEvent: 3,
	}
	if len(got) != len(want) {
		t.Fatalf("countKinds() = %v", got)
	}
	for i, kc := range got {
		if want[kc.kind] != kc.n {
			t.Errorf("%s = %d, want %d", kc.kind, kc.n, want[kc.kind])
		}
		if i > 0 && got[i-1].kind > kc.kind {
			t.Error("kinds should be in kind order")
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"svg", "png", "dot"}); err != nil {
		t.Errorf("valid formats rejected: %v", err)
	}
	err := validateFormats([]string{"svg", "pdf"})
	if !gserrors.Is(err, gserrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); !slices.Equal(got, []string{"svg"}) {
		t.Errorf("parseFormats(\"\") = %v", got)
	}
	if got := parseFormats("svg,dot"); !slices.Equal(got, []string{"svg", "dot"}) {
		t.Errorf("parseFormats(svg,dot) = %v", got)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base, format string
		multiple     bool
		want         string
	}{
		{"out.svg", "svg", false, "out.svg"},
		{"out", "svg", false, "out.svg"},
		{"out.svg", "png", true, "out.png"},
		{filepath.Join("dir", "g"), "dot", true, filepath.Join("dir", "g.dot")},
	}
	for _, tt := range tests {
		if got := outputPath(tt.base, tt.format, tt.multiple); got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.base, tt.format, tt.multiple, got, tt.want)
		}
	}
}

func framesModel(t *testing.T) FramesModel {
	t.Helper()
	events, err := stream.ReadFile(sampleLog)
	if err != nil {
		t.Fatal(err)
	}
	p := stream.NewPlayer(graph.New("triangle"), stream.SplitFrames(events))
	return NewFramesModel(p, 0)
}

func press(m FramesModel, key string) FramesModel {
	var msg tea.KeyMsg
	switch key {
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(FramesModel)
}

func TestFramesModelStepping(t *testing.T) {
	m := framesModel(t)
	if m.Player.Len() != 3 {
		t.Fatalf("frames = %d, want 3", m.Player.Len())
	}

	m = press(m, "right")
	if m.Player.Position() != 1 || m.Frame.HasStep {
		t.Errorf("after first step: position %d, HasStep %v", m.Player.Position(), m.Frame.HasStep)
	}
	if m.Player.Graph().NodeCount() != 2 {
		t.Errorf("nodes = %d after first frame", m.Player.Graph().NodeCount())
	}

	m = press(m, "n")
	if !m.Frame.HasStep || m.Frame.Step != 1 {
		t.Errorf("second frame step = %g", m.Frame.Step)
	}

	m = press(m, "G")
	if !m.Player.Done() || m.Player.Graph().EdgeCount() != 3 {
		t.Error("G should play to the end")
	}
	if m.Err != nil {
		t.Errorf("unexpected error: %v", m.Err)
	}
}

func TestFramesModelAutoplay(t *testing.T) {
	m := framesModel(t)

	m = press(m, " ")
	if !m.Playing {
		t.Fatal("space should start autoplay")
	}
	for i := 0; i < 5 && m.Playing; i++ {
		next, _ := m.Update(tickMsg{})
		m = next.(FramesModel)
	}
	if m.Playing || !m.Player.Done() {
		t.Error("autoplay should stop after the last frame")
	}

	m = press(m, " ")
	if m.Playing {
		t.Error("autoplay cannot restart when done")
	}
}

func TestFramesModelQuit(t *testing.T) {
	_, cmd := framesModel(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestFramesModelView(t *testing.T) {
	m := press(framesModel(t), "G")
	view := m.View()
	for _, want := range []string{"Frames of triangle", "3/3", "step 2", "Charlie"} {
		if !containsPlain(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestDegreeTableEmpty(t *testing.T) {
	if out := degreeTable(graph.New("g"), 5); !containsPlain(out, "empty graph") {
		t.Errorf("degreeTable(empty) = %q", out)
	}
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// containsPlain reports whether s contains sub once styling is stripped.
func containsPlain(s, sub string) bool {
	return strings.Contains(ansiEscape.ReplaceAllString(s, ""), sub)
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:               "0 B",
		512:             "512 B",
		1536:            "1.5 KiB",
		3 * 1024 * 1024: "3.0 MiB",
	}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestStatsLine(t *testing.T) {
	if got := statsLine(3, 2, 1.5); !containsPlain(got, "3 nodes · 2 edges · step 1.5") {
		t.Errorf("statsLine() = %q", got)
	}
}

func TestEventStyle(t *testing.T) {
	added := eventStyle(graph.Event{Kind: graph.NodeAdded})
	removed := eventStyle(graph.Event{Kind: graph.EdgeRemoved})
	attrRemoved := eventStyle(graph.Event{Kind: graph.AttributeChangedEvent, Change: graph.AttributeRemoved})
	attrAdded := eventStyle(graph.Event{Kind: graph.AttributeChangedEvent, Change: graph.AttributeAdded})

	if added.GetForeground() != colorGreen {
		t.Error("additions should be green")
	}
	if removed.GetForeground() != colorRed || attrRemoved.GetForeground() != colorRed {
		t.Error("removals should be red")
	}
	if attrAdded.GetForeground() != colorBlue {
		t.Error("attribute changes should be blue")
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := testCLI().RootCommand()
			var out strings.Builder
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("completion %s script does not mention %s", shell, appName)
			}
		})
	}

	root := testCLI().RootCommand()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("unknown shell should be rejected")
	}
}

func TestFeedKeyer(t *testing.T) {
	cfg := config.Default()
	base := newKeyer(cfg)
	a := feedKeyer(base, []byte(`{"kind":"NODE_ADDED","element":"A"}`))
	b := feedKeyer(base, []byte(`{"kind":"NODE_ADDED","element":"B"}`))

	if a.SnapshotKey("roads", 3) == b.SnapshotKey("roads", 3) {
		t.Error("logs with different content should not share snapshot keys")
	}
	if !strings.HasPrefix(a.SnapshotKey("roads", 3), cfg.Cache.Prefix+"feed-") {
		t.Errorf("snapshot key %q should carry the configured prefix", a.SnapshotKey("roads", 3))
	}
	if got := feedKeyer(base, []byte("x")).SnapshotKey("g", 1); got != feedKeyer(base, []byte("x")).SnapshotKey("g", 1) {
		t.Errorf("feed keys should be stable, got %q", got)
	}
}
