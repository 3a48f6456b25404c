package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/graphstream/pkg/config"
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
	gsio "github.com/matzehuels/graphstream/pkg/io"
	"github.com/matzehuels/graphstream/pkg/observability"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// loaded is a graph read from an input file.
type loaded struct {
	graph  *graph.Graph
	step   float64
	events int // events replayed, 0 for snapshots
}

// snapshot captures l with its last step.
func (l *loaded) snapshot() *gsio.Snapshot {
	s := gsio.Capture(l.graph)
	s.Step = l.step
	return s
}

// isSnapshot reports whether path names a JSON snapshot rather than an
// event log.
func isSnapshot(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// graphID derives a graph id from a file name: "logs/roads.jsonl" is "roads".
func graphID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// graphOptions returns the configured graph policy plus the CLI logger.
func (c *CLI) graphOptions(cfg *config.Config) []graph.Option {
	return append(cfg.GraphOptions(), graph.WithLogger(c.Logger))
}

// loadGraph reads a snapshot (.json) or replays an event log (anything else)
// into a new graph. Extra listeners are attached before the first event.
func (c *CLI) loadGraph(ctx context.Context, path string, cfg *config.Config, listeners ...graph.Listener) (*loaded, error) {
	if isSnapshot(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, gserrors.Wrap(gserrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		defer f.Close()
		s, err := gsio.DecodeSnapshot(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		g := graph.New(s.ID, c.graphOptions(cfg)...)
		for _, l := range listeners {
			_ = g.AddListener(l)
		}
		if err := s.Restore(g); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &loaded{graph: g, step: s.Step}, nil
	}

	events, err := stream.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g := graph.New(graphID(path), c.graphOptions(cfg)...)
	for _, l := range listeners {
		_ = g.AddListener(l)
	}
	l := &loaded{graph: g}
	if err := replayEvents(ctx, path, g, events, &l.step, &l.events); err != nil {
		return nil, err
	}
	return l, nil
}

// replayEvents applies events to g, recording the last step and the number of
// applied events, and reports the run to the replay hooks.
func replayEvents(ctx context.Context, source string, g *graph.Graph, events []graph.Event, step *float64, n *int) (err error) {
	hooks := observability.Replay()
	hooks.OnReplayStart(ctx, source)
	start := time.Now()
	defer func() {
		hooks.OnReplayComplete(ctx, source, *n, time.Since(start), err)
	}()

	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stream.Apply(g, e); err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
		if e.Kind == graph.StepBegun {
			*step = e.Step
		}
		*n++
	}
	return nil
}

// applyPositions loads a position file into g when path is set.
func applyPositions(g *graph.Graph, path string) error {
	if path == "" {
		return nil
	}
	stats, err := gsio.ImportPositions(path, g)
	if err != nil {
		return err
	}
	printDetail("positions: %d mapped, %d unmapped, %d unknown ids",
		stats.Mapped, stats.Unmapped, len(stats.Unknown))
	return nil
}

// createFile creates path and its parent directories.
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeInvalidPath, err, "create %s", path)
	}
	return f, nil
}
