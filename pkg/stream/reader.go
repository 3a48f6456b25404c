package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
)

// maxLine bounds a single log line.
const maxLine = 4 << 20

// Reader decodes a JSON Lines event log.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader over r. Blank lines are skipped.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{sc: sc}
}

// Next returns the next event, or io.EOF at the end of the log.
func (r *Reader) Next() (graph.Event, error) {
	for r.sc.Scan() {
		r.line++
		data := r.sc.Bytes()
		if len(data) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return graph.Event{}, gserrors.Wrap(gserrors.ErrCodeInvalidFormat, err, "line %d", r.line)
		}
		e, err := rec.Event()
		if err != nil {
			return graph.Event{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return e, nil
	}
	if err := r.sc.Err(); err != nil {
		return graph.Event{}, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return graph.Event{}, io.EOF
}

// ReadAll decodes every remaining event.
func (r *Reader) ReadAll() ([]graph.Event, error) {
	var events []graph.Event
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, e)
	}
}

// ReadFile decodes the whole log at path.
func ReadFile(path string) ([]graph.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return NewReader(f).ReadAll()
}

// Apply performs e on g through the public mutation API, so g issues its own
// event ids and applies its own policy. Use [graph.Apply] with g as the
// listener instead to keep the recorded origin.
func Apply(g *graph.Graph, e graph.Event) error {
	var err error
	switch e.Kind {
	case graph.NodeAdded:
		_, err = g.AddNode(e.ElementID)
	case graph.NodeRemoved:
		_, err = g.RemoveNode(e.ElementID)
	case graph.EdgeAdded:
		_, err = g.AddEdge(e.ElementID, e.From, e.To, e.Directed)
	case graph.EdgeRemoved:
		_, err = g.RemoveEdge(e.ElementID)
	case graph.StepBegun:
		g.StepBegins(e.Step)
	case graph.GraphCleared:
		g.Clear()
	case graph.AttributeChangedEvent:
		err = applyAttribute(g, e)
	default:
		err = gserrors.New(gserrors.ErrCodeUnsupported, "event kind %s", e.Kind)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", e, err)
	}
	return nil
}

func applyAttribute(g *graph.Graph, e graph.Event) error {
	var el graph.Element
	switch e.ElementType {
	case graph.ElementGraph:
		el = g
	case graph.ElementNode:
		if n := g.Node(e.ElementID); n != nil {
			el = n
		}
	case graph.ElementEdge:
		if ed := g.Edge(e.ElementID); ed != nil {
			el = ed
		}
	}
	if el == nil {
		if !g.StrictChecking() {
			return nil
		}
		return gserrors.Wrap(gserrors.ErrCodeElementNotFound, graph.ErrElementNotFound,
			"%s %q", e.ElementType, e.ElementID)
	}
	if e.Change == graph.AttributeRemoved {
		el.RemoveAttribute(e.Key)
		return nil
	}
	return el.SetAttribute(e.Key, e.NewValue)
}

// Replay reads r to the end and applies every event to g. It stops at the
// first decoding or mutation error, or when ctx is done, and returns the
// number of events applied.
func Replay(ctx context.Context, r io.Reader, g *graph.Graph) (int, error) {
	rd := NewReader(r)
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		e, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := Apply(g, e); err != nil {
			return n, err
		}
		n++
	}
}
