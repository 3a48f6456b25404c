package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/matzehuels/graphstream/pkg/graph"
)

// Writer appends events to a JSON Lines log. *Writer is a [graph.Listener];
// register it on a graph to record everything the graph emits.
//
// Listener callbacks cannot return errors, so the first write failure is kept
// and reported by [Writer.Err]; later events are dropped.
type Writer struct {
	graph.EventFunc

	mu  sync.Mutex
	enc *json.Encoder
	n   int
	err error
}

// NewWriter returns a Writer appending to w.
func NewWriter(w io.Writer) *Writer {
	wr := &Writer{enc: json.NewEncoder(w)}
	wr.EventFunc = wr.Write
	return wr
}

// Write appends one event.
func (w *Writer) Write(e graph.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}
	if err := w.enc.Encode(FromEvent(e)); err != nil {
		w.err = fmt.Errorf("write event %d: %w", e.EventID, err)
		return
	}
	w.n++
}

// Count returns the number of events written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

// Err returns the first write error.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

var _ graph.Listener = (*Writer)(nil)
