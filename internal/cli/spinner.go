package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/graphstream/pkg/graph"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line while a long operation runs. When events
// are counted through [spinner.Listener] the line shows the running total:
//
//	⠼ Replaying roads.jsonl  12840 events
type spinner struct {
	w       io.Writer
	message string
	events  atomic.Int64
	counted atomic.Bool
	started atomic.Bool

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
	width   int // length of the last line written
}

// newSpinner creates a spinner writing to stderr. It stops drawing when ctx
// is done.
func newSpinner(ctx context.Context, message string) *spinner {
	return newSpinnerTo(ctx, os.Stderr, message)
}

func newSpinnerTo(ctx context.Context, w io.Writer, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		message: message,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Listener returns a graph listener counting every event it receives.
func (s *spinner) Listener() graph.Listener {
	return graph.EventFunc(func(graph.Event) {
		s.counted.Store(true)
		s.events.Add(1)
	})
}

// Events returns the number of events counted so far.
func (s *spinner) Events() int64 { return s.events.Load() }

// Start begins the animation.
func (s *spinner) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and clears the line. Calling it again is a no-op.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.stopped
		}
	})
}

// StopWithSuccess stops the spinner and prints message as a success line.
func (s *spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints message as an error line.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner context is done, through Stop or
// the parent context.
func (s *spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *spinner) line(frame string) string {
	text := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	if s.counted.Load() {
		text += "  " + StyleNumber.Render(fmt.Sprintf("%d events", s.events.Load()))
	}
	return text
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.line(frame)
	fmt.Fprintf(s.w, "\r%s", text)
	s.width = max(s.width, len(text))
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}
