package stream

import (
	"github.com/matzehuels/graphstream/pkg/graph"
)

// Frame is a run of events between two STEP markers.
type Frame struct {
	// Step is the time carried by the STEP event opening the frame. The
	// events before the first STEP form a frame with HasStep false.
	Step    float64
	HasStep bool
	Events  []graph.Event
}

// SplitFrames cuts events at every STEP. The STEP event itself opens its
// frame and is the first element of Events. A log without STEP events is a
// single frame.
func SplitFrames(events []graph.Event) []Frame {
	var frames []Frame
	cur := Frame{}
	for _, e := range events {
		if e.Kind == graph.StepBegun {
			if cur.HasStep || len(cur.Events) > 0 {
				frames = append(frames, cur)
			}
			cur = Frame{Step: e.Step, HasStep: true}
		}
		cur.Events = append(cur.Events, e)
	}
	if cur.HasStep || len(cur.Events) > 0 {
		frames = append(frames, cur)
	}
	return frames
}

// Player applies frames to a graph one at a time.
type Player struct {
	g      *graph.Graph
	frames []Frame
	next   int
}

// NewPlayer returns a Player feeding frames into g.
func NewPlayer(g *graph.Graph, frames []Frame) *Player {
	return &Player{g: g, frames: frames}
}

// Graph returns the graph being fed.
func (p *Player) Graph() *graph.Graph { return p.g }

// Len returns the number of frames.
func (p *Player) Len() int { return len(p.frames) }

// Position returns the number of frames applied so far.
func (p *Player) Position() int { return p.next }

// Done reports whether every frame has been applied.
func (p *Player) Done() bool { return p.next >= len(p.frames) }

// Step applies the next frame and returns it. It returns false once every
// frame has been applied. Mutation errors stop the frame and are returned
// after the frame is marked as played.
func (p *Player) Step() (Frame, bool, error) {
	if p.Done() {
		return Frame{}, false, nil
	}
	f := p.frames[p.next]
	p.next++
	for _, e := range f.Events {
		if err := Apply(p.g, e); err != nil {
			return f, true, err
		}
	}
	return f, true, nil
}
