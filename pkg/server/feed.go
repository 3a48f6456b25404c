package server

import (
	"context"
	"time"

	"github.com/matzehuels/graphstream/pkg/graph"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// Feed applies events to the served graph until they run out or ctx is
// done. With a positive interval it pauses after every STEP event so clients
// can watch the graph evolve. Mutation errors are logged and skipped; the
// number of applied events is returned.
func (s *Server) Feed(ctx context.Context, events []graph.Event, interval time.Duration) int {
	n := 0
	for _, e := range events {
		if ctx.Err() != nil {
			break
		}
		if err := stream.Apply(s.graph, e); err != nil {
			s.logger.Warn("feed event rejected", "event", e.String(), "err", err)
			continue
		}
		n++
		if e.Kind != graph.StepBegun || interval <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
		case <-time.After(interval):
		}
	}
	s.logger.Debug("feed finished", "applied", n, "total", len(events))
	return n
}
