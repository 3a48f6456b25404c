package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphstream/pkg/graph"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// graphStats summarizes the structure of a graph.
type graphStats struct {
	Nodes, Edges     int
	Directed, Loops  int
	MaxDegree        int
	Hubs             []string // nodes with MaxDegree, by id
	NodeAttributeSet []string // distinct node attribute keys, sorted
}

// computeStats walks g once.
func computeStats(g *graph.Graph) graphStats {
	s := graphStats{Nodes: g.NodeCount(), Edges: g.EdgeCount()}
	keys := map[string]bool{}
	for _, n := range g.Nodes() {
		switch d := n.Degree(); {
		case d > s.MaxDegree:
			s.MaxDegree, s.Hubs = d, []string{n.ID()}
		case d == s.MaxDegree && d > 0:
			s.Hubs = append(s.Hubs, n.ID())
		}
		for _, k := range n.AttributeKeys() {
			keys[k] = true
		}
	}
	for _, e := range g.Edges() {
		if e.IsDirected() {
			s.Directed++
		}
		if e.IsLoop() {
			s.Loops++
		}
	}
	for k := range keys {
		s.NodeAttributeSet = append(s.NodeAttributeSet, k)
	}
	slices.Sort(s.NodeAttributeSet)
	return s
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [log|snapshot.json]",
		Short: "Summarize a graph and its event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			l, err := c.loadGraph(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}

			s := computeStats(l.graph)
			printSuccess("Graph %s", StyleHighlight.Render(l.graph.ID()))
			printKeyValue("nodes", strconv.Itoa(s.Nodes))
			printKeyValue("edges", fmt.Sprintf("%d (%d directed, %d loops)", s.Edges, s.Directed, s.Loops))
			if s.MaxDegree > 0 {
				printKeyValue("max degree", fmt.Sprintf("%d %v", s.MaxDegree, s.Hubs))
			}
			if len(s.NodeAttributeSet) > 0 {
				printKeyValue("attributes", fmt.Sprint(s.NodeAttributeSet))
			}

			if isSnapshot(args[0]) {
				return nil
			}
			events, err := stream.ReadFile(args[0])
			if err != nil {
				return err
			}
			frames := stream.SplitFrames(events)
			printKeyValue("events", strconv.Itoa(len(events)))
			printKeyValue("frames", strconv.Itoa(len(frames)))
			if l.step != 0 || len(frames) > 1 {
				printKeyValue("last step", strconv.FormatFloat(l.step, 'g', -1, 64))
			}
			for _, kc := range countKinds(events) {
				printDetail("%-18s %d", kc.kind, kc.n)
			}
			return nil
		},
	}
}

type kindCount struct {
	kind graph.EventKind
	n    int
}

// countKinds counts events per kind in kind order.
func countKinds(events []graph.Event) []kindCount {
	counts := map[graph.EventKind]int{}
	for _, e := range events {
		counts[e.Kind]++
	}
	out := make([]kindCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, kindCount{k, n})
	}
	slices.SortFunc(out, func(a, b kindCount) int { return int(a.kind) - int(b.kind) })
	return out
}
