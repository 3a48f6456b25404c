package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphstream/pkg/graph"
	gsio "github.com/matzehuels/graphstream/pkg/io"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// replayCommand creates the replay command: apply an event log and write the
// final state as a snapshot or a normalized event log.
func (c *CLI) replayCommand() *cobra.Command {
	var output, events, positions string

	cmd := &cobra.Command{
		Use:   "replay [log]",
		Short: "Replay an event log into a graph",
		Long: `Replay applies every event of a JSON Lines log to a fresh graph using the
configured policy, then reports the resulting size.

With --output the final state is written as a JSON snapshot. With --events the
events the graph actually emitted are written as a new log; this normalizes a
log recorded under a lenient policy (auto-created nodes become explicit).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			var writer *stream.Writer
			var listeners []graph.Listener
			if events != "" {
				f, err := createFile(events)
				if err != nil {
					return err
				}
				defer f.Close()
				writer = stream.NewWriter(f)
				listeners = append(listeners, writer)
			}

			prog := newProgress(loggerFromContext(ctx))
			spin := newSpinner(ctx, "Replaying "+args[0])
			spin.Start()
			l, err := c.loadGraph(ctx, args[0], cfg, append(listeners, spin.Listener())...)
			spin.Stop()
			if err != nil {
				return err
			}
			prog.done("Replayed events", "graph", l.graph.ID(), "events", l.events)

			if err := applyPositions(l.graph, positions); err != nil {
				return err
			}

			printSuccess("Graph %s", StyleHighlight.Render(l.graph.ID()))
			printStats(l.graph.NodeCount(), l.graph.EdgeCount(), l.step)

			if writer != nil {
				if err := writer.Err(); err != nil {
					return err
				}
				printFile(events)
			}
			if output != "" {
				f, err := createFile(output)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := gsio.EncodeSnapshot(l.snapshot(), f); err != nil {
					return err
				}
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the final state as a JSON snapshot")
	cmd.Flags().StringVar(&events, "events", "", "write the emitted events as a JSON Lines log")
	cmd.Flags().StringVar(&positions, "positions", "", "position file (id x y [z]) applied after replay")

	return cmd
}
