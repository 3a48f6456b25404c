package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphstream/pkg/graph"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// framesCommand creates the frames command: step through an event log one
// STEP frame at a time in a terminal UI.
func (c *CLI) framesCommand() *cobra.Command {
	var interval time.Duration
	var list bool

	cmd := &cobra.Command{
		Use:   "frames [log]",
		Short: "Step through the frames of an event log",
		Long: `Frames splits an event log at its STEP events and plays it frame by frame
in an interactive view showing each frame's events and the busiest nodes.

With --list the frames are printed without the interactive view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			events, err := stream.ReadFile(args[0])
			if err != nil {
				return err
			}
			frames := stream.SplitFrames(events)
			g := graph.New(graphID(args[0]), c.graphOptions(cfg)...)
			player := stream.NewPlayer(g, frames)

			if list {
				return listFrames(player)
			}

			model := NewFramesModel(player, interval)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "autoplay delay between frames")
	cmd.Flags().BoolVar(&list, "list", false, "print frames instead of opening the interactive view")

	return cmd
}

// listFrames plays every frame and prints one line per frame.
func listFrames(p *stream.Player) error {
	for {
		f, ok, err := p.Step()
		if !ok {
			return nil
		}
		step := "-"
		if f.HasStep {
			step = fmt.Sprintf("%g", f.Step)
		}
		g := p.Graph()
		printInfo("frame %d  step %s  %d events  %d nodes  %d edges",
			p.Position(), step, len(f.Events), g.NodeCount(), g.EdgeCount())
		if err != nil {
			printWarning("%v", err)
		}
	}
}
