package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphstream/pkg/config"
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
	gsio "github.com/matzehuels/graphstream/pkg/io"
	"github.com/matzehuels/graphstream/pkg/store/mongo"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// archiveCommand creates the archive command for MongoDB snapshots.
func (c *CLI) archiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive graph snapshots in MongoDB",
		Long: `Archive stores one snapshot per STEP frame of an event log in MongoDB, so
any frame can be restored without replaying the log.

The database is taken from [mongo] in the config file or from
GRAPHSTREAM_MONGO_URI.`,
	}

	cmd.AddCommand(c.archiveSaveCommand())
	cmd.AddCommand(c.archiveListCommand())
	cmd.AddCommand(c.archiveGetCommand())
	cmd.AddCommand(c.archiveDeleteCommand())

	return cmd
}

// openArchive connects to the configured MongoDB database.
func openArchive(ctx context.Context, cfg *config.Config) (*mongo.Archive, error) {
	if cfg.Mongo.URI == "" {
		return nil, gserrors.New(gserrors.ErrCodeInvalidConfig, "no mongo uri configured (set %s)", config.EnvMongoURI)
	}
	return mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
}

func (c *CLI) archiveSaveCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "save [log]",
		Short: "Replay an event log and archive every frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if id == "" {
				id = graphID(args[0])
			}

			events, err := stream.ReadFile(args[0])
			if err != nil {
				return err
			}
			archive, err := openArchive(ctx, cfg)
			if err != nil {
				return err
			}
			defer archive.Close(ctx)

			g := graph.New(id, c.graphOptions(cfg)...)
			player := stream.NewPlayer(g, stream.SplitFrames(events))

			prog := newProgress(loggerFromContext(ctx))
			saved, last := 0, 0.0
			for {
				f, ok, err := player.Step()
				if !ok {
					break
				}
				if err != nil {
					return err
				}
				s := gsio.Capture(g)
				s.Step = f.Step
				last = f.Step
				if err := archive.Save(ctx, s, g.LastEventID()); err != nil {
					return err
				}
				saved++
			}
			prog.done("Archived frames", "graph", id, "frames", saved)

			printSuccess("Graph %s", StyleHighlight.Render(id))
			printStats(g.NodeCount(), g.EdgeCount(), last)
			printNextStep("List frames with", "graphstream archive list "+id)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "graph id (default: log file name)")

	return cmd
}

func (c *CLI) archiveListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [graph-id]",
		Short: "List the archived steps of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			archive, err := openArchive(ctx, cfg)
			if err != nil {
				return err
			}
			defer archive.Close(ctx)

			steps, err := archive.Steps(ctx, args[0])
			if err != nil {
				return err
			}
			if len(steps) == 0 {
				printInfo("No snapshots for %s", args[0])
				return nil
			}
			for _, step := range steps {
				fmt.Println(strconv.FormatFloat(step, 'g', -1, 64))
			}
			return nil
		},
	}
}

func (c *CLI) archiveGetCommand() *cobra.Command {
	var output string
	var step float64
	var latest bool

	cmd := &cobra.Command{
		Use:   "get [graph-id]",
		Short: "Write an archived snapshot to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			archive, err := openArchive(ctx, cfg)
			if err != nil {
				return err
			}
			defer archive.Close(ctx)

			var s *gsio.Snapshot
			if latest || !cmd.Flags().Changed("step") {
				s, err = archive.Latest(ctx, args[0])
			} else {
				s, err = archive.Load(ctx, args[0], step)
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("%s-%g.json", args[0], s.Step)
			}
			f, err := createFile(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := gsio.EncodeSnapshot(s, f); err != nil {
				return err
			}
			printSuccess("Graph %s", StyleHighlight.Render(s.ID))
			printStats(len(s.Nodes), len(s.Edges), s.Step)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot path (default: <graph-id>-<step>.json)")
	cmd.Flags().Float64Var(&step, "step", 0, "step to restore")
	cmd.Flags().BoolVar(&latest, "latest", false, "restore the latest step (default without --step)")

	return cmd
}

func (c *CLI) archiveDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [graph-id]",
		Short: "Remove every archived snapshot of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			archive, err := openArchive(ctx, cfg)
			if err != nil {
				return err
			}
			defer archive.Close(ctx)

			n, err := archive.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			printSuccess("Deleted %d snapshots of %s", n, args[0])
			return nil
		},
	}
}
