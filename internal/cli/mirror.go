package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphstream/pkg/config"
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
	gsio "github.com/matzehuels/graphstream/pkg/io"
	"github.com/matzehuels/graphstream/pkg/store/redis"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// mirrorCommand creates the mirror command for the Redis event mirror.
func (c *CLI) mirrorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Mirror graphs into Redis",
		Long: `Mirror keeps graphs in Redis: push replays an event log with a Redis mirror
attached, pull rebuilds the mirrored state, and events dumps the mirrored
history as a new event log.

The Redis server is taken from [redis] in the config file or from
GRAPHSTREAM_REDIS_ADDR.`,
	}

	cmd.AddCommand(c.mirrorPushCommand())
	cmd.AddCommand(c.mirrorPullCommand())
	cmd.AddCommand(c.mirrorEventsCommand())
	cmd.AddCommand(c.mirrorDeleteCommand())

	return cmd
}

// openMirror connects to the configured Redis server.
func (c *CLI) openMirror(ctx context.Context, cfg *config.Config) (*redis.Store, error) {
	if cfg.Redis.Addr == "" {
		return nil, gserrors.New(gserrors.ErrCodeInvalidConfig, "no redis address configured (set %s)", config.EnvRedisAddr)
	}
	return redis.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		redis.WithPrefix(cfg.Redis.Prefix), redis.WithLogger(c.Logger))
}

func (c *CLI) mirrorPushCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "push [log]",
		Short: "Replay an event log into the Redis mirror",
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

			store, err := c.openMirror(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(ctx, id); err != nil {
				return err
			}
			m := store.Mirror(ctx, id)

			events, err := stream.ReadFile(args[0])
			if err != nil {
				return err
			}
			g := graph.New(id, c.graphOptions(cfg)...)
			if err := g.AddListener(m); err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			spin := newSpinner(ctx, "Mirroring "+id)
			if err := g.AddListener(spin.Listener()); err != nil {
				return err
			}
			spin.Start()
			var step float64
			var n int
			err = replayEvents(ctx, args[0], g, events, &step, &n)
			spin.Stop()
			if err != nil {
				return err
			}
			if err := m.Err(); err != nil {
				return err
			}
			prog.done("Mirrored events", "graph", id, "events", m.Count())

			printSuccess("Graph %s pushed to %s", StyleHighlight.Render(id), cfg.Redis.Addr)
			printStats(g.NodeCount(), g.EdgeCount(), step)
			printNextStep("Rebuild it with", "graphstream mirror pull "+id)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "graph id (default: log file name)")

	return cmd
}

func (c *CLI) mirrorPullCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull [graph-id]",
		Short: "Rebuild a mirrored graph as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.openMirror(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			// Mirrored state is already consistent; rebuild leniently.
			g := graph.New(args[0], graph.WithStrictChecking(false), graph.WithAutoCreate(true), graph.WithMultigraph())
			if err := store.Load(ctx, args[0], g); err != nil {
				return err
			}
			l := &loaded{graph: g, step: g.Step()}

			printSuccess("Graph %s", StyleHighlight.Render(g.ID()))
			printStats(g.NodeCount(), g.EdgeCount(), l.step)

			if output == "" {
				output = args[0] + ".json"
			}
			f, err := createFile(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := gsio.EncodeSnapshot(l.snapshot(), f); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot path (default: <graph-id>.json)")

	return cmd
}

func (c *CLI) mirrorEventsCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "events [graph-id]",
		Short: "Write the mirrored history as an event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.openMirror(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			events, err := store.Events(ctx, args[0])
			if err != nil {
				return err
			}

			if output == "" {
				output = args[0] + ".jsonl"
			}
			f, err := createFile(output)
			if err != nil {
				return err
			}
			defer f.Close()
			w := stream.NewWriter(f)
			for _, e := range events {
				w.Write(e)
			}
			if err := w.Err(); err != nil {
				return err
			}
			printSuccess("Wrote %d events", w.Count())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "log path (default: <graph-id>.jsonl)")

	return cmd
}

func (c *CLI) mirrorDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [graph-id]",
		Short: "Remove a mirrored graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.openMirror(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
