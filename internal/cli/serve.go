package cli

import (
	"bytes"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphstream/pkg/cache"
	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
	"github.com/matzehuels/graphstream/pkg/observability"
	"github.com/matzehuels/graphstream/pkg/observability/prom"
	"github.com/matzehuels/graphstream/pkg/render/nodelink"
	"github.com/matzehuels/graphstream/pkg/server"
	"github.com/matzehuels/graphstream/pkg/stream"
)

// serveCommand creates the serve command: feed an event log into a live
// graph and expose it over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string
	var interval time.Duration
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve [log]",
		Short: "Serve a live graph over HTTP",
		Long: `Serve feeds an event log into a graph in the background and exposes the
graph over a read-only JSON API while it evolves. With --interval the feed
pauses after every STEP event so the graph can be watched frame by frame.

Prometheus metrics for graph events, renders, cache lookups and backend calls
are served on /metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Server.Listen
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return gserrors.Wrap(gserrors.ErrCodeFileNotFound, err, "open %s", args[0])
			}
			events, err := stream.NewReader(bytes.NewReader(data)).ReadAll()
			if err != nil {
				return err
			}

			metrics := prom.NewCollector(appName)
			metrics.Install()

			g := graph.NewConcurrent(graphID(args[0]), c.graphOptions(cfg)...)
			if err := g.AddListener(observability.Listener()); err != nil {
				return err
			}

			store := c.newCache(ctx, cfg, noCache)
			defer store.Close()
			keyer := newKeyer(cfg)
			renderer := nodelink.NewRenderer(store, cfg.Cache.TTL.Duration)
			renderer.Keyer = keyer
			srv := server.New(g,
				server.WithRenderer(renderer),
				server.WithSnapshotCache(store, feedKeyer(keyer, data), cfg.Cache.TTL.Duration),
				server.WithLogger(c.Logger),
				server.WithMetrics(metrics.Registry()),
			)

			go func() {
				n := srv.Feed(ctx, events, interval)
				c.Logger.Info("feed complete", "applied", n, "events", len(events))
			}()

			printSuccess("Serving %s on %s", StyleHighlight.Render(g.ID()), listen)
			printDetail("%d events queued", len(events))
			return srv.ListenAndServe(ctx, listen, cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "pause after every STEP event")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable render caching")

	return cmd
}

// feedKeyer scopes snapshot keys to the served log's content: graph ids come
// from file names and revisions restart with every serve, so two logs with
// the same name must not share entries.
func feedKeyer(base cache.Keyer, log []byte) cache.Keyer {
	return cache.NewScopedKeyer(base, "feed-"+cache.Hash(log)[:12]+":")
}
