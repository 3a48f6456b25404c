// Package server exposes a live graph over a read-only HTTP API.
//
// The served graph is built with [graph.NewConcurrent], so handlers read it
// while a feeder goroutine applies events to it. Every response reflects
// the state after some complete mutation.
//
// # Routes
//
//	GET /health                     liveness
//	GET /api/v1/graph               counts, last event id and step
//	GET /api/v1/graph/snapshot      full JSON snapshot (cached per revision)
//	GET /api/v1/graph/render.{fmt}  dot, svg or png (cached)
//	GET /api/v1/nodes               node ids with degrees
//	GET /api/v1/nodes/{nodeID}      one node with attributes and neighbors
//	GET /api/v1/edges/{edgeID}      one edge with attributes
//	GET /metrics                    Prometheus metrics, when configured
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/graphstream/pkg/cache"
	"github.com/matzehuels/graphstream/pkg/graph"
	"github.com/matzehuels/graphstream/pkg/render/nodelink"
)

// Server serves one graph.
type Server struct {
	graph    *graph.Graph
	renderer *nodelink.Renderer
	logger   *log.Logger
	registry *prometheus.Registry

	snapshots   cache.Cache
	keyer       cache.Keyer
	snapshotTTL time.Duration
}

// Option configures a [Server].
type Option func(*Server)

// WithRenderer sets the renderer, typically one backed by a shared cache.
func WithRenderer(r *nodelink.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSnapshotCache caches encoded snapshots in c under keys from k, one
// entry per graph revision.
func WithSnapshotCache(c cache.Cache, k cache.Keyer, ttl time.Duration) Option {
	return func(s *Server) {
		if c != nil {
			s.snapshots = c
		}
		if k != nil {
			s.keyer = k
		}
		s.snapshotTTL = ttl
	}
}

// WithMetrics serves reg on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// New returns a server over g. g should be a concurrent graph when it is
// mutated while serving.
func New(g *graph.Graph, opts ...Option) *Server {
	s := &Server{
		graph:     g,
		renderer:  nodelink.NewRenderer(nil, 0),
		logger:    log.Default(),
		snapshots: cache.NewNullCache(),
		keyer:     cache.NewDefaultKeyer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/graph", func(r chi.Router) {
			r.Get("/", s.graphInfo)
			r.Get("/snapshot", s.snapshot)
			r.Get("/render.{format}", s.render)
		})
		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", s.listNodes)
			r.Get("/{nodeID}", s.getNode)
		})
		r.Get("/edges/{edgeID}", s.getEdge)
	})

	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving graph", "id", s.graph.ID(), "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func requestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			l.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
