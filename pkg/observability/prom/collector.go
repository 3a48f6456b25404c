// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/graphstream/pkg/observability"
)

// Collector holds the Prometheus metrics fed by the observability hooks.
type Collector struct {
	registry *prometheus.Registry

	Events *prometheus.CounterVec

	Replays        *prometheus.CounterVec
	ReplayEvents   prometheus.Counter
	ReplayDuration prometheus.Histogram
	RenderDuration *prometheus.HistogramVec

	CacheOps *prometheus.CounterVec
	CacheSet prometheus.Counter

	StoreOps      *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec
}

// NewCollector creates the metrics under namespace in a private registry.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graph_events_total",
				Help:      "Total number of graph events observed",
			},
			[]string{"kind"},
		),
		Replays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replays_total",
				Help:      "Total number of event log replays",
			},
			[]string{"status"},
		),
		ReplayEvents: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replay_events_total",
				Help:      "Total number of events applied by replays",
			},
		),
		ReplayDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "replay_duration_seconds",
				Help:      "Event log replay duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Rendering duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"format", "status"},
		),
		CacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Total number of cache lookups",
			},
			[]string{"key_type", "result"},
		),
		CacheSet: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_written_bytes_total",
				Help:      "Total number of bytes written to the cache",
			},
		),
		StoreOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Total number of backend store operations",
			},
			[]string{"backend", "operation", "status"},
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_operation_duration_seconds",
				Help:      "Backend store operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),
	}

	c.registry.MustRegister(
		c.Events,
		c.Replays,
		c.ReplayEvents,
		c.ReplayDuration,
		c.RenderDuration,
		c.CacheOps,
		c.CacheSet,
		c.StoreOps,
		c.StoreDuration,
	)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Install registers c for every hook category.
func (c *Collector) Install() {
	observability.SetGraphHooks(c)
	observability.SetReplayHooks(c)
	observability.SetCacheHooks(c)
	observability.SetStoreHooks(c)
}

func (c *Collector) OnEvent(_ string, kind string) {
	c.Events.WithLabelValues(kind).Inc()
}

func (c *Collector) OnReplayStart(context.Context, string) {}

func (c *Collector) OnReplayComplete(_ context.Context, _ string, events int, d time.Duration, err error) {
	c.Replays.WithLabelValues(status(err)).Inc()
	c.ReplayEvents.Add(float64(events))
	c.ReplayDuration.Observe(d.Seconds())
}

func (c *Collector) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	c.RenderDuration.WithLabelValues(format, status(err)).Observe(d.Seconds())
}

func (c *Collector) OnCacheHit(_ context.Context, keyType string) {
	c.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (c *Collector) OnCacheMiss(_ context.Context, keyType string) {
	c.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (c *Collector) OnCacheSet(_ context.Context, _ string, size int) {
	c.CacheSet.Add(float64(size))
}

func (c *Collector) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	c.StoreOps.WithLabelValues(backend, op, status(err)).Inc()
	c.StoreDuration.WithLabelValues(backend, op).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.GraphHooks  = (*Collector)(nil)
	_ observability.ReplayHooks = (*Collector)(nil)
	_ observability.CacheHooks  = (*Collector)(nil)
	_ observability.StoreHooks  = (*Collector)(nil)
)
