// Package metrics exposes persistence events as Prometheus collectors. The
// Observer implements observability.Observer, so it can sit directly on a
// wrapper or fan out beside a logging observer through a MultiObserver.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/persistate/persistate/observability"
)

// Observer counts persistence events into a Prometheus registry.
type Observer struct {
	registry *prometheus.Registry

	events    *prometheus.CounterVec
	warnings  *prometheus.CounterVec
	payload   *prometheus.HistogramVec
	lastEvent *prometheus.GaugeVec
}

var _ observability.Observer = (*Observer)(nil)

// Option configures an Observer created by NewObserver.
type Option func(*Observer)

// WithRegistry collects into the given registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(o *Observer) { o.registry = registry }
}

// NewObserver creates an Observer backed by its own registry unless
// WithRegistry overrides it.
func NewObserver(opts ...Option) *Observer {
	o := &Observer{}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	o.events = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistate_events_total",
			Help: "Total persistence events by type and severity.",
		},
		[]string{"type", "level"},
	)
	o.warnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistate_warnings_total",
			Help: "Total warning-or-worse persistence events by type.",
		},
		[]string{"type"},
	)
	o.payload = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persistate_payload_bytes",
			Help:    "Size of persisted and restored payloads in bytes.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		},
		[]string{"type"},
	)
	o.lastEvent = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "persistate_last_event_timestamp_seconds",
			Help: "Unix timestamp of the most recent event by type.",
		},
		[]string{"type"},
	)

	o.registry.MustRegister(o.events, o.warnings, o.payload, o.lastEvent)

	return o
}

// OnEvent records the event. Safe for concurrent use.
func (o *Observer) OnEvent(_ context.Context, event observability.Event) {
	typ := string(event.Type)

	o.events.WithLabelValues(typ, event.Level.String()).Inc()

	if event.Level >= observability.LevelWarn {
		o.warnings.WithLabelValues(typ).Inc()
	}

	if n := event.Bytes(); n > 0 {
		o.payload.WithLabelValues(typ).Observe(float64(n))
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	o.lastEvent.WithLabelValues(typ).Set(float64(ts.Unix()))
}

// Registry returns the backing registry, e.g. for additional collectors.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// Handler returns an HTTP handler serving the registry in Prometheus
// exposition format, ready to mount at /metrics.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}
