// Package metric provides Prometheus metrics for nilkv.
//
// It exposes metrics in Prometheus format for monitoring connection
// churn, protocol traffic, and internal maintenance work (rehashing,
// idle reaping, poll latency) that never surfaces in the wire protocol
// itself.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every metric the event loop and command layer report
// against. It wraps its own prometheus.Registerer so a process can run
// more than one Registry (tests, or multiple listeners) without
// colliding on the global default registry.
type Registry struct {
	reg *prometheus.Registry

	ConnectionsAccepted prometheus.Counter
	ConnectionsActive   prometheus.Gauge

	BytesRead    prometheus.Counter
	BytesWritten prometheus.Counter

	RequestsByCommand *prometheus.CounterVec

	RehashCycles     prometheus.Counter
	IdleReclamations prometheus.Counter

	PollWaitSeconds prometheus.Histogram
}

// NewRegistry creates a Registry with every metric registered against a
// fresh prometheus.Registry (not the global DefaultRegisterer), so
// Handler serves exactly the metrics this package defines.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,

		ConnectionsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "nilkv",
			Name:      "connections_accepted_total",
			Help:      "Total number of accepted client connections.",
		}),
		ConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "nilkv",
			Name:      "connections_active",
			Help:      "Number of currently open client connections.",
		}),
		BytesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "nilkv",
			Name:      "bytes_read_total",
			Help:      "Total bytes read from client sockets.",
		}),
		BytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "nilkv",
			Name:      "bytes_written_total",
			Help:      "Total bytes written to client sockets.",
		}),
		RequestsByCommand: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nilkv",
			Name:      "requests_total",
			Help:      "Total requests dispatched, by command name.",
		}, []string{"command"}),
		RehashCycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "nilkv",
			Name:      "rehash_cycles_total",
			Help:      "Total number of progressive-rehashing cycles started across all hash tables.",
		}),
		IdleReclamations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "nilkv",
			Name:      "idle_reclamations_total",
			Help:      "Total connections closed by the idle-connection reaper.",
		}),
		PollWaitSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nilkv",
			Name:      "poll_wait_seconds",
			Help:      "Time spent blocked in the event loop's poll wait.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 12),
		}),
	}
}

// Handler returns an HTTP handler serving this Registry's metrics in
// the Prometheus text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
