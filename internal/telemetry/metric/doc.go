// Package metric provides Prometheus metrics for nilkv.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: the Registry of push-style counters, gauges, and
//     histograms the event loop and command layer update directly, plus
//     the HTTP handler that serves them
//   - collector.go: a pull-style Collector for values sampled on
//     demand at scrape time rather than pushed incrementally
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
