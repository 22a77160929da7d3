package metric

import "github.com/prometheus/client_golang/prometheus"

// Collector reports metrics that must be sampled on demand rather than
// pushed incrementally, such as the current keyspace size: the event
// loop has no natural moment to Inc/Dec a gauge for it, so instead the
// collector pulls a snapshot every time Prometheus scrapes.
type Collector struct {
	keyspaceSizeDesc *prometheus.Desc
	keyspaceSize     func() float64
}

// NewCollector returns a Collector that reports keyspaceSize() as the
// nilkv_keyspace_size_entries gauge on every scrape.
func NewCollector(keyspaceSize func() float64) *Collector {
	return &Collector{
		keyspaceSizeDesc: prometheus.NewDesc(
			"nilkv_keyspace_size_entries",
			"Number of live entries in the keyspace.",
			nil, nil,
		),
		keyspaceSize: keyspaceSize,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keyspaceSizeDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keyspaceSizeDesc, prometheus.GaugeValue, c.keyspaceSize())
}

// MustRegister registers c against r's underlying registry, panicking
// on a duplicate registration (there is exactly one Collector per
// Registry, so this can only fail on a programming error).
func (r *Registry) MustRegister(c *Collector) {
	r.reg.MustRegister(c)
}
