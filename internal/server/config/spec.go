// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for nilkvd.
type ServerConfig struct {
	Listener ListenerSection `koanf:"listener"`
	Protocol ProtocolSection `koanf:"protocol"`
	Metrics  MetricsSection  `koanf:"metrics"`
	Log      LogSection      `koanf:"log"`
}

// ListenerSection configures the TCP listener spec.md §6 describes: bound,
// set to listen with a fixed backlog, and set non-blocking before the fd
// is ever handed to the core event loop.
type ListenerSection struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// IdleTimeout is how long a connection may sit without activity
	// before the event loop's reaper closes it (spec.md §4.8).
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// AcceptRatePerSec and AcceptBurst configure the optional token-bucket
	// limiter the event loop checks once per readable-listener event. A
	// zero AcceptRatePerSec disables the limiter.
	AcceptRatePerSec float64 `koanf:"accept_rate_per_sec"`
	AcceptBurst      int     `koanf:"accept_burst"`
}

// ProtocolSection documents the wire-protocol limits spec.md §4.5 fixes
// as invariants. Verify rejects a config file that tries to raise these
// past the compiled-in protocol.DefaultMaxMsg/protocol.DefaultMaxArgs
// constants; a deployment may only tighten them. kvserver.New threads the
// verified values into protocol.Limits, so a tightened value actually
// changes what internal/core/conn.Connection and internal/core/command.Handler
// accept and emit rather than only gating config load.
type ProtocolSection struct {
	MaxMsgBytes int `koanf:"max_msg_bytes"`
	MaxArgs     int `koanf:"max_args"`
}

// MetricsSection configures the /metrics HTTP surface served by
// internal/telemetry/metric.Registry.
type MetricsSection struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// LogSection mirrors internal/telemetry/logger.Config.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
