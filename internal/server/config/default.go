// Package config defines the server configuration structure.
package config

import (
	"time"

	"github.com/nilkv/nilkv/internal/core/protocol"
)

// Default configuration values.
const (
	DefaultListenHost = "0.0.0.0"
	DefaultListenPort = 1234

	DefaultIdleTimeout = 5 * time.Second

	DefaultMetricsAddr = "127.0.0.1:9090"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Listener: ListenerSection{
			Host:        DefaultListenHost,
			Port:        DefaultListenPort,
			IdleTimeout: DefaultIdleTimeout,
		},
		Protocol: ProtocolSection{
			MaxMsgBytes: protocol.DefaultMaxMsg,
			MaxArgs:     protocol.DefaultMaxArgs,
		},
		Metrics: MetricsSection{
			Enabled: true,
			Addr:    DefaultMetricsAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
