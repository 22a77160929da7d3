// Package config defines the server configuration structure.
package config

import (
	"testing"
	"time"

	"github.com/nilkv/nilkv/internal/core/protocol"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Listener.Host != DefaultListenHost {
		t.Errorf("Listener.Host = %q, want %q", cfg.Listener.Host, DefaultListenHost)
	}
	if cfg.Listener.Port != DefaultListenPort {
		t.Errorf("Listener.Port = %d, want %d", cfg.Listener.Port, DefaultListenPort)
	}
	if cfg.Listener.IdleTimeout != DefaultIdleTimeout {
		t.Errorf("Listener.IdleTimeout = %v, want %v", cfg.Listener.IdleTimeout, DefaultIdleTimeout)
	}
	if cfg.Protocol.MaxMsgBytes != protocol.DefaultMaxMsg {
		t.Errorf("Protocol.MaxMsgBytes = %d, want %d", cfg.Protocol.MaxMsgBytes, protocol.DefaultMaxMsg)
	}
	if cfg.Protocol.MaxArgs != protocol.DefaultMaxArgs {
		t.Errorf("Protocol.MaxArgs = %d, want %d", cfg.Protocol.MaxArgs, protocol.DefaultMaxArgs)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}

	if err := Verify(cfg); err != nil {
		t.Errorf("Default() should verify cleanly, got: %v", err)
	}
}

func TestVerify_ValidConfig(t *testing.T) {
	cfg := Default()
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestVerify_EmptyHost(t *testing.T) {
	cfg := Default()
	cfg.Listener.Host = ""
	if err := Verify(cfg); err == nil {
		t.Error("expected error for empty listener.host")
	}
}

func TestVerify_PortOutOfRange(t *testing.T) {
	for _, port := range []int{0, -1, 65536, 100000} {
		cfg := Default()
		cfg.Listener.Port = port
		if err := Verify(cfg); err == nil {
			t.Errorf("expected error for listener.port = %d", port)
		}
	}
}

func TestVerify_NonPositiveIdleTimeout(t *testing.T) {
	cfg := Default()
	cfg.Listener.IdleTimeout = 0
	if err := Verify(cfg); err == nil {
		t.Error("expected error for zero idle_timeout")
	}
}

func TestVerify_AcceptRateWithoutBurst(t *testing.T) {
	cfg := Default()
	cfg.Listener.AcceptRatePerSec = 100
	cfg.Listener.AcceptBurst = 0
	if err := Verify(cfg); err == nil {
		t.Error("expected error for accept_rate_per_sec set without accept_burst")
	}
}

func TestVerify_ProtocolLimitsCannotExceedCompiledInBudgets(t *testing.T) {
	cfg := Default()
	cfg.Protocol.MaxMsgBytes = protocol.DefaultMaxMsg + 1
	if err := Verify(cfg); err == nil {
		t.Error("expected error for max_msg_bytes exceeding protocol.DefaultMaxMsg")
	}

	cfg = Default()
	cfg.Protocol.MaxArgs = protocol.DefaultMaxArgs + 1
	if err := Verify(cfg); err == nil {
		t.Error("expected error for max_args exceeding protocol.DefaultMaxArgs")
	}
}

func TestVerify_ProtocolLimitsCanBeTightened(t *testing.T) {
	cfg := Default()
	cfg.Protocol.MaxMsgBytes = 1024
	cfg.Protocol.MaxArgs = 16
	if err := Verify(cfg); err != nil {
		t.Errorf("tightening protocol limits should verify cleanly, got: %v", err)
	}
}

func TestVerify_InvalidLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "verbose"
	if err := Verify(cfg); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestVerify_InvalidLogFormat(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "xml"
	if err := Verify(cfg); err == nil {
		t.Error("expected error for unknown log format")
	}
}

func TestServerConfig_Struct(t *testing.T) {
	cfg := ServerConfig{
		Listener: ListenerSection{
			Host:             "0.0.0.0",
			Port:             1234,
			IdleTimeout:      5 * time.Second,
			AcceptRatePerSec: 500,
			AcceptBurst:      50,
		},
		Protocol: ProtocolSection{
			MaxMsgBytes: protocol.DefaultMaxMsg,
			MaxArgs:     protocol.DefaultMaxArgs,
		},
		Metrics: MetricsSection{
			Enabled: true,
			Addr:    "127.0.0.1:9090",
		},
		Log: LogSection{
			Level:  "debug",
			Format: "text",
		},
	}

	if cfg.Listener.Port != 1234 {
		t.Error("listener port not set correctly")
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled")
	}
}
