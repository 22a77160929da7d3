// Package config defines the server configuration structure.
package config

import (
	"errors"
	"fmt"

	"github.com/nilkv/nilkv/internal/core/protocol"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyListener(&cfg.Listener); err != nil {
		return err
	}
	if err := verifyProtocol(&cfg.Protocol); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	return nil
}

func verifyListener(cfg *ListenerSection) error {
	if cfg.Host == "" {
		return errors.New("listener.host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("listener.port %d is out of range", cfg.Port)
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("listener.idle_timeout must be positive")
	}
	if cfg.AcceptRatePerSec < 0 {
		return errors.New("listener.accept_rate_per_sec must not be negative")
	}
	if cfg.AcceptRatePerSec > 0 && cfg.AcceptBurst <= 0 {
		return errors.New("listener.accept_burst must be positive when accept_rate_per_sec is set")
	}
	return nil
}

// verifyProtocol rejects any attempt to loosen the wire-protocol budgets
// spec.md §4.5/§8 fix as invariants. A config file may only tighten them.
func verifyProtocol(cfg *ProtocolSection) error {
	if cfg.MaxMsgBytes <= 0 || cfg.MaxMsgBytes > protocol.DefaultMaxMsg {
		return fmt.Errorf("protocol.max_msg_bytes must be in (0, %d]", protocol.DefaultMaxMsg)
	}
	if cfg.MaxArgs <= 0 || cfg.MaxArgs > protocol.DefaultMaxArgs {
		return fmt.Errorf("protocol.max_args must be in (0, %d]", protocol.DefaultMaxArgs)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch cfg.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}
