// Package httpserver provides the HTTP server for nilkv.
package httpserver

import (
	"net/http"

	"github.com/nilkv/nilkv/internal/server/httpserver/handler"
	"github.com/nilkv/nilkv/internal/telemetry/logger"
	"github.com/nilkv/nilkv/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Logger for request logging.
	Logger logger.Logger

	// Metrics, if non-nil, is served at GET /metrics.
	Metrics *metric.Registry
}

// NewRouter builds the sidecar HTTP surface: health/readiness probes and
// the Prometheus scrape endpoint. It never sees client traffic — that
// goes through internal/core/eventloop on the raw TCP listener.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.Logger)

	mux := http.NewServeMux()
	mux.Handle("GET /health", Chain(
		http.HandlerFunc(h.HandleHealth),
		RequestID(), Recover(cfg.Logger),
	))
	mux.Handle("GET /ready", Chain(
		http.HandlerFunc(h.HandleReady),
		RequestID(), Recover(cfg.Logger),
	))

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(
			cfg.Metrics.Handler(),
			RequestID(), Recover(cfg.Logger),
		))
	}

	return mux
}

// DefaultRouterConfig returns a router configuration with no logger and
// no metrics registry; callers building a real server should replace both.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{}
}
