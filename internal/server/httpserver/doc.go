// Package httpserver provides the sidecar HTTP server for nilkv.
//
// This is not the key-value protocol surface — that is served by
// internal/core/eventloop on a raw TCP listener. This package serves a
// small operational surface alongside it:
//
//   - GET /health: liveness
//   - GET /ready: readiness
//   - GET /metrics: Prometheus scrape endpoint (internal/telemetry/metric)
//
// Features:
//
//   - Middleware chain: RequestID, Recover
//   - Graceful shutdown with a caller-supplied context deadline
package httpserver
