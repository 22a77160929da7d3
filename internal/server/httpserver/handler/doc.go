// Package handler provides HTTP request handlers for the nilkv sidecar.
//
// This package contains handlers for the sidecar's HTTP endpoints:
//
//   - handler.go: shared Handler type and JSON response helper
//   - health.go: liveness and readiness checks
//
// The key-value protocol itself is never reached through this package —
// it is served by internal/core/eventloop on a separate raw TCP listener.
package handler
