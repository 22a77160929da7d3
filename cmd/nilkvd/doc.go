// Command nilkvd is the entry point for the nilkv server.
//
// nilkvd binds a TCP listener, hands it to the single-threaded epoll
// event loop, and serves a small sidecar HTTP surface (health, readiness,
// Prometheus metrics) alongside it.
//
// Usage:
//
//	nilkvd [flags]
//	nilkvd --config /path/to/config.yaml
package main
