// Package eventloop drives the single-threaded, epoll-based connection
// multiplexer: it owns the fd→Connection table and the idle-connection
// LRU, keeps each connection's epoll interest in sync with its
// (want_read, want_write) intent, and services readiness, acceptance,
// and idle reaping in one loop.
package eventloop
