// Package conn implements per-connection state and the read/write
// handlers the event loop drives: buffered non-blocking I/O, request
// extraction, and the read/write intent pair that tells the loop what to
// poll for next.
package conn
