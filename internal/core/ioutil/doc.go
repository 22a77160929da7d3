// Package ioutil holds the small non-blocking-I/O and timekeeping
// helpers the event loop and connection layer share: setting a socket
// non-blocking, and a monotonic millisecond clock immune to wall-clock
// adjustments.
package ioutil
