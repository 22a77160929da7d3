// Package protocol implements the wire format: length-prefixed request
// framing and a small recursive tagged-value format for responses. It has
// no knowledge of command semantics — it only frames bytes.
package protocol
