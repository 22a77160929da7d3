// Package command dispatches a parsed request (an argument vector) to
// the keyspace and serializes the result via package protocol. It knows
// nothing about connections or I/O.
package command
