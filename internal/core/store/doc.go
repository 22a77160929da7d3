// Package store implements the keyspace: a hash map from key bytes to
// Entry, backed by container.HMap for progressive rehashing. An Entry
// holds either an owned string or an owned ZSet; the keyspace owns every
// Entry and, transitively, everything it points to.
package store
