package store

import (
	"bytes"

	"github.com/spaolacci/murmur3"

	"github.com/nilkv/nilkv/internal/core/container"
)

// Keyspace is the server's single hash map from key bytes to Entry,
// backed by container.HMap so growth happens via progressive rehashing
// rather than a stop-the-world resize.
type Keyspace struct {
	entries container.HMap[*Entry]
}

// NewKeyspace returns an empty keyspace.
func NewKeyspace() *Keyspace {
	return &Keyspace{}
}

// HashKey is the external hash function the keyspace and the command
// layer use to precompute an Entry's hash code before insertion.
func HashKey(key []byte) uint64 {
	return murmur3.Sum64(key)
}

func eqByKey(a, b *Entry) bool {
	return bytes.Equal(a.Key, b.Key)
}

// Lookup returns the Entry for key, or nil if absent.
func (k *Keyspace) Lookup(key []byte) *Entry {
	probe := &Entry{Key: key, hcode: HashKey(key)}
	return k.entries.Lookup(probe, eqByKey)
}

// Insert adds entry to the keyspace. Callers must have checked that no
// Entry with the same key already exists (get-or-create is the command
// layer's responsibility, since it differs per command).
func (k *Keyspace) Insert(entry *Entry) {
	k.entries.Insert(entry)
}

// Delete removes and returns the Entry for key, or nil if absent.
func (k *Keyspace) Delete(key []byte) *Entry {
	probe := &Entry{Key: key, hcode: HashKey(key)}
	return k.entries.Delete(probe, eqByKey)
}

// Size returns the number of live entries.
func (k *Keyspace) Size() uint64 {
	return k.entries.Size()
}

// Keys returns every key currently in the keyspace, in the arbitrary but
// stable-within-one-call order the underlying hash map iterates in.
func (k *Keyspace) Keys() [][]byte {
	keys := make([][]byte, 0, k.entries.Size())
	k.entries.ForEach(func(e *Entry) bool {
		keys = append(keys, e.Key)
		return true
	})
	return keys
}

// OnRehash registers fn to be called each time the keyspace's backing
// hash map starts a progressive rehashing cycle. Intended for a metrics
// counter.
func (k *Keyspace) OnRehash(fn func()) {
	k.entries.OnRehashStart = fn
}
