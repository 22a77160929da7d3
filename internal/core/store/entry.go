package store

import "github.com/nilkv/nilkv/internal/core/zset"

// ValueTag identifies the kind of payload an Entry carries.
type ValueTag uint8

const (
	TagString ValueTag = iota
	TagZSet
)

func (t ValueTag) String() string {
	switch t {
	case TagString:
		return "string"
	case TagZSet:
		return "zset"
	default:
		return "unknown"
	}
}

// Entry is one keyspace binding: a key, its precomputed hash code, a type
// tag, and a payload that is either an owned byte string or an owned
// ZSet. The keyspace uniquely owns every Entry.
type Entry struct {
	Key   []byte
	hcode uint64
	Tag   ValueTag

	Str  []byte
	ZSet *zset.ZSet

	hnext *Entry
}

// NewStringEntry builds an Entry holding val as a STRING value.
func NewStringEntry(key, val []byte, hcode uint64) *Entry {
	return &Entry{
		Key:   append([]byte(nil), key...),
		hcode: hcode,
		Tag:   TagString,
		Str:   append([]byte(nil), val...),
	}
}

// NewZSetEntry builds an Entry holding a fresh, empty ZSET value.
func NewZSetEntry(key []byte, hcode uint64) *Entry {
	return &Entry{
		Key:   append([]byte(nil), key...),
		hcode: hcode,
		Tag:   TagZSet,
		ZSet:  zset.New(),
	}
}

// HashNode, implemented so Entry can live directly in a container.HMap.

func (e *Entry) HNext() *Entry     { return e.hnext }
func (e *Entry) SetHNext(m *Entry) { e.hnext = m }
func (e *Entry) HCode() uint64     { return e.hcode }
