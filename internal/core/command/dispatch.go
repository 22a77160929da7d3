package command

import (
	"bytes"
	"math"
	"strconv"

	"github.com/nilkv/nilkv/internal/core/protocol"
	"github.com/nilkv/nilkv/internal/core/store"
	"github.com/nilkv/nilkv/internal/core/zset"
)

// Handler dispatches requests against a single Keyspace. It is not
// safe for concurrent use — the event loop is the only caller.
type Handler struct {
	ks *store.Keyspace

	maxRespBytes uint32

	onCommand func(name string)
	onRehash  func()
}

// NewHandler returns a Handler bound to ks, with the response-size
// ceiling defaulted to protocol.DefaultMaxMsg.
func NewHandler(ks *store.Keyspace) *Handler {
	return &Handler{ks: ks, maxRespBytes: protocol.DefaultMaxMsg}
}

// SetMaxResponseBytes overrides the response-size ceiling Dispatch
// enforces, in place of protocol.DefaultMaxMsg. internal/server/kvserver
// calls this from the Protocol config section before the event loop
// starts routing requests.
func (h *Handler) SetMaxResponseBytes(n uint32) {
	h.maxRespBytes = n
}

// SetCommandObserver registers fn to be called with the lowercased
// command name of every request that reaches route, including unknown
// commands (name "" for an empty argument vector). Intended for a
// per-command request counter.
func (h *Handler) SetCommandObserver(fn func(name string)) {
	h.onCommand = fn
}

// SetRehashObserver registers fn to be called whenever any hash table
// this Handler manages starts a progressive rehashing cycle: the
// keyspace itself, and the name index of every ZSET value zadd creates
// after the call (ZSETs already in the keyspace are not hooked).
// Intended for a rehash-cycle counter.
func (h *Handler) SetRehashObserver(fn func()) {
	h.onRehash = fn
	h.ks.OnRehash(fn)
}

// Dispatch executes one request (a non-empty argument vector) and
// appends its length-prefixed response to out, returning the extended
// slice.
func (h *Handler) Dispatch(args [][]byte, out []byte) []byte {
	return protocol.WriteResponse(out, h.maxRespBytes, func(buf []byte) []byte {
		return h.route(args, buf)
	})
}

func (h *Handler) route(args [][]byte, buf []byte) []byte {
	if len(args) == 0 {
		if h.onCommand != nil {
			h.onCommand("")
		}
		return protocol.AppendErr(buf, protocol.ErrUnknown, "empty command")
	}
	cmd := string(bytes.ToLower(args[0]))
	if h.onCommand != nil {
		h.onCommand(cmd)
	}

	switch {
	case cmd == "get" && len(args) == 2:
		return h.doGet(args[1], buf)
	case cmd == "set" && len(args) == 3:
		return h.doSet(args[1], args[2], buf)
	case cmd == "del" && len(args) == 2:
		return h.doDel(args[1], buf)
	case cmd == "keys" && len(args) == 1:
		return h.doKeys(buf)
	case cmd == "zadd" && len(args) == 4:
		return h.doZAdd(args[1], args[2], args[3], buf)
	case cmd == "zrem" && len(args) == 3:
		return h.doZRem(args[1], args[2], buf)
	case cmd == "zscore" && len(args) == 3:
		return h.doZScore(args[1], args[2], buf)
	case cmd == "zquery" && len(args) == 6:
		return h.doZQuery(args[1:], buf)
	default:
		return protocol.AppendErr(buf, protocol.ErrUnknown, "unknown command")
	}
}

func (h *Handler) doGet(key []byte, buf []byte) []byte {
	e := h.ks.Lookup(key)
	if e == nil {
		return protocol.AppendNil(buf)
	}
	if e.Tag != store.TagString {
		return protocol.AppendErr(buf, protocol.ErrBadType, "not a string")
	}
	return protocol.AppendStr(buf, e.Str)
}

func (h *Handler) doSet(key, val []byte, buf []byte) []byte {
	e := h.ks.Lookup(key)
	if e != nil {
		if e.Tag != store.TagString {
			return protocol.AppendErr(buf, protocol.ErrBadType, "not a string")
		}
		e.Str = append(e.Str[:0], val...)
		return protocol.AppendNil(buf)
	}
	h.ks.Insert(store.NewStringEntry(key, val, store.HashKey(key)))
	return protocol.AppendNil(buf)
}

func (h *Handler) doDel(key []byte, buf []byte) []byte {
	if h.ks.Delete(key) == nil {
		return protocol.AppendInt(buf, 0)
	}
	return protocol.AppendInt(buf, 1)
}

func (h *Handler) doKeys(buf []byte) []byte {
	keys := h.ks.Keys()
	buf = protocol.AppendArrHeader(buf, uint32(len(keys)))
	for _, k := range keys {
		buf = protocol.AppendStr(buf, k)
	}
	return buf
}

func (h *Handler) doZAdd(key, scoreArg, name []byte, buf []byte) []byte {
	score, ok := parseFiniteFloat(scoreArg)
	if !ok {
		return protocol.AppendErr(buf, protocol.ErrBadArg, "score must be a finite number")
	}
	e := h.ks.Lookup(key)
	if e == nil {
		e = store.NewZSetEntry(key, store.HashKey(key))
		if h.onRehash != nil {
			e.ZSet.OnRehash(h.onRehash)
		}
		h.ks.Insert(e)
	} else if e.Tag != store.TagZSet {
		return protocol.AppendErr(buf, protocol.ErrBadType, "not a zset")
	}
	if e.ZSet.Insert(name, score) {
		return protocol.AppendInt(buf, 1)
	}
	return protocol.AppendInt(buf, 0)
}

func (h *Handler) doZRem(key, name []byte, buf []byte) []byte {
	e := h.ks.Lookup(key)
	if e == nil {
		return protocol.AppendInt(buf, 0)
	}
	if e.Tag != store.TagZSet {
		return protocol.AppendErr(buf, protocol.ErrBadType, "not a zset")
	}
	node := e.ZSet.Lookup(name)
	if node == nil {
		return protocol.AppendInt(buf, 0)
	}
	e.ZSet.Delete(node)
	return protocol.AppendInt(buf, 1)
}

func (h *Handler) doZScore(key, name []byte, buf []byte) []byte {
	e := h.ks.Lookup(key)
	if e == nil {
		return protocol.AppendNil(buf)
	}
	if e.Tag != store.TagZSet {
		return protocol.AppendErr(buf, protocol.ErrBadType, "not a zset")
	}
	node := e.ZSet.Lookup(name)
	if node == nil {
		return protocol.AppendNil(buf)
	}
	return protocol.AppendDbl(buf, node.Score)
}

func (h *Handler) doZQuery(args [][]byte, buf []byte) []byte {
	// args: key, score, name, offset, limit
	score, ok := parseFiniteFloat(args[1])
	if !ok {
		return protocol.AppendErr(buf, protocol.ErrBadArg, "score must be a finite number")
	}
	name := args[2]
	offset, ok := parseInt(args[3])
	if !ok {
		return protocol.AppendErr(buf, protocol.ErrBadArg, "offset must be an integer")
	}
	limit, ok := parseInt(args[4])
	if !ok {
		return protocol.AppendErr(buf, protocol.ErrBadArg, "limit must be an integer")
	}

	zs := zset.Empty
	if e := h.ks.Lookup(args[0]); e != nil {
		if e.Tag != store.TagZSet {
			return protocol.AppendErr(buf, protocol.ErrBadType, "not a zset")
		}
		zs = e.ZSet
	}

	nodes := zs.Query(score, name, offset, limit)
	buf = protocol.AppendArrHeader(buf, uint32(len(nodes)*2))
	for _, n := range nodes {
		buf = protocol.AppendStr(buf, n.Name)
		buf = protocol.AppendDbl(buf, n.Score)
	}
	return buf
}

func parseFiniteFloat(b []byte) (float64, bool) {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseInt(b []byte) (int64, bool) {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
