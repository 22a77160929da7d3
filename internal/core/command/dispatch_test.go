package command

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/nilkv/nilkv/internal/core/protocol"
	"github.com/nilkv/nilkv/internal/core/store"
)

// decoded is a parsed response value, used only by tests to assert on
// dispatch output without re-implementing the wire format by hand.
type decoded struct {
	tag   protocol.Tag
	i     int64
	d     float64
	s     []byte
	code  uint32
	items []decoded
}

func decodeResponse(t *testing.T, buf []byte) decoded {
	t.Helper()
	if len(buf) < 4 {
		t.Fatalf("response too short: %d bytes", len(buf))
	}
	n := binary.LittleEndian.Uint32(buf[:4])
	frame := buf[4 : 4+n]
	v, rest := decodeValue(t, frame)
	if len(rest) != 0 {
		t.Fatalf("trailing bytes after decoding one value: %d", len(rest))
	}
	return v
}

func decodeValue(t *testing.T, buf []byte) (decoded, []byte) {
	t.Helper()
	tag := protocol.Tag(buf[0])
	buf = buf[1:]
	switch tag {
	case protocol.TagNil:
		return decoded{tag: tag}, buf
	case protocol.TagErr:
		code := binary.LittleEndian.Uint32(buf[:4])
		l := binary.LittleEndian.Uint32(buf[4:8])
		msg := buf[8 : 8+l]
		return decoded{tag: tag, code: code, s: msg}, buf[8+l:]
	case protocol.TagStr:
		l := binary.LittleEndian.Uint32(buf[:4])
		s := buf[4 : 4+l]
		return decoded{tag: tag, s: s}, buf[4+l:]
	case protocol.TagInt:
		v := int64(binary.LittleEndian.Uint64(buf[:8]))
		return decoded{tag: tag, i: v}, buf[8:]
	case protocol.TagDbl:
		v := math.Float64frombits(binary.LittleEndian.Uint64(buf[:8]))
		return decoded{tag: tag, d: v}, buf[8:]
	case protocol.TagArr:
		n := binary.LittleEndian.Uint32(buf[:4])
		buf = buf[4:]
		items := make([]decoded, 0, n)
		for i := uint32(0); i < n; i++ {
			var item decoded
			item, buf = decodeValue(t, buf)
			items = append(items, item)
		}
		return decoded{tag: tag, items: items}, buf
	default:
		t.Fatalf("unknown tag %d", tag)
		return decoded{}, nil
	}
}

func dispatch(t *testing.T, h *Handler, args ...string) decoded {
	t.Helper()
	raw := make([][]byte, len(args))
	for i, a := range args {
		raw[i] = []byte(a)
	}
	out := h.Dispatch(raw, nil)
	return decodeResponse(t, out)
}

func TestGetSetRoundTrip(t *testing.T) {
	h := NewHandler(store.NewKeyspace())

	if got := dispatch(t, h, "get", "k"); got.tag != protocol.TagNil {
		t.Fatalf("expected NIL for missing key, got tag %d", got.tag)
	}

	if got := dispatch(t, h, "set", "k", "v1"); got.tag != protocol.TagNil {
		t.Fatalf("expected NIL from set, got tag %d", got.tag)
	}
	if got := dispatch(t, h, "get", "k"); got.tag != protocol.TagStr || string(got.s) != "v1" {
		t.Fatalf("expected STR v1, got %+v", got)
	}

	// Overwrite.
	dispatch(t, h, "set", "k", "v2")
	if got := dispatch(t, h, "get", "k"); string(got.s) != "v2" {
		t.Fatalf("expected overwritten value v2, got %q", got.s)
	}
}

func TestSetOnZSetIsBadType(t *testing.T) {
	h := NewHandler(store.NewKeyspace())
	dispatch(t, h, "zadd", "z", "1", "a")
	got := dispatch(t, h, "set", "z", "v")
	if got.tag != protocol.TagErr || got.code != protocol.ErrBadType {
		t.Fatalf("expected ERR BAD_TYP, got %+v", got)
	}
}

func TestDel(t *testing.T) {
	h := NewHandler(store.NewKeyspace())
	if got := dispatch(t, h, "del", "missing"); got.tag != protocol.TagInt || got.i != 0 {
		t.Fatalf("expected INT 0 deleting a missing key, got %+v", got)
	}
	dispatch(t, h, "set", "k", "v")
	if got := dispatch(t, h, "del", "k"); got.tag != protocol.TagInt || got.i != 1 {
		t.Fatalf("expected INT 1 deleting an existing key, got %+v", got)
	}
	if got := dispatch(t, h, "get", "k"); got.tag != protocol.TagNil {
		t.Fatalf("expected key to be gone after del")
	}
}

func TestKeys(t *testing.T) {
	h := NewHandler(store.NewKeyspace())
	dispatch(t, h, "set", "a", "1")
	dispatch(t, h, "set", "b", "2")
	got := dispatch(t, h, "keys")
	if got.tag != protocol.TagArr || len(got.items) != 2 {
		t.Fatalf("expected ARR of 2 keys, got %+v", got)
	}
}

func TestZAddZScoreZRem(t *testing.T) {
	h := NewHandler(store.NewKeyspace())

	if got := dispatch(t, h, "zadd", "z", "1.5", "a"); got.tag != protocol.TagInt || got.i != 1 {
		t.Fatalf("expected INT 1 for new member, got %+v", got)
	}
	if got := dispatch(t, h, "zadd", "z", "2.5", "a"); got.tag != protocol.TagInt || got.i != 0 {
		t.Fatalf("expected INT 0 for updated member, got %+v", got)
	}
	if got := dispatch(t, h, "zscore", "z", "a"); got.tag != protocol.TagDbl || got.d != 2.5 {
		t.Fatalf("expected DBL 2.5, got %+v", got)
	}
	if got := dispatch(t, h, "zscore", "z", "missing"); got.tag != protocol.TagNil {
		t.Fatalf("expected NIL for missing member, got %+v", got)
	}
	if got := dispatch(t, h, "zscore", "missing-key", "a"); got.tag != protocol.TagNil {
		t.Fatalf("expected NIL for missing key, got %+v", got)
	}

	if got := dispatch(t, h, "zrem", "z", "a"); got.tag != protocol.TagInt || got.i != 1 {
		t.Fatalf("expected INT 1 removing existing member, got %+v", got)
	}
	if got := dispatch(t, h, "zrem", "z", "a"); got.tag != protocol.TagInt || got.i != 0 {
		t.Fatalf("expected INT 0 removing already-absent member, got %+v", got)
	}
	if got := dispatch(t, h, "zrem", "missing-key", "a"); got.tag != protocol.TagInt || got.i != 0 {
		t.Fatalf("expected INT 0 for zrem on a missing key, got %+v", got)
	}
}

func TestZAddRejectsNaN(t *testing.T) {
	h := NewHandler(store.NewKeyspace())
	got := dispatch(t, h, "zadd", "z", "nan", "a")
	if got.tag != protocol.TagErr || got.code != protocol.ErrBadArg {
		t.Fatalf("expected ERR BAD_ARG for NaN score, got %+v", got)
	}
}

func TestZAddOnStringIsBadType(t *testing.T) {
	h := NewHandler(store.NewKeyspace())
	dispatch(t, h, "set", "s", "v")
	got := dispatch(t, h, "zadd", "s", "1", "a")
	if got.tag != protocol.TagErr || got.code != protocol.ErrBadType {
		t.Fatalf("expected ERR BAD_TYP, got %+v", got)
	}
}

func TestZQueryOrderAndMissingKey(t *testing.T) {
	h := NewHandler(store.NewKeyspace())
	dispatch(t, h, "zadd", "s", "1", "a")
	dispatch(t, h, "zadd", "s", "1", "b")
	dispatch(t, h, "zadd", "s", "2", "a")

	got := dispatch(t, h, "zquery", "s", "1", "", "0", "10")
	if got.tag != protocol.TagArr || len(got.items) != 4 {
		t.Fatalf("expected 4 entries (2 pairs), got %+v", got)
	}
	if string(got.items[0].s) != "b" || got.items[1].d != 1 {
		t.Fatalf("expected b/1 first, got %+v %+v", got.items[0], got.items[1])
	}
	if string(got.items[2].s) != "a" || got.items[3].d != 2 {
		t.Fatalf("expected a/2 second, got %+v %+v", got.items[2], got.items[3])
	}
	if score := dispatch(t, h, "zscore", "s", "a"); score.tag != protocol.TagDbl || score.d != 2 {
		t.Fatalf("expected zscore a = 2 after re-adding with a new score, got %+v", score)
	}

	empty := dispatch(t, h, "zquery", "missing", "0", "", "0", "10")
	if empty.tag != protocol.TagArr || len(empty.items) != 0 {
		t.Fatalf("expected empty ARR for missing key, got %+v", empty)
	}
}

func TestZQueryBadArg(t *testing.T) {
	h := NewHandler(store.NewKeyspace())
	got := dispatch(t, h, "zquery", "s", "notanumber", "", "0", "10")
	if got.tag != protocol.TagErr || got.code != protocol.ErrBadArg {
		t.Fatalf("expected ERR BAD_ARG, got %+v", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	h := NewHandler(store.NewKeyspace())
	got := dispatch(t, h, "frobnicate", "x")
	if got.tag != protocol.TagErr || got.code != protocol.ErrUnknown {
		t.Fatalf("expected ERR UNKNOWN, got %+v", got)
	}
	// Wrong arity for a known command is also unknown.
	got = dispatch(t, h, "get")
	if got.tag != protocol.TagErr || got.code != protocol.ErrUnknown {
		t.Fatalf("expected ERR UNKNOWN for wrong arity, got %+v", got)
	}
}
