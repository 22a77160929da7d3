package protocol

import (
	"encoding/binary"
	"errors"
	"math"
)

const (
	// DefaultMaxMsg is the compiled-in ceiling on request and response
	// body size. A Limits value's MaxMsgBytes may tighten this per
	// deployment (internal/server/config.Verify) but never exceed it.
	DefaultMaxMsg = 32 * 1024 * 1024
	// DefaultMaxArgs is the compiled-in ceiling on the number of
	// arguments in a request; same one-way tightening rule as DefaultMaxMsg.
	DefaultMaxArgs = 200000
)

// Limits bounds request framing: MaxMsgBytes caps a request's declared
// body length, MaxArgs caps its declared argument count. Each accepted
// Connection carries its own Limits (internal/core/conn.Connection.Limits,
// set from internal/server/config's Protocol section by
// internal/server/kvserver), so ParseRequest never consults the compiled-in
// constants directly.
type Limits struct {
	MaxMsgBytes uint32
	MaxArgs     uint32
}

// DefaultLimits returns the compiled-in ceiling as a Limits value, used
// wherever no tighter deployment-specific limit has been configured.
func DefaultLimits() Limits {
	return Limits{MaxMsgBytes: DefaultMaxMsg, MaxArgs: DefaultMaxArgs}
}

// Tag identifies the shape of an encoded response value.
type Tag byte

const (
	TagNil Tag = 0
	TagErr Tag = 1
	TagStr Tag = 2
	TagInt Tag = 3
	TagDbl Tag = 4
	TagArr Tag = 5
)

// Error codes carried in an ERR value's u32 code field.
const (
	ErrUnknown uint32 = 1
	ErrTooBig  uint32 = 2
	ErrBadType uint32 = 3
	ErrBadArg  uint32 = 4
)

// ErrProtocol is returned by ParseRequest when the framed data is
// malformed in a way that requires closing the connection: an oversized
// length declaration, a short read, or trailing garbage after the last
// argument.
var ErrProtocol = errors.New("protocol: malformed request")

// ParseRequest attempts to extract one complete request from the front
// of buf, rejecting any request whose declared size exceeds limits. It
// returns (nil, 0, nil) if buf does not yet hold a complete request — the
// caller should wait for more data. On success it returns the argument
// vector and the number of bytes consumed from buf. On a framing
// violation it returns ErrProtocol; the caller must close the connection.
func ParseRequest(buf []byte, limits Limits) (args [][]byte, consumed int, err error) {
	if len(buf) < 4 {
		return nil, 0, nil
	}
	bodyLen := binary.LittleEndian.Uint32(buf[:4])
	if bodyLen > limits.MaxMsgBytes {
		return nil, 0, ErrProtocol
	}
	total := 4 + int(bodyLen)
	if len(buf) < total {
		return nil, 0, nil
	}
	body := buf[4:total]

	if len(body) < 4 {
		return nil, 0, ErrProtocol
	}
	nstr := binary.LittleEndian.Uint32(body[:4])
	if nstr > limits.MaxArgs {
		return nil, 0, ErrProtocol
	}

	rest := body[4:]
	out := make([][]byte, 0, nstr)
	off := 0
	for i := uint32(0); i < nstr; i++ {
		if off+4 > len(rest) {
			return nil, 0, ErrProtocol
		}
		l := binary.LittleEndian.Uint32(rest[off : off+4])
		off += 4
		end := off + int(l)
		if end < off || end > len(rest) {
			return nil, 0, ErrProtocol
		}
		out = append(out, rest[off:end])
		off = end
	}
	if off != len(rest) {
		return nil, 0, ErrProtocol
	}
	return out, total, nil
}

// AppendNil appends a NIL value.
func AppendNil(buf []byte) []byte {
	return append(buf, byte(TagNil))
}

// AppendErr appends an ERR value with the given code and message.
func AppendErr(buf []byte, code uint32, msg string) []byte {
	buf = append(buf, byte(TagErr))
	buf = appendU32(buf, code)
	buf = appendU32(buf, uint32(len(msg)))
	return append(buf, msg...)
}

// AppendStr appends a STR value.
func AppendStr(buf []byte, s []byte) []byte {
	buf = append(buf, byte(TagStr))
	buf = appendU32(buf, uint32(len(s)))
	return append(buf, s...)
}

// AppendInt appends an INT value.
func AppendInt(buf []byte, v int64) []byte {
	buf = append(buf, byte(TagInt))
	return appendU64(buf, uint64(v))
}

// AppendDbl appends a DBL value.
func AppendDbl(buf []byte, v float64) []byte {
	buf = append(buf, byte(TagDbl))
	return appendU64(buf, math.Float64bits(v))
}

// AppendArrHeader appends an ARR header for n sub-values; the caller is
// responsible for appending exactly n values immediately after.
func AppendArrHeader(buf []byte, n uint32) []byte {
	buf = append(buf, byte(TagArr))
	return appendU32(buf, n)
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// WriteResponse writes one length-prefixed response into out: a 4-byte
// placeholder, then whatever encode appends, then backpatches the
// length. If the encoded value's body exceeds maxMsgBytes, the value is
// discarded and replaced with ERR(TOO_BIG, "response too big.").
func WriteResponse(out []byte, maxMsgBytes uint32, encode func([]byte) []byte) []byte {
	start := len(out)
	out = appendU32(out, 0) // placeholder, backpatched below
	valStart := len(out)

	out = encode(out)
	bodyLen := len(out) - valStart
	if uint32(bodyLen) > maxMsgBytes {
		out = out[:valStart]
		out = AppendErr(out, ErrTooBig, "response too big.")
		bodyLen = len(out) - valStart
	}
	binary.LittleEndian.PutUint32(out[start:start+4], uint32(bodyLen))
	return out
}
