package conn

import (
	"golang.org/x/sys/unix"

	"github.com/nilkv/nilkv/internal/core/command"
	"github.com/nilkv/nilkv/internal/core/container"
	"github.com/nilkv/nilkv/internal/core/ioutil"
	"github.com/nilkv/nilkv/internal/core/protocol"
)

// readChunk is the largest slice of bytes handle_read pulls off the
// socket in one pass.
const readChunk = 64 * 1024

// Connection is one accepted client connection: its buffered I/O state
// and the read/write intent the event loop consults. A Connection is
// owned by exactly one fd table slot; the idle LRU only ever holds a
// weak (non-owning) reference to it via the LinkNode methods below.
type Connection struct {
	Fd int
	ID string

	WantRead  bool
	WantWrite bool
	WantClose bool

	// ZeroReadOnEmptyIncoming distinguishes, for logging only, a peer
	// that closed cleanly with no partial request buffered from one that
	// closed mid-request.
	ZeroReadOnEmptyIncoming bool

	Incoming []byte
	Outgoing []byte

	// Limits bounds the requests HandleRead will parse off Incoming.
	// New initializes this to protocol.DefaultLimits(); the event loop
	// overrides it per internal/server/config's Protocol section before
	// handing the fd to epoll (internal/core/eventloop.Loop.SetLimits).
	Limits protocol.Limits

	LastActiveMs int64

	// OnBytesRead/OnBytesWritten, if set, are invoked with the byte count
	// of every successful non-blocking read/write. Intended for byte
	// throughput counters; nil is a valid, no-op default.
	OnBytesRead    func(n int)
	OnBytesWritten func(n int)

	// lruPrev/lruNext are the idle-LRU list links. Connection implements
	// container.LinkNode directly rather than embedding a node header.
	lruPrev *Connection
	lruNext *Connection
}

// New returns a Connection for fd, freshly wanting to read, with its LRU
// hook initialized as a detached one-element list.
func New(fd int, id string) *Connection {
	c := &Connection{
		Fd:           fd,
		ID:           id,
		WantRead:     true,
		Limits:       protocol.DefaultLimits(),
		LastActiveMs: ioutil.NowMillis(),
	}
	container.ListInit[*Connection](c)
	return c
}

// LinkNode, implemented so Connection can live directly in the idle LRU.

func (c *Connection) LNext() *Connection     { return c.lruNext }
func (c *Connection) SetLNext(n *Connection) { c.lruNext = n }
func (c *Connection) LPrev() *Connection     { return c.lruPrev }
func (c *Connection) SetLPrev(n *Connection) { c.lruPrev = n }

// NewLRUSentinel returns a Connection used only as the LRU's circular
// anchor. It owns no fd and must never be dispatched through, accepted
// into the fd table, or otherwise treated as a real connection.
func NewLRUSentinel() *Connection {
	s := &Connection{Fd: -1}
	container.ListInit[*Connection](s)
	return s
}

// HandleRead performs one non-blocking read, extracts every complete
// request now buffered, dispatches each through h, and appends responses
// to Outgoing. If any bytes are now pending to write, it flips the
// connection to write-only intent and makes one synchronous write
// attempt, so a request/response workload does not need a second poll
// round-trip just to discover the socket is already writable.
func (c *Connection) HandleRead(h *command.Handler) {
	var buf [readChunk]byte
	n, err := unix.Read(c.Fd, buf[:])
	if err != nil {
		if err == unix.EAGAIN {
			return
		}
		c.WantClose = true
		return
	}
	if n == 0 {
		c.ZeroReadOnEmptyIncoming = len(c.Incoming) == 0
		c.WantClose = true
		return
	}
	if c.OnBytesRead != nil {
		c.OnBytesRead(n)
	}
	c.Incoming = append(c.Incoming, buf[:n]...)

	for {
		args, consumed, perr := protocol.ParseRequest(c.Incoming, c.Limits)
		if perr != nil {
			c.WantClose = true
			return
		}
		if consumed == 0 {
			break
		}
		c.Outgoing = h.Dispatch(args, c.Outgoing)
		c.Incoming = c.Incoming[consumed:]
	}

	if len(c.Outgoing) > 0 {
		c.WantRead = false
		c.WantWrite = true
		c.HandleWrite()
	}
}

// HandleWrite performs one non-blocking write of the entire Outgoing
// buffer, consuming whatever prefix the kernel accepted. Once Outgoing
// drains, it flips the connection back to read-only intent.
func (c *Connection) HandleWrite() {
	if len(c.Outgoing) == 0 {
		c.WantWrite = false
		c.WantRead = true
		return
	}
	n, err := unix.Write(c.Fd, c.Outgoing)
	if err != nil {
		if err == unix.EAGAIN {
			return
		}
		c.WantClose = true
		return
	}
	if c.OnBytesWritten != nil {
		c.OnBytesWritten(n)
	}
	c.Outgoing = c.Outgoing[n:]
	if len(c.Outgoing) == 0 {
		c.WantWrite = false
		c.WantRead = true
	}
}
