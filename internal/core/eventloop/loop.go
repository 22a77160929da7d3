package eventloop

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"

	"github.com/nilkv/nilkv/internal/core/command"
	"github.com/nilkv/nilkv/internal/core/conn"
	"github.com/nilkv/nilkv/internal/core/container"
	"github.com/nilkv/nilkv/internal/core/ioutil"
	"github.com/nilkv/nilkv/internal/core/protocol"
	"github.com/nilkv/nilkv/internal/telemetry/logger"
	"github.com/nilkv/nilkv/internal/telemetry/metric"
)

// maxEvents bounds how many ready fds a single epoll_wait call returns.
const maxEvents = 128

// DefaultIdleTimeoutMs is how long a connection may sit without activity
// before the reaper closes it (spec.md §4.8), absent an override from
// the Listener.IdleTimeout config knob via SetIdleTimeout.
const DefaultIdleTimeoutMs = 5000

// maxPollWaitMs caps how long a single epoll_wait blocks even when the
// idle LRU is empty (infinite timeout), so Run notices ctx cancellation
// promptly instead of only between I/O events.
const maxPollWaitMs = 1000

// Loop is the single-threaded, epoll-driven connection multiplexer
// described by spec.md §4.8. It is not safe for concurrent use; Run is
// meant to be the only goroutine touching it once started.
type Loop struct {
	epfd     int
	listenFd int

	handler *command.Handler
	logger  logger.Logger
	metrics *metric.Registry
	limiter *rate.Limiter

	conns []*conn.Connection
	lru   *conn.Connection

	idleTimeoutMs int64
	limits        protocol.Limits
}

// New returns a Loop that will service listenFd, which the caller must
// already have bound, set listening, and set non-blocking (spec.md §6's
// collaborator contract). logger, metrics, and limiter may all be nil.
func New(listenFd int, handler *command.Handler, log logger.Logger, metrics *metric.Registry, limiter *rate.Limiter) (*Loop, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, fmt.Errorf("eventloop: epoll_create1: %w", err)
	}

	l := &Loop{
		epfd:          epfd,
		listenFd:      listenFd,
		handler:       handler,
		logger:        log,
		metrics:       metrics,
		limiter:       limiter,
		lru:           conn.NewLRUSentinel(),
		idleTimeoutMs: DefaultIdleTimeoutMs,
		limits:        protocol.DefaultLimits(),
	}

	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, listenFd, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(listenFd),
	}); err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventloop: epoll_ctl add listener: %w", err)
	}

	if handler != nil && metrics != nil {
		handler.SetCommandObserver(func(name string) {
			metrics.RequestsByCommand.WithLabelValues(name).Inc()
		})
		handler.SetRehashObserver(metrics.RehashCycles.Inc)
	}

	return l, nil
}

// Close releases the epoll fd and every remaining connection. It does
// not close the listener fd, which the caller owns.
func (l *Loop) Close() {
	for _, c := range l.conns {
		if c != nil {
			l.destroyConn(c)
		}
	}
	unix.Close(l.epfd)
}

// Run services readiness, acceptance, and idle reaping until ctx is
// canceled or epoll_wait fails fatally.
func (l *Loop) Run(ctx context.Context) error {
	events := make([]unix.EpollEvent, maxEvents)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		timeoutMs := l.computeTimeoutMs(ioutil.NowMillis())
		if timeoutMs < 0 || timeoutMs > maxPollWaitMs {
			timeoutMs = maxPollWaitMs
		}

		waitStart := time.Now()
		n, err := unix.EpollWait(l.epfd, events, timeoutMs)
		if l.metrics != nil {
			l.metrics.PollWaitSeconds.Observe(time.Since(waitStart).Seconds())
		}
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("eventloop: epoll_wait: %w", err)
		}

		now := ioutil.NowMillis()
		for i := 0; i < n; i++ {
			l.service(events[i], now)
		}

		l.reapIdle(now)
	}
}

func (l *Loop) service(ev unix.EpollEvent, now int64) {
	fd := int(ev.Fd)
	if fd == l.listenFd {
		l.acceptOne()
		return
	}

	c := l.lookupConn(fd)
	if c == nil {
		return
	}

	c.LastActiveMs = now
	container.ListDetach[*conn.Connection](c)
	container.ListInsertBefore[*conn.Connection](l.lru, c)

	switch {
	case ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0:
		c.WantClose = true
	default:
		if ev.Events&unix.EPOLLIN != 0 {
			c.HandleRead(l.handler)
		}
		if !c.WantClose && ev.Events&unix.EPOLLOUT != 0 {
			c.HandleWrite()
		}
	}

	if c.WantClose {
		l.destroyConn(c)
		return
	}
	if err := l.updateInterest(c); err != nil {
		if l.logger != nil {
			l.logger.Warn("epoll_ctl mod failed, dropping connection", "conn_id", c.ID, "error", err)
		}
		l.destroyConn(c)
	}
}

// acceptOne accepts at most one pending connection per readable
// listener event, per spec.md §4.8 step 4. A disallowed rate-limiter
// check or a non-fatal accept error simply skips this round; the next
// epoll_wait will report the listener readable again if backlog
// remains.
func (l *Loop) acceptOne() {
	if l.limiter != nil && !l.limiter.Allow() {
		return
	}

	fd, _, err := unix.Accept(l.listenFd)
	if err != nil {
		if err != unix.EAGAIN && err != unix.EINTR && l.logger != nil {
			l.logger.Warn("accept failed", "error", err)
		}
		return
	}
	if err := ioutil.SetNonblock(fd); err != nil {
		if l.logger != nil {
			l.logger.Warn("setnonblock on accepted conn failed", "error", err)
		}
		unix.Close(fd)
		return
	}

	c := conn.New(fd, l.nextConnID())
	c.Limits = l.limits
	if l.metrics != nil {
		c.OnBytesRead = func(n int) { l.metrics.BytesRead.Add(float64(n)) }
		c.OnBytesWritten = func(n int) { l.metrics.BytesWritten.Add(float64(n)) }
	}

	l.ensureFdSlot(fd)
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: l.epollEvents(c),
		Fd:     int32(fd),
	}); err != nil {
		if l.logger != nil {
			l.logger.Warn("epoll_ctl add failed for accepted conn", "error", err)
		}
		unix.Close(fd)
		return
	}

	l.conns[fd] = c
	container.ListInsertBefore[*conn.Connection](l.lru, c)

	if l.metrics != nil {
		l.metrics.ConnectionsAccepted.Inc()
		l.metrics.ConnectionsActive.Inc()
	}
	if l.logger != nil {
		l.logger.Debug("accepted connection", "conn_id", c.ID, "fd", fd)
	}
}

// destroyConn implements spec.md §4.7's conn_destroy: close the fd,
// clear the fd table slot, detach the idle LRU hook, release the
// Connection.
func (l *Loop) destroyConn(c *conn.Connection) {
	container.ListDetach[*conn.Connection](c)
	_ = unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, c.Fd, nil)
	unix.Close(c.Fd)
	if c.Fd >= 0 && c.Fd < len(l.conns) {
		l.conns[c.Fd] = nil
	}
	if l.metrics != nil {
		l.metrics.ConnectionsActive.Dec()
	}
	if l.logger != nil {
		l.logger.Debug("closed connection", "conn_id", c.ID, "fd", c.Fd)
	}
}

func (l *Loop) reapIdle(now int64) {
	for {
		head := l.lru.LNext()
		if head == l.lru {
			return
		}
		if head.LastActiveMs+l.idleTimeoutMs >= now {
			return
		}
		if l.metrics != nil {
			l.metrics.IdleReclamations.Inc()
		}
		l.destroyConn(head)
	}
}

// computeTimeoutMs is spec.md §4.8 step 2: infinite (represented here
// as -1) if the LRU is empty, else the time until the head connection
// crosses the idle timeout, floored at zero.
func (l *Loop) computeTimeoutMs(now int64) int {
	head := l.lru.LNext()
	if head == l.lru {
		return -1
	}
	remaining := head.LastActiveMs + l.idleTimeoutMs - now
	if remaining < 0 {
		remaining = 0
	}
	return int(remaining)
}

// SetIdleTimeout overrides the idle timeout the reaper applies, in
// place of DefaultIdleTimeoutMs. Callers set this from the Listener
// config section before the first call to Run.
func (l *Loop) SetIdleTimeout(d time.Duration) {
	l.idleTimeoutMs = d.Milliseconds()
}

// SetLimits overrides the request-framing limits every subsequently
// accepted Connection is stamped with, in place of protocol.DefaultLimits.
// Connections already accepted before this call keep whatever limits they
// were accepted under; callers set this from the Protocol config section
// before the first call to Run.
func (l *Loop) SetLimits(limits protocol.Limits) {
	l.limits = limits
}

func (l *Loop) epollEvents(c *conn.Connection) uint32 {
	var ev uint32
	if c.WantRead {
		ev |= unix.EPOLLIN
	}
	if c.WantWrite {
		ev |= unix.EPOLLOUT
	}
	return ev
}

func (l *Loop) updateInterest(c *conn.Connection) error {
	return unix.EpollCtl(l.epfd, unix.EPOLL_CTL_MOD, c.Fd, &unix.EpollEvent{
		Events: l.epollEvents(c),
		Fd:     int32(c.Fd),
	})
}

func (l *Loop) lookupConn(fd int) *conn.Connection {
	if fd < 0 || fd >= len(l.conns) {
		return nil
	}
	return l.conns[fd]
}

func (l *Loop) ensureFdSlot(fd int) {
	if fd < len(l.conns) {
		return
	}
	grown := make([]*conn.Connection, fd+1)
	copy(grown, l.conns)
	l.conns = grown
}

func (l *Loop) nextConnID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}
