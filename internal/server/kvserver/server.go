// Package kvserver assembles the raw TCP key-value listener: it owns the
// socket lifecycle spec.md §6 leaves to the collaborator, then hands the
// bound, listening, non-blocking fd to internal/core/eventloop.
package kvserver

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"
	"golang.org/x/time/rate"

	"github.com/nilkv/nilkv/internal/core/command"
	"github.com/nilkv/nilkv/internal/core/eventloop"
	"github.com/nilkv/nilkv/internal/core/protocol"
	"github.com/nilkv/nilkv/internal/core/store"
	"github.com/nilkv/nilkv/internal/server/config"
	"github.com/nilkv/nilkv/internal/telemetry/logger"
	"github.com/nilkv/nilkv/internal/telemetry/metric"
)

// Server owns the listener socket and the event loop servicing it.
type Server struct {
	listenFd int
	loop     *eventloop.Loop
	ks       *store.Keyspace
	logger   logger.Logger
}

// New builds the listener socket per spec.md §6's setup order —
// socket() -> SO_REUSEADDR -> bind() -> listen(fd, SOMAXCONN), set
// non-blocking before the event loop ever sees the fd — and assembles
// the core engine (keyspace, command handler, event loop) around it.
func New(cfg *config.ServerConfig, log logger.Logger, metrics *metric.Registry) (*Server, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("kvserver: socket: %w", err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("kvserver: setsockopt SO_REUSEADDR: %w", err)
	}

	addr, err := resolveSockaddr(cfg.Listener.Host, cfg.Listener.Port)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("kvserver: resolve listen address: %w", err)
	}

	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("kvserver: bind: %w", err)
	}

	if err := unix.Listen(fd, unix.SOMAXCONN); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("kvserver: listen: %w", err)
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("kvserver: set non-blocking: %w", err)
	}

	ks := store.NewKeyspace()
	handler := command.NewHandler(ks)
	handler.SetMaxResponseBytes(uint32(cfg.Protocol.MaxMsgBytes))

	var limiter *rate.Limiter
	if cfg.Listener.AcceptRatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Listener.AcceptRatePerSec), cfg.Listener.AcceptBurst)
	}

	loop, err := eventloop.New(fd, handler, log, metrics, limiter)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("kvserver: new event loop: %w", err)
	}
	loop.SetIdleTimeout(cfg.Listener.IdleTimeout)
	loop.SetLimits(protocol.Limits{
		MaxMsgBytes: uint32(cfg.Protocol.MaxMsgBytes),
		MaxArgs:     uint32(cfg.Protocol.MaxArgs),
	})

	if metrics != nil {
		metrics.MustRegister(metric.NewCollector(func() float64 {
			return float64(ks.Size())
		}))
	}

	return &Server{listenFd: fd, loop: loop, ks: ks, logger: log}, nil
}

// Run services the listener until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("kvserver listening", "fd", s.listenFd)
	}
	return s.loop.Run(ctx)
}

// Close releases the event loop's resources and the listener fd.
func (s *Server) Close() error {
	s.loop.Close()
	return unix.Close(s.listenFd)
}
