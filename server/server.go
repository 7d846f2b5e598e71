// Package server owns the listening socket and the per-connection
// request-response cycle: accept, read, resolve, handle, write,
// keep-alive or close.
//
// Each accepted connection is served by its own goroutine. The route
// table is sealed before the first connection is accepted and shared
// read-only across all of them. A handler panic is recovered locally
// and answered with 500; it never reaches the accept loop or sibling
// connections.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/netutil"

	"github.com/vitalvas/tiffin/router"
)

// Server is the dispatcher: it accepts connections and drives each
// through the request-response cycle against a sealed route table.
type Server struct {
	// Logger receives structured connection and request logs.
	// slog.Default() is used when nil.
	Logger *slog.Logger

	// Fallback is invoked for requests whose path matches no route.
	// When nil, a plain 404 response is written instead.
	Fallback router.Handler

	cfg   Config
	table *router.Table

	mu         sync.Mutex
	listener   net.Listener
	inShutdown atomic.Bool
	conns      sync.WaitGroup
}

// New returns a server dispatching against the given route table.
func New(cfg Config, table *router.Table) *Server {
	return &Server{
		cfg:   cfg.withDefaults(),
		table: table,
	}
}

// ListenAndServe binds the configured address and serves until
// Shutdown. An empty addr uses Config.Addr.
func (s *Server) ListenAndServe(addr string) error {
	if addr == "" {
		addr = s.cfg.Addr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown closes it. Route
// registration must be complete before Serve is called: the table is
// sealed here and is read-only from this point on.
func (s *Server) Serve(ln net.Listener) error {
	s.table.Seal()

	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}

	s.mu.Lock()
	if s.inShutdown.Load() {
		s.mu.Unlock()
		ln.Close()
		return net.ErrClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.logger().Info("serving", "addr", ln.Addr().String(), "routes", s.table.Len())

	// Retry transient accept errors with growing delay, like net/http.
	// A per-connection failure must never stop the accept loop.
	var delay time.Duration

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.inShutdown.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}

			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > time.Second {
				delay = time.Second
			}
			s.logger().Warn("accept failed", "error", err, "retry_in", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0

		s.conns.Add(1)
		go s.handleConn(conn)
	}
}

// Shutdown stops accepting new connections and waits for in-flight
// connections to drain until ctx expires. It is safe to call more than
// once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)

	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
		s.listener = nil
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger().Info("shutdown complete")
		return nil
	case <-ctx.Done():
		s.logger().Warn("shutdown timed out with connections in flight")
		return ctx.Err()
	}
}

// Addr returns the bound listener address, or "" before Serve.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
