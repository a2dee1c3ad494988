package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/Brownie44l1/boardgate/internal/router"
)

// acceptBackoff is the pause after a failed Accept before trying again
const acceptBackoff = 10 * time.Millisecond

// Server serves one connection at a time: accept, read, parse, dispatch,
// respond, close, and only then accept again.
type Server struct {
	Logger Logger

	cfg         Config
	handler     router.Handler
	middlewares []Middleware
	metrics     *Metrics

	mu     sync.Mutex
	active net.Conn
}

// New creates a server dispatching through r
func New(cfg Config, r *router.Router) *Server {
	return &Server{
		Logger:  NewDefaultLogger(nil),
		cfg:     cfg,
		handler: r.ServeContext,
		metrics: NewMetrics(),
	}
}

// Use adds middleware. The first added is the outermost.
func (s *Server) Use(mw Middleware) {
	s.middlewares = append(s.middlewares, mw)
}

// Stats returns a snapshot of the server's metrics
func (s *Server) Stats() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is done. Cancellation closes
// the listener and expires the deadline of the connection being served, so
// a blocked read returns at once. Serve returns nil after cancellation.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	handler := s.chain()
	stop := context.AfterFunc(ctx, func() {
		ln.Close()
		s.interrupt()
	})
	defer stop()

	s.Logger.Info("listening", Field{"addr", ln.Addr().String()})

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.Logger.Info("server stopped")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.Logger.Error("accept failed", Field{"error", err})
			time.Sleep(acceptBackoff)
			continue
		}

		s.serveConn(ctx, conn, handler)
	}
}

func (s *Server) chain() router.Handler {
	h := s.handler
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		h = s.middlewares[i](h)
	}
	return h
}

// track records conn as the one in flight. A connection accepted after
// cancellation is expired immediately.
func (s *Server) track(ctx context.Context, conn net.Conn) {
	s.mu.Lock()
	s.active = conn
	s.mu.Unlock()
	s.metrics.ActiveConnections.Add(1)

	if ctx.Err() != nil {
		conn.SetDeadline(time.Now())
	}
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	if s.active == conn {
		s.active = nil
	}
	s.mu.Unlock()
	s.metrics.ActiveConnections.Add(-1)
	conn.Close()
}

func (s *Server) interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.SetDeadline(time.Now())
	}
}
