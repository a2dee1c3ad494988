package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/Brownie44l1/boardgate/internal/request"
	"github.com/Brownie44l1/boardgate/internal/response"
	"github.com/Brownie44l1/boardgate/internal/router"
)

const faviconPath = "/favicon.ico"

// serveConn runs one request on conn and closes it
func (s *Server) serveConn(ctx context.Context, conn net.Conn, handler router.Handler) {
	start := time.Now()
	s.track(ctx, conn)
	defer s.untrack(conn)

	if s.cfg.ReadTimeout > 0 {
		conn.SetReadDeadline(start.Add(s.cfg.ReadTimeout))
	}
	if s.cfg.WriteTimeout > 0 {
		conn.SetWriteDeadline(start.Add(s.cfg.WriteTimeout))
	}

	remote := conn.RemoteAddr().String()
	br := bufio.NewReader(conn)
	lc := &lingerConn{Conn: conn, r: br, ctx: ctx, max: s.cfg.MaxDrainBytes, timeout: s.cfg.DrainTimeout}
	defer lc.Close()
	w := response.NewWriter(lc)

	raw, err := request.ReadHeader(br, s.cfg.MaxHeaderBytes)
	if err != nil {
		if errors.Is(err, request.ErrHeaderTooLarge) {
			s.Logger.Warn("header block too large", Field{"remote", remote}, Field{"limit", s.cfg.MaxHeaderBytes})
			s.handleBadRequest(w, start)
			return
		}
		s.Logger.Debug("connection closed before request", Field{"remote", remote}, Field{"error", err})
		s.metrics.RecordDropped()
		return
	}

	req, err := request.Parse(raw)
	if err != nil {
		s.Logger.Warn("malformed request", Field{"remote", remote}, Field{"error", err})
		s.handleBadRequest(w, start)
		return
	}
	for _, ignored := range req.Ignored {
		s.Logger.Debug("ignoring header", Field{"remote", remote}, Field{"error", ignored})
	}

	if req.Path == faviconPath {
		s.Logger.Debug("ignoring favicon request", Field{"remote", remote})
		s.finish(w, start, w.Respond(req.Version.ResponseString(), response.StatusNotFound, request.MediaHTML.String(), ""))
		return
	}

	if err := req.ReadBody(br, s.cfg.MaxBodyBytes); err != nil {
		if !errors.Is(err, request.ErrBodyTooLarge) {
			s.Logger.Warn("incomplete body", Field{"remote", remote}, Field{"error", err})
			s.finish(w, start, w.Respond(req.Version.ResponseString(), response.StatusBadRequest, request.MediaHTML.String(), ""))
			return
		}
		s.Logger.Warn("dropping oversized body", Field{"remote", remote}, Field{"content_length", req.ContentLength}, Field{"limit", s.cfg.MaxBodyBytes})
	}

	handler(router.NewContext(req, w))
	s.finish(w, start, nil)
}

// handleBadRequest sends 400 for a request that could not be parsed
func (s *Server) handleBadRequest(w *response.Writer, start time.Time) {
	s.finish(w, start, w.Respond(request.Version11.String(), response.StatusBadRequest, request.MediaHTML.String(), ""))
}

func (s *Server) finish(w *response.Writer, start time.Time, err error) {
	if err != nil {
		s.Logger.Debug("write response", Field{"error", err})
	}
	if !w.Written() || w.HadError() {
		s.metrics.RecordDropped()
		return
	}
	s.metrics.RecordRequest(w.StatusCode(), time.Since(start))
}

// lingerConn closes by half-closing its write side and discarding what the
// peer still sends, so the peer reads the response to a clean EOF instead of
// a reset. The drain is bounded by max bytes and timeout and is skipped once
// ctx is done.
type lingerConn struct {
	net.Conn
	r       io.Reader
	ctx     context.Context
	max     int64
	timeout time.Duration
	closed  bool
}

func (c *lingerConn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if c.max > 0 && c.timeout > 0 && c.ctx.Err() == nil {
		if hc, ok := c.Conn.(interface{ CloseWrite() error }); ok && hc.CloseWrite() == nil {
			c.Conn.SetReadDeadline(time.Now().Add(c.timeout))
			if c.ctx.Err() != nil {
				c.Conn.SetReadDeadline(time.Now())
			}
			io.CopyN(io.Discard, c.r, c.max)
		}
	}
	return c.Conn.Close()
}
