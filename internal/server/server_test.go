package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/boardgate/internal/request"
	"github.com/Brownie44l1/boardgate/internal/response"
	"github.com/Brownie44l1/boardgate/internal/router"
)

func startServer(t *testing.T, cfg Config, r *router.Router, mws ...Middleware) (string, *Server, context.CancelFunc, <-chan error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(cfg, r)
	s.Logger = &NullLogger{}
	for _, mw := range mws {
		s.Use(mw)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
		close(done)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	return ln.Addr().String(), s, cancel, done
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func roundTrip(t *testing.T, addr, raw string) string {
	t.Helper()
	conn := dial(t, addr)
	defer conn.Close()

	_, err := conn.Write([]byte(raw))
	require.NoError(t, err)

	out, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(out)
}

func echoRouter() *router.Router {
	r := router.New()
	r.JSON(request.MethodGet, func(c *router.Context) {
		c.Respond(response.StatusOK, `{"path":"`+c.Path()+`"}`)
	})
	r.JSON(request.MethodPost, func(c *router.Context) {
		c.Respond(response.StatusOK, string(c.Body()))
	})
	r.HTML(request.MethodGet, func(c *router.Context) {
		c.Respond(response.StatusOK, "<p>hi</p>")
	})
	r.HTML(request.MethodPost, router.Noop)
	return r
}

func TestServeGet(t *testing.T) {
	addr, _, _, _ := startServer(t, DefaultConfig(), echoRouter())

	got := roundTrip(t, addr, "GET /Print HTTP/1.1\r\nAccept: application/vnd.api+json\r\n\r\n")

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: application/vnd.api+json;charset=UTF-8\r\n\r\n{\"path\":\"/Print\"}", got)
}

func TestServeBody(t *testing.T) {
	addr, _, _, _ := startServer(t, DefaultConfig(), echoRouter())

	body := `{"value":"abc"}`
	got := roundTrip(t, addr, "POST /Say HTTP/1.0\r\nAccept: application/vnd.api+json\r\nContent-Length: 15\r\n\r\n"+body)

	assert.True(t, strings.HasPrefix(got, "HTTP/1.0 200 OK\r\n"), got)
	assert.True(t, strings.HasSuffix(got, "\r\n\r\n"+body), got)
}

func TestMalformedRequestGets400(t *testing.T) {
	addr, s, _, _ := startServer(t, DefaultConfig(), echoRouter())

	requests := []string{
		"GET /\r\nAccept: text/html\r\n\r\n",
		"GET / HTTP/1.1\r\n\r\n",
		"GET / HTTP/1.1\r\nAccept: application/json\r\n\r\n",
		"GET / HTTP/1.1\r\nAccept : text/html\r\n\r\n",
	}

	for _, raw := range requests {
		got := roundTrip(t, addr, raw)
		assert.Equal(t, "HTTP/1.1 400 Bad Request\r\nContent-Type: text/html;charset=UTF-8\r\n\r\n", got, raw)
	}

	// still serving
	got := roundTrip(t, addr, "GET / HTTP/1.1\r\nAccept: text/html\r\n\r\n")
	assert.Contains(t, got, "200 OK")

	assert.Equal(t, int64(len(requests)), s.Stats().Errors4xx)
}

func TestMalformedUnrelatedHeadersAreIgnored(t *testing.T) {
	addr, s, _, _ := startServer(t, DefaultConfig(), echoRouter())

	requests := []string{
		"GET /Print HTTP/1.1\r\nAccept: application/vnd.api+json\r\nX Bad: 1\r\n\r\n",
		"GET /Print HTTP/1.1\r\nAccept: application/vnd.api+json\r\nno colon here\r\n\r\n",
		"GET /Print HTTP/1.1\r\nX-Long: a\r\n folded\r\nAccept: application/vnd.api+json\r\n\r\n",
		"GET /Print HTTP/1.1\r\nAccept: application/vnd.api+json\r\nContent-Length: abc\r\n\r\n",
	}

	for _, raw := range requests {
		got := roundTrip(t, addr, raw)
		assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: application/vnd.api+json;charset=UTF-8\r\n\r\n{\"path\":\"/Print\"}", got, raw)
	}

	require.Eventually(t, func() bool { return s.Stats().RequestsTotal == int64(len(requests)) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(0), s.Stats().Errors4xx)
}

func TestFavicon(t *testing.T) {
	var called atomic.Bool
	r := router.New()
	r.Fallback(func(c *router.Context) { called.Store(true) })
	addr, _, _, _ := startServer(t, DefaultConfig(), r)

	got := roundTrip(t, addr, "GET /favicon.ico HTTP/1.1\r\nAccept: */*\r\n\r\n")

	assert.Equal(t, "HTTP/1.1 404 Not Found\r\nContent-Type: text/html;charset=UTF-8\r\n\r\n", got)
	assert.False(t, called.Load())
}

func TestOversizedBodyDispatchesEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 10
	addr, _, _, _ := startServer(t, cfg, echoRouter())

	// The declared body is sent in full and must not reset the connection.
	for i := 0; i < 5; i++ {
		got := roundTrip(t, addr, "POST /Say HTTP/1.1\r\nAccept: application/vnd.api+json\r\nContent-Length: 5000\r\n\r\n"+strings.Repeat("x", 5000))
		assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: application/vnd.api+json;charset=UTF-8\r\n\r\n", got)
	}
}

func TestOversizedBodyNeverSent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 10
	addr, _, _, _ := startServer(t, cfg, echoRouter())

	got := roundTrip(t, addr, "POST /Say HTTP/1.1\r\nAccept: application/vnd.api+json\r\nContent-Length: 2000\r\n\r\n")

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: application/vnd.api+json;charset=UTF-8\r\n\r\n", got)
}

func TestUnreadInputEndsInCleanEOF(t *testing.T) {
	addr, _, _, _ := startServer(t, DefaultConfig(), echoRouter())

	requests := map[string]string{
		"favicon with body": "POST /favicon.ico HTTP/1.1\r\nAccept: text/html\r\nContent-Length: 4000\r\n\r\n" + strings.Repeat("y", 4000),
		"more than declared": "POST /Say HTTP/1.1\r\nAccept: application/vnd.api+json\r\nContent-Length: 2\r\n\r\nok" + strings.Repeat("z", 4000),
		"bad request with trailer": "GET /\r\nAccept: text/html\r\n\r\n" + strings.Repeat("w", 4000),
	}

	for name, raw := range requests {
		got := roundTrip(t, addr, raw)
		assert.True(t, strings.HasPrefix(got, "HTTP/1."), "%s: %q", name, got)
	}
}

func TestDrainGivesUpAfterTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDrainBytes = 16
	cfg.DrainTimeout = 50 * time.Millisecond
	addr, s, _, _ := startServer(t, cfg, echoRouter())

	conn := dial(t, addr)
	defer conn.Close()
	_, err := conn.Write([]byte("GET /Print HTTP/1.1\r\nAccept: application/vnd.api+json\r\n\r\n"))
	require.NoError(t, err)

	// the peer never closes; the drain gives up after its timeout
	buf := make([]byte, 256)
	n, err := io.ReadAtLeast(conn, buf, len("HTTP/1.1 200 OK"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(buf[:n]), "HTTP/1.1 200 OK"))

	require.Eventually(t, func() bool { return s.Stats().ActiveConnections == 0 }, time.Second, 5*time.Millisecond)
}

func TestShortBodyGets400(t *testing.T) {
	addr, _, _, _ := startServer(t, DefaultConfig(), echoRouter())

	conn := dial(t, addr)
	defer conn.Close()
	_, err := conn.Write([]byte("POST /Say HTTP/1.1\r\nAccept: application/vnd.api+json\r\nContent-Length: 10\r\n\r\nabc"))
	require.NoError(t, err)
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	out, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "HTTP/1.1 400 Bad Request\r\n"), string(out))
}

func TestReadTimeoutBoundsSilentPeer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReadTimeout = 50 * time.Millisecond
	addr, _, _, _ := startServer(t, cfg, echoRouter())

	conn := dial(t, addr)
	defer conn.Close()

	out, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEarlyCloseGetsNoResponse(t *testing.T) {
	addr, s, _, _ := startServer(t, DefaultConfig(), echoRouter())

	conn := dial(t, addr)
	defer conn.Close()
	_, err := conn.Write([]byte("GET / HTTP/1.1\r\nAccept: text/"))
	require.NoError(t, err)
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	out, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Empty(t, out)

	require.Eventually(t, func() bool { return s.Stats().Dropped == 1 }, time.Second, 5*time.Millisecond)
}

func TestHeaderTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHeaderBytes = 64
	addr, _, _, _ := startServer(t, cfg, echoRouter())

	raw := "GET / HTTP/1.1\r\nAccept: text/html\r\nX-Pad: " + strings.Repeat("x", 64)
	got := roundTrip(t, addr, raw[:64])

	assert.True(t, strings.HasPrefix(got, "HTTP/1.1 400 Bad Request\r\n"), got)
}

func TestNoopClosesWithoutResponse(t *testing.T) {
	addr, s, _, _ := startServer(t, DefaultConfig(), echoRouter())

	got := roundTrip(t, addr, "POST /Say HTTP/1.1\r\nAccept: text/html\r\n\r\n")

	assert.Empty(t, got)
	require.Eventually(t, func() bool { return s.Stats().Dropped == 1 }, time.Second, 5*time.Millisecond)
}

func TestOneConnectionAtATime(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	r := router.New()
	r.Fallback(func(c *router.Context) {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		c.Respond(response.StatusOK, "done")
	})
	addr, s, _, _ := startServer(t, DefaultConfig(), r)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := roundTrip(t, addr, "HEAD / HTTP/1.1\r\nAccept: */*\r\n\r\n")
			assert.True(t, strings.HasSuffix(got, "done"), got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load())
	require.Eventually(t, func() bool {
		stats := s.Stats()
		return stats.RequestsTotal == 5 && stats.ActiveConnections == 0
	}, time.Second, 5*time.Millisecond)
}

func TestRecoveryKeepsServing(t *testing.T) {
	r := router.New()
	r.JSON(request.MethodGet, func(c *router.Context) {
		if c.Path() == "/boom" {
			panic("handler failure")
		}
		c.Respond(response.StatusOK, "{}")
	})
	addr, s, _, _ := startServer(t, DefaultConfig(), r, RecoveryMiddleware(&NullLogger{}))

	got := roundTrip(t, addr, "GET /boom HTTP/1.1\r\nAccept: application/vnd.api+json\r\n\r\n")
	assert.Equal(t, "HTTP/1.1 500 Internal Server Error\r\nContent-Type: application/vnd.api+json;charset=UTF-8\r\n\r\n", got)

	got = roundTrip(t, addr, "GET /ok HTTP/1.1\r\nAccept: application/vnd.api+json\r\n\r\n")
	assert.True(t, strings.HasSuffix(got, "{}"), got)

	assert.Equal(t, int64(1), s.Stats().Errors5xx)
}

func TestCancelInterruptsBlockedRead(t *testing.T) {
	addr, _, cancel, done := startServer(t, DefaultConfig(), echoRouter())

	conn := dial(t, addr)
	defer conn.Close()
	_, err := conn.Write([]byte("GET / HTTP/1.1\r\n"))
	require.NoError(t, err)

	// give the loop time to block in the header read
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf syncBuffer
	logger := NewDefaultLogger(&buf)
	addr, _, _, _ := startServer(t, DefaultConfig(), echoRouter(), LoggingMiddleware(logger))

	roundTrip(t, addr, "GET /Print HTTP/1.1\r\nAccept: application/vnd.api+json\r\n\r\n")

	require.Eventually(t, func() bool { return strings.Contains(buf.String(), "request handled") }, time.Second, 5*time.Millisecond)
	line := buf.String()
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "method=GET")
	assert.Contains(t, line, "path=/Print")
	assert.Contains(t, line, "family=json")
	assert.Contains(t, line, "status=200")
}

func TestLoggingMiddlewareWarnsOnErrorStatus(t *testing.T) {
	var buf syncBuffer
	logger := NewDefaultLogger(&buf)
	addr, _, _, _ := startServer(t, DefaultConfig(), echoRouter(), LoggingMiddleware(logger))

	got := roundTrip(t, addr, "PUT /Print HTTP/1.1\r\nAccept: application/vnd.api+json\r\n\r\n")
	assert.True(t, strings.HasPrefix(got, "HTTP/1.1 501 Not Implemented\r\n"), got)

	require.Eventually(t, func() bool { return strings.Contains(buf.String(), "request failed") }, time.Second, 5*time.Millisecond)
	line := buf.String()
	assert.Contains(t, line, "WARN")
	assert.Contains(t, line, "status=501")
	assert.NotContains(t, line, "request handled")
}

func TestFinishCountsFailedWriteAsDropped(t *testing.T) {
	s := New(DefaultConfig(), router.New())
	s.Logger = &NullLogger{}

	w := response.NewWriter(failWriter{})
	err := w.Respond("HTTP/1.1", response.StatusOK, "text/html", "x")
	require.Error(t, err)
	s.finish(w, time.Now(), err)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats.Dropped)
	assert.Equal(t, int64(0), stats.RequestsTotal)
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
