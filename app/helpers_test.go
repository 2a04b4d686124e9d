package main

import (
	"bytes"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func ExpectEqual[T comparable](t *testing.T, expect, actual T) {
	t.Helper()
	if expect != actual {
		t.Errorf("Got %v, want %v", actual, expect)
	}
}

type MockAddr struct {
	str string
}

func (m MockAddr) Network() string { return "" }
func (m MockAddr) String() string  { return m.str }

// MockConn 读写同一个 buffer：先写入请求，Read 读完后响应会被追加进去
type MockConn struct {
	*bytes.Buffer
	addr MockAddr
}

func newMockConn(request string) *MockConn {
	return &MockConn{bytes.NewBufferString(request), MockAddr{"(client)"}}
}

func (m *MockConn) Close() error                       { return nil }
func (m *MockConn) LocalAddr() net.Addr                { return nil }
func (m *MockConn) RemoteAddr() net.Addr               { return m.addr }
func (m *MockConn) SetDeadline(t time.Time) error      { return nil }
func (m *MockConn) SetReadDeadline(t time.Time) error  { return nil }
func (m *MockConn) SetWriteDeadline(t time.Time) error { return nil }

// errConn 的 Read 总是失败
type errConn struct {
	MockConn
}

func (c *errConn) Read(b []byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

type rawResponse struct {
	statusLine string
	headers    map[string]string
	body       string
}

func parseRawResponse(t *testing.T, raw string) rawResponse {
	t.Helper()
	head, body, ok := strings.Cut(raw, CRLF+CRLF)
	if !ok {
		t.Fatalf("no header terminator in %q", raw)
	}
	lines := strings.Split(head, CRLF)
	res := rawResponse{statusLine: lines[0], headers: map[string]string{}, body: body}
	for _, line := range lines[1:] {
		name, value, _ := strings.Cut(line, ": ")
		res.headers[name] = value
	}
	return res
}

func newTestLogger() *Logger {
	return NewLogger(io.Discard)
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Directory == "" {
		cfg.Directory = t.TempDir()
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 1024
	}
	mux := NewMux()
	registerRoutes(mux, NewDirStore(cfg.Directory))
	return NewServer(cfg, mux, newTestLogger(), NewStats())
}
