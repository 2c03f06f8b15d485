package chat_test

import (
	"context"
	"io"
	"sync"

	"github.com/omochice/relay-chat/internal/transport"
)

// mockConn is a line-based transport.Conn fed through readCh.
type mockConn struct {
	readCh     chan string
	readErr    error
	writtenMu  sync.Mutex
	written    []string
	closed     bool
	remoteAddr string
}

func newMockConn(addr string) *mockConn {
	return &mockConn{
		readCh:     make(chan string, 10),
		remoteAddr: addr,
	}
}

func (m *mockConn) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-m.readCh:
		if !ok {
			if m.readErr != nil {
				return "", m.readErr
			}
			return "", io.EOF
		}
		return line, nil
	}
}

func (m *mockConn) WriteLine(ctx context.Context, line string) error {
	m.writtenMu.Lock()
	defer m.writtenMu.Unlock()
	m.written = append(m.written, line)
	return nil
}

func (m *mockConn) Close() error {
	m.writtenMu.Lock()
	defer m.writtenMu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) RemoteAddr() string {
	return m.remoteAddr
}

func (m *mockConn) Written() []string {
	m.writtenMu.Lock()
	defer m.writtenMu.Unlock()
	return append([]string(nil), m.written...)
}

var _ transport.Conn = (*mockConn)(nil)
