package ws

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/omochice/relay-chat/pkg/protocol"
)

// closeTimeout bounds the close handshake write so Close never waits on a
// peer that stopped reading.
const closeTimeout = time.Second

// ClientConn is the peer side of a WebSocket line connection, built on
// gobwas/ws.
type ClientConn struct {
	conn      net.Conn
	reader    *wsutil.Reader
	control   wsutil.FrameHandlerFunc
	mu        sync.Mutex // guards writes to conn
	closeOnce sync.Once
	pending   []string
}

// Dial performs the WebSocket handshake against a ws:// or wss:// URL.
func Dial(ctx context.Context, address string) (*ClientConn, error) {
	conn, br, _, err := ws.Dial(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return newClientConn(conn, br), nil
}

func newClientConn(conn net.Conn, br *bufio.Reader) *ClientConn {
	// Frames the server sent right after the handshake may already sit in br.
	var source io.Reader = conn
	if br != nil {
		source = br
	}
	c := &ClientConn{conn: conn}
	handler := wsutil.ControlFrameHandler(conn, ws.StateClientSide)
	c.control = func(h ws.Header, r io.Reader) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		return handler(h, r)
	}
	c.reader = &wsutil.Reader{
		Source:         source,
		State:          ws.StateClientSide,
		CheckUTF8:      true,
		OnIntermediate: c.control,
	}
	return c
}

// ReadLine implements transport.Conn.
// A normal or going-away close frame, or a plain EOF, is reported as io.EOF.
func (c *ClientConn) ReadLine(ctx context.Context) (string, error) {
	for len(c.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		data, err := c.readMessage()
		if err != nil {
			return "", clientCloseErr(err)
		}
		c.pending = splitFrame(data)
	}
	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, nil
}

func (c *ClientConn) readMessage() ([]byte, error) {
	for {
		hdr, err := c.reader.NextFrame()
		if err != nil {
			return nil, err
		}
		if hdr.OpCode.IsControl() {
			if err := c.control(hdr, c.reader); err != nil {
				return nil, err
			}
			continue
		}
		if hdr.OpCode&(ws.OpText|ws.OpBinary) == 0 {
			if err := c.reader.Discard(); err != nil {
				return nil, err
			}
			continue
		}
		return io.ReadAll(c.reader)
	}
}

// WriteLine implements transport.Conn.
// The ctx deadline bounds the write. A failed write may leave a partial
// frame on the wire, so the socket is closed and later reads fail.
func (c *ClientConn) WriteLine(ctx context.Context, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return protocol.ErrEmbeddedNewline
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		defer c.conn.SetWriteDeadline(time.Time{})
	}
	if err := wsutil.WriteClientText(c.conn, []byte(line)); err != nil {
		_ = c.conn.Close()
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Close sends a normal close frame and closes the socket. A writer stuck on
// a full socket is cut off by the close deadline first.
func (c *ClientConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		_ = c.conn.SetWriteDeadline(time.Now().Add(closeTimeout))
		c.mu.Lock()
		// a writer releasing mu resets its own deadline
		_ = c.conn.SetWriteDeadline(time.Now().Add(closeTimeout))
		body := ws.NewCloseFrameBody(ws.StatusNormalClosure, "")
		_ = wsutil.WriteClientMessage(c.conn, ws.OpClose, body)
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// RemoteAddr implements transport.Conn.
func (c *ClientConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func clientCloseErr(err error) error {
	var closed wsutil.ClosedError
	if errors.As(err, &closed) {
		switch closed.Code {
		case ws.StatusNormalClosure, ws.StatusGoingAway, ws.StatusNoStatusRcvd:
			return io.EOF
		}
		return fmt.Errorf("websocket closed with status %d: %w", closed.Code, err)
	}
	return err
}
