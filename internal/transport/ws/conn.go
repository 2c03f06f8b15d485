// Package ws provides the WebSocket line transport. Each text frame carries
// one line without a terminator.
package ws

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/coder/websocket"
	"github.com/omochice/relay-chat/pkg/protocol"
)

// Conn adapts an accepted coder/websocket connection to transport.Conn.
type Conn struct {
	conn       *websocket.Conn
	remoteAddr string
	pending    []string
}

// NewConn wraps a websocket.Conn with empty remote address.
func NewConn(conn *websocket.Conn) *Conn {
	return &Conn{conn: conn}
}

// NewConnWithAddr wraps a websocket.Conn with the specified remote address.
func NewConnWithAddr(conn *websocket.Conn, addr string) *Conn {
	return &Conn{conn: conn, remoteAddr: addr}
}

// ReadLine implements transport.Conn.
// A normal or going-away close from the peer is reported as io.EOF.
func (c *Conn) ReadLine(ctx context.Context) (string, error) {
	for len(c.pending) == 0 {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return "", closeErr(err)
		}
		c.pending = splitFrame(data)
	}
	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, nil
}

// WriteLine implements transport.Conn.
func (c *Conn) WriteLine(ctx context.Context, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return protocol.ErrEmbeddedNewline
	}
	return c.conn.Write(ctx, websocket.MessageText, []byte(line))
}

// Close implements transport.Conn.
func (c *Conn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// RemoteAddr implements transport.Conn.
func (c *Conn) RemoteAddr() string {
	return c.remoteAddr
}

func closeErr(err error) error {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway, websocket.StatusNoStatusRcvd:
		return io.EOF
	case -1:
		return err
	default:
		return fmt.Errorf("websocket closed abnormally: %w", err)
	}
}

// splitFrame turns one frame into lines. Peers send a single line per frame;
// a frame holding several newline-separated lines is split so that no line
// handed upward contains a delimiter.
func splitFrame(data []byte) []string {
	text := strings.TrimSuffix(string(data), "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
