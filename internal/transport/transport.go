// Package transport defines the line-oriented duplex connection used by
// peers and the relay, and dials one by address scheme.
package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/omochice/relay-chat/internal/transport/tcp"
	"github.com/omochice/relay-chat/internal/transport/ws"
)

// Conn abstracts a bidirectional line connection for both TCP and WebSocket.
// This interface isolates framing details from chat logic.
type Conn interface {
	// ReadLine reads a single line with its delimiter stripped.
	// Returns io.EOF when the remote side closed gracefully.
	ReadLine(ctx context.Context) (string, error)

	// WriteLine sends a single line. The line must not contain a newline.
	WriteLine(ctx context.Context, line string) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the remote address for logging.
	RemoteAddr() string
}

// Dialer opens a Conn to an address.
type Dialer interface {
	Dial(ctx context.Context, address string) (Conn, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, address string) (Conn, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context, address string) (Conn, error) {
	return f(ctx, address)
}

// Default dials ws:// and wss:// addresses over WebSocket and everything else
// (tcp://host:port or bare host:port) over raw TCP.
var Default Dialer = DialerFunc(Dial)

// Dial picks the transport from the address scheme.
func Dial(ctx context.Context, address string) (Conn, error) {
	if strings.HasPrefix(address, "ws://") || strings.HasPrefix(address, "wss://") {
		conn, err := ws.Dial(ctx, address)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	conn, err := tcp.Dial(ctx, strings.TrimPrefix(address, "tcp://"))
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// IsClosed reports whether err marks an orderly end of a connection: a
// graceful remote close, a local Close, or a cancelled context.
func IsClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, context.Canceled)
}
