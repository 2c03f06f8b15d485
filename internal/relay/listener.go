package relay

import (
	"bufio"
	"net"
	"sync"
)

// notifyConn replays peeked bytes from reader and signals closed once the
// connection is closed by whoever owns it last.
type notifyConn struct {
	net.Conn
	reader *bufio.Reader
	closed chan struct{}
	once   sync.Once
}

func newNotifyConn(conn net.Conn, reader *bufio.Reader) *notifyConn {
	return &notifyConn{Conn: conn, reader: reader, closed: make(chan struct{})}
}

func (c *notifyConn) Read(p []byte) (int, error) {
	return c.reader.Read(p)
}

func (c *notifyConn) Close() error {
	err := c.Conn.Close()
	c.once.Do(func() { close(c.closed) })
	return err
}

// singleConnListener hands out one connection. Later Accept calls block
// until that connection is closed or quit fires, so http.Server.Serve
// returns only once the connection is finished.
type singleConnListener struct {
	conn *notifyConn
	quit <-chan struct{}
	once sync.Once
}

func (l *singleConnListener) Accept() (net.Conn, error) {
	var c net.Conn
	l.once.Do(func() {
		c = l.conn
	})
	if c != nil {
		return c, nil
	}
	select {
	case <-l.conn.closed:
	case <-l.quit:
	}
	return nil, net.ErrClosed
}

func (l *singleConnListener) Close() error {
	return nil
}

func (l *singleConnListener) Addr() net.Addr {
	return l.conn.LocalAddr()
}
