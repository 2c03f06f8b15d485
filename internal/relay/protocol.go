package relay

import (
	"bufio"
	"bytes"
	"errors"
	"net"
	"time"
)

type protocolType int

const (
	protocolTCP protocolType = iota
	protocolHTTP
)

var httpMethods = [][]byte{
	[]byte("GET"),
	[]byte("POST"),
	[]byte("PUT"),
	[]byte("HEAD"),
	[]byte("OPTIONS"),
	[]byte("PATCH"),
	[]byte("DELETE"),
	[]byte("CONNECT"),
}

// detectProtocol peeks at the first line to determine the protocol type.
// Line peers may stay silent after connecting, so a peek that times out is
// treated as raw TCP. The returned reader holds whatever was peeked.
func detectProtocol(conn net.Conn, timeout time.Duration) (protocolType, *bufio.Reader, error) {
	reader := bufio.NewReader(conn)
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return protocolTCP, reader, err
	}
	defer conn.SetReadDeadline(time.Time{})

	for {
		peek, err := reader.Peek(reader.Buffered() + 1)
		if i := bytes.IndexByte(peek, '\n'); i >= 0 {
			if isRequestLine(peek[:i+1]) {
				return protocolHTTP, reader, nil
			}
			return protocolTCP, reader, nil
		}
		if err == nil {
			continue
		}
		var ne net.Error
		if (errors.As(err, &ne) && ne.Timeout()) || errors.Is(err, bufio.ErrBufferFull) {
			return protocolTCP, reader, nil
		}
		return protocolTCP, reader, err
	}
}

// isRequestLine matches "<METHOD> <target> HTTP/x.y\r\n". Chat lines never
// carry a carriage return, so a line peer whose text starts like a method is
// still read as raw TCP.
func isRequestLine(line []byte) bool {
	line, ok := bytes.CutSuffix(line, []byte("\r\n"))
	if !ok {
		return false
	}
	method, rest, ok := bytes.Cut(line, []byte(" "))
	if !ok {
		return false
	}
	for _, m := range httpMethods {
		if bytes.Equal(method, m) {
			return bytes.Contains(rest, []byte(" HTTP/"))
		}
	}
	return false
}
