package channel

import (
	"errors"
	"fmt"
)

// ErrNotOpen is returned by Send outside the Open state.
var ErrNotOpen = errors.New("channel not open")

// ConnectionError reports a failed connection attempt.
type ConnectionError struct {
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransportError reports a runtime fault on an open connection.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
