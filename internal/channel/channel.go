// Package channel manages one outbound duplex connection and reports its
// lifecycle and inbound lines as an ordered event stream.
package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/omochice/relay-chat/internal/transport"
)

const (
	eventBuffer         = 16
	defaultWriteTimeout = 5 * time.Second
)

// Channel is a line-oriented duplex connection to a relay.
//
// Events are delivered on a single stream in the order the transport
// produced them. EventClose fires at most once, after which the stream is
// closed. A failed connection attempt yields one EventError and then the
// stream is closed without EventClose.
type Channel struct {
	address      string
	dialer       transport.Dialer
	log          *slog.Logger
	writeTimeout time.Duration

	mu      sync.RWMutex
	state   State
	reason  error
	conn    transport.Conn
	closing bool

	events chan Event
	wg     sync.WaitGroup
}

// Option configures a Channel.
type Option func(*Channel)

// WithWriteTimeout bounds each Send.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// New creates a Channel for address. A nil dialer selects transport.Default.
func New(address string, dialer transport.Dialer, log *slog.Logger, opts ...Option) *Channel {
	if dialer == nil {
		dialer = transport.Default
	}
	c := &Channel{
		address:      address,
		dialer:       dialer,
		log:          log,
		writeTimeout: defaultWriteTimeout,
		events:       make(chan Event, eventBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Address returns the relay address the channel dials.
func (c *Channel) Address() string {
	return c.address
}

// Events returns the event stream.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Reason returns the cause of a Failed state.
func (c *Channel) Reason() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reason
}

// Connect starts connecting in the background and returns immediately.
// Cancelling ctx tears the connection down. Only the first call has effect.
func (c *Channel) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(ctx)
}

// Send writes one line. It fails with ErrNotOpen unless the channel is open;
// nothing is buffered for later delivery.
func (c *Channel) Send(text string) error {
	c.mu.RLock()
	state, conn := c.state, c.conn
	c.mu.RUnlock()

	if state != StateOpen || conn == nil {
		return ErrNotOpen
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()
	if err := conn.WriteLine(ctx, text); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Close shuts the channel down. An open connection produces EventClose.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return nil
	}
	c.closing = true
	if c.state.Terminal() {
		// the read loop already closed conn
		c.mu.Unlock()
		return nil
	}
	conn := c.conn
	switch c.state {
	case StateIdle:
		c.state = StateClosed
		c.mu.Unlock()
		close(c.events)
		return nil
	case StateOpen:
		c.state = StateClosed
	}
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// Wait blocks until the background goroutine has exited.
func (c *Channel) Wait() {
	c.wg.Wait()
}

func (c *Channel) run(ctx context.Context) {
	defer c.wg.Done()
	defer close(c.events)

	conn, err := c.dialer.Dial(ctx, c.address)
	if err != nil {
		c.mu.Lock()
		c.state = StateFailed
		c.reason = err
		c.mu.Unlock()
		c.log.Debug("connect failed", "address", c.address, "error", err)
		c.emit(ctx, Event{Kind: EventError, Err: &ConnectionError{Address: c.address, Err: err}})
		return
	}

	c.mu.Lock()
	if c.closing {
		c.state = StateClosed
		c.mu.Unlock()
		_ = conn.Close()
		c.emit(ctx, Event{Kind: EventClose})
		return
	}
	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c.log.Debug("connected", "address", c.address, "remote", conn.RemoteAddr())
	if !c.emit(ctx, Event{Kind: EventOpen}) {
		_ = conn.Close()
		return
	}

	for {
		line, err := conn.ReadLine(ctx)
		if err != nil {
			c.finish(ctx, conn, err)
			return
		}
		if !c.emit(ctx, Event{Kind: EventMessage, Text: line}) {
			_ = conn.Close()
			return
		}
	}
}

// finish records how the read loop ended and emits the closing events.
func (c *Channel) finish(ctx context.Context, conn transport.Conn, err error) {
	c.mu.Lock()
	graceful := c.closing || errors.Is(err, io.EOF) || ctx.Err() != nil
	if graceful {
		c.state = StateClosed
	} else {
		c.state = StateFailed
		c.reason = err
	}
	c.mu.Unlock()
	_ = conn.Close()

	if !graceful {
		c.log.Debug("connection lost", "address", c.address, "error", err)
		if !c.emit(ctx, Event{Kind: EventError, Err: &TransportError{Err: err}}) {
			return
		}
	} else {
		c.log.Debug("connection closed", "address", c.address)
	}
	c.emit(ctx, Event{Kind: EventClose})
}

func (c *Channel) emit(ctx context.Context, ev Event) bool {
	select {
	case c.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
