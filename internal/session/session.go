//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=../mocks/mock_session.go -package=mocks

// Package session ties a prompt to a duplex channel: local lines go out as
// sender-tagged chat lines, inbound lines are printed above a redrawn prompt.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/omochice/relay-chat/internal/channel"
	"github.com/omochice/relay-chat/pkg/protocol"
)

// ClosedNotice is printed when the channel closes.
const ClosedNotice = "Connection closed"

// ErrAlreadyRun is returned when Run is called on a session that has left Idle.
var ErrAlreadyRun = errors.New("session already running")

// Channel is the duplex connection a Session drives.
type Channel interface {
	Connect(ctx context.Context)
	Send(text string) error
	Events() <-chan channel.Event
	Close() error
}

// Prompt is the terminal prompt a Session draws through. The session never
// writes to the terminal directly.
type Prompt interface {
	Start(text string)
	Lines() <-chan string
	Println(text string)
	PrintAbove(text string)
	Redisplay()
	Close()
}

// Session is one peer of the chat.
type Session struct {
	identity string
	address  string
	channel  Channel
	prompt   Prompt
	log      *slog.Logger
	style    Style

	mu    sync.RWMutex
	state State
	done  chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStyle sets how notices, errors and inbound lines are rendered.
func WithStyle(style Style) Option {
	return func(s *Session) {
		s.style = style
	}
}

// New creates an idle session for identity. address is only used in the
// connection banner.
func New(identity, address string, ch Channel, pr Prompt, opts ...Option) *Session {
	s := &Session{
		identity: identity,
		address:  address,
		channel:  ch,
		prompt:   pr,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Done is closed once the session has terminated.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// PromptText is the prompt shown while the session is active.
func (s *Session) PromptText() string {
	return s.identity + "> "
}

// Run connects the channel and serves channel events and local lines on the
// calling goroutine until the channel closes, the input ends or ctx is
// cancelled. Every one of those endings is a normal shutdown, so Run only
// fails when misused.
func (s *Session) Run(ctx context.Context) error {
	if !s.transition(StateIdle, StateConnecting) {
		return ErrAlreadyRun
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.log.Debug("connecting", "identity", s.identity, "address", s.address)
	s.channel.Connect(ctx)
	events := s.channel.Events()

	// Nil until the channel opens: nothing typed earlier is read.
	var lines <-chan string

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("session cancelled", "identity", s.identity)
			_ = s.channel.Close()
			s.terminate()
			return nil

		case ev, ok := <-events:
			if !ok {
				s.terminate()
				return nil
			}
			if s.handleEvent(ev, &lines) {
				s.terminate()
				return nil
			}

		case line, ok := <-lines:
			if !ok {
				s.log.Debug("input closed", "identity", s.identity)
				_ = s.channel.Close()
				s.terminate()
				return nil
			}
			s.handleLine(line)
		}
	}
}

// handleEvent reports whether the session must end.
func (s *Session) handleEvent(ev channel.Event, lines *<-chan string) bool {
	switch ev.Kind {
	case channel.EventOpen:
		if !s.transition(StateConnecting, StateActive) {
			return false
		}
		s.prompt.Println(fmt.Sprintf("%s connected to %s", s.identity, s.address))
		s.prompt.Start(s.PromptText())
		*lines = s.prompt.Lines()

	case channel.EventMessage:
		s.prompt.PrintAbove(s.style.renderMessage(ev.Text))

	case channel.EventError:
		s.log.Debug("channel error", "identity", s.identity, "error", ev.Err)
		s.prompt.PrintAbove(s.style.renderError(ev.Err))

	case channel.EventClose:
		s.prompt.Println(s.style.renderNotice(ClosedNotice))
		return true
	}
	return false
}

func (s *Session) handleLine(line string) {
	if protocol.IsBlank(line) {
		s.prompt.Redisplay()
		return
	}

	wire, err := protocol.Line{Sender: s.identity, Text: line}.Encode()
	if err == nil {
		err = s.channel.Send(wire)
	}
	if err != nil {
		s.log.Debug("send failed", "identity", s.identity, "error", err)
		s.prompt.PrintAbove(s.style.renderError(err))
		return
	}
	s.prompt.Redisplay()
}

func (s *Session) transition(from, to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return false
	}
	s.state = to
	return true
}

// terminate runs once; later calls are no-ops.
func (s *Session) terminate() {
	s.mu.Lock()
	if s.state == StateTerminated {
		s.mu.Unlock()
		return
	}
	s.state = StateTerminated
	s.mu.Unlock()

	s.prompt.Close()
	close(s.done)
	s.log.Debug("session terminated", "identity", s.identity)
}
