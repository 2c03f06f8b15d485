// Package relay implements the broadcast relay peers connect to. One port
// accepts both raw TCP line clients and WebSocket clients.
package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/omochice/relay-chat/internal/chat"
	"github.com/omochice/relay-chat/internal/transport"
	"github.com/omochice/relay-chat/internal/transport/tcp"
)

const (
	defaultSniffTimeout = 300 * time.Millisecond
	readHeaderTimeout   = 5 * time.Second
)

// Server relays every line from one client to all the others.
type Server struct {
	address      string
	hub          *chat.Hub
	log          *slog.Logger
	queueSize    int
	sniffTimeout time.Duration
	handler      http.Handler

	mu       sync.Mutex
	listener net.Listener

	ctx      context.Context
	cancel   context.CancelFunc
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithSniffTimeout bounds how long a new connection may stay silent before
// it is treated as a raw TCP client.
func WithSniffTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.sniffTimeout = d
	}
}

// New creates a Server. queueSize is the per-client outgoing buffer.
func New(address string, hub *chat.Hub, log *slog.Logger, queueSize int, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		address:      address,
		hub:          hub,
		log:          log,
		queueSize:    queueSize,
		sniffTimeout: defaultSniffTimeout,
		ctx:          ctx,
		cancel:       cancel,
		quit:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

// Listen binds the listening socket.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.log.Info("relay listening", "address", listener.Addr().String())
	return nil
}

// Serve accepts connections until Stop is called. Listen must succeed first.
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server not listening")
	}

	s.wg.Add(1)
	defer s.wg.Done()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn("failed to accept connection", "error", err)
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// Start listens and serves, blocking until Stop.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Stop closes the listener and every client, then waits for all handlers.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		s.cancel()

		s.mu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Unlock()

		for _, client := range s.hub.Clients() {
			client.Conn.Close()
		}
	})
	s.wg.Wait()
}

// Addr returns the listening address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}

// handleConnection determines whether the connection is HTTP (WebSocket) or
// a raw TCP line client.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	kind, reader, err := detectProtocol(conn, s.sniffTimeout)
	if err != nil {
		s.log.Debug("failed to detect protocol", "remote", conn.RemoteAddr().String(), "error", err)
		conn.Close()
		return
	}

	switch kind {
	case protocolHTTP:
		s.serveHTTP(conn, reader)
	default:
		s.serveClient(tcp.NewConnWithReader(conn, reader))
	}
}

// serveHTTP runs a one-connection http.Server over conn so chi can route it.
func (s *Server) serveHTTP(conn net.Conn, reader *bufio.Reader) {
	nc := newNotifyConn(conn, reader)
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	stop := context.AfterFunc(s.ctx, func() {
		srv.Close()
	})
	defer stop()

	if err := srv.Serve(&singleConnListener{conn: nc, quit: s.quit}); err != nil &&
		!errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		s.log.Warn("http connection failed", "remote", conn.RemoteAddr().String(), "error", err)
	}
}

// serveClient registers conn with the hub and pumps lines both ways until
// the client disconnects.
func (s *Server) serveClient(conn transport.Conn) {
	client := chat.NewClient(conn, s.queueSize)
	s.hub.Register(client)
	s.log.Info("client connected", "client", client.ID, "remote", conn.RemoteAddr())

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for line := range client.Outgoing {
			if err := conn.WriteLine(s.ctx, line); err != nil {
				s.log.Warn("failed to send line", "client", client.ID, "error", err)
				conn.Close()
				return
			}
		}
	}()

	if err := s.hub.HandleClient(s.ctx, client); err != nil {
		s.log.Warn("client read failed", "client", client.ID, "error", err)
	}

	s.hub.Unregister(client)
	close(client.Outgoing)
	<-writerDone
	conn.Close()
	s.log.Info("client disconnected", "client", client.ID)
}
