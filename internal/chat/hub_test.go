package chat_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omochice/relay-chat/internal/chat"
)

func newTestHub() *chat.Hub {
	return chat.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewClient(t *testing.T) {
	req := require.New(t)
	a := chat.NewClient(newMockConn("127.0.0.1:1"), 4)
	b := chat.NewClient(newMockConn("127.0.0.1:2"), 4)

	req.NotEmpty(a.ID)
	req.NotEqual(a.ID, b.ID)
	req.Equal(4, cap(a.Outgoing))
}

func TestHub_Register(t *testing.T) {
	hub := newTestHub()
	hub.Register(chat.NewClient(newMockConn("127.0.0.1:1234"), 10))

	if got := hub.ClientCount(); got != 1 {
		t.Errorf("ClientCount() = %d, want 1", got)
	}
}

func TestHub_Register_MultipleClients(t *testing.T) {
	hub := newTestHub()
	for i := 0; i < 3; i++ {
		hub.Register(chat.NewClient(newMockConn("127.0.0.1:1234"), 10))
	}

	if got := hub.ClientCount(); got != 3 {
		t.Errorf("ClientCount() = %d, want 3", got)
	}
	if got := len(hub.Clients()); got != 3 {
		t.Errorf("len(Clients()) = %d, want 3", got)
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := newTestHub()
	client := chat.NewClient(newMockConn("127.0.0.1:1234"), 10)
	hub.Register(client)
	hub.Unregister(client)

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount() = %d, want 0", got)
	}
	// unknown clients are ignored
	hub.Unregister(client)
}

func TestHub_Broadcast_SkipsSender(t *testing.T) {
	req := require.New(t)
	hub := newTestHub()
	sender := chat.NewClient(newMockConn("a"), 10)
	r1 := chat.NewClient(newMockConn("b"), 10)
	r2 := chat.NewClient(newMockConn("c"), 10)
	for _, c := range []*chat.Client{sender, r1, r2} {
		hub.Register(c)
	}

	n := hub.Broadcast("user1: hello", sender)

	req.Equal(2, n)
	req.Equal("user1: hello", <-r1.Outgoing)
	req.Equal("user1: hello", <-r2.Outgoing)
	req.Empty(sender.Outgoing)
}

func TestHub_Broadcast_FullQueueDrops(t *testing.T) {
	req := require.New(t)
	hub := newTestHub()
	sender := chat.NewClient(newMockConn("a"), 1)
	slow := chat.NewClient(newMockConn("b"), 1)
	hub.Register(sender)
	hub.Register(slow)

	req.Equal(1, hub.Broadcast("user1: first", sender))
	req.Equal(0, hub.Broadcast("user1: second", sender))
	req.Equal("user1: first", <-slow.Outgoing)
	req.Empty(slow.Outgoing)
}

func TestHub_Broadcast_Unregistered(t *testing.T) {
	hub := newTestHub()
	sender := chat.NewClient(newMockConn("a"), 1)
	gone := chat.NewClient(newMockConn("b"), 1)
	hub.Register(sender)
	hub.Register(gone)
	hub.Unregister(gone)

	if got := hub.Broadcast("user1: hi", sender); got != 0 {
		t.Errorf("Broadcast() = %d, want 0", got)
	}
}

func TestHub_HandleClient(t *testing.T) {
	req := require.New(t)
	hub := newTestHub()
	conn := newMockConn("a")
	sender := chat.NewClient(conn, 10)
	peer := chat.NewClient(newMockConn("b"), 10)
	hub.Register(sender)
	hub.Register(peer)

	conn.readCh <- "user1: hello"
	conn.readCh <- "user1: time: 12:00"
	close(conn.readCh)

	req.NoError(hub.HandleClient(context.Background(), sender))
	req.Equal("user1: hello", <-peer.Outgoing)
	req.Equal("user1: time: 12:00", <-peer.Outgoing)
	req.Empty(sender.Outgoing)
}

func TestHub_HandleClient_ReadError(t *testing.T) {
	hub := newTestHub()
	conn := newMockConn("a")
	conn.readErr = errors.New("connection reset")
	close(conn.readCh)
	client := chat.NewClient(conn, 10)
	hub.Register(client)

	err := hub.HandleClient(context.Background(), client)
	if err == nil || err.Error() != "connection reset" {
		t.Errorf("HandleClient() error = %v, want connection reset", err)
	}
}

func TestHub_HandleClient_ContextCancel(t *testing.T) {
	hub := newTestHub()
	client := chat.NewClient(newMockConn("a"), 10)
	hub.Register(client)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.HandleClient(ctx, client) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("HandleClient() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("HandleClient did not return after cancel")
	}
}
