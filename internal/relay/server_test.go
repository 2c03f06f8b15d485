package relay_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omochice/relay-chat/internal/chat"
	"github.com/omochice/relay-chat/internal/relay"
	"github.com/omochice/relay-chat/internal/transport"
	"github.com/omochice/relay-chat/internal/transport/tcp"
	"github.com/omochice/relay-chat/internal/transport/ws"
)

func newTestServer(t *testing.T) *relay.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := relay.New("127.0.0.1:0", chat.NewHub(log), log, 10, relay.WithSniffTimeout(50*time.Millisecond))
	require.NoError(t, srv.Listen())

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve()
	}()
	t.Cleanup(func() {
		srv.Stop()
		select {
		case err := <-errChan:
			if err != nil {
				t.Errorf("Serve() error = %v", err)
			}
		case <-time.After(time.Second):
			t.Error("Serve did not return after Stop")
		}
	})
	return srv
}

func waitClients(t *testing.T, srv *relay.Server, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return srv.ClientCount() == n
	}, 2*time.Second, 10*time.Millisecond, "expected %d clients", n)
}

func readLine(t *testing.T, conn transport.Conn) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := conn.ReadLine(ctx)
		done <- result{line, err}
	}()
	select {
	case r := <-done:
		require.NoError(t, r.err)
		return r.line
	case <-ctx.Done():
		t.Fatal("timed out waiting for line")
		return ""
	}
}

func TestServer_Addr(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := relay.New("127.0.0.1:0", chat.NewHub(log), log, 10)
	if got := srv.Addr(); got != "" {
		t.Errorf("Addr() before Listen = %q, want empty", got)
	}
	require.Error(t, srv.Serve())

	require.NoError(t, srv.Listen())
	defer srv.Stop()
	if srv.Addr() == "" {
		t.Error("Addr() after Listen is empty")
	}
}

func TestServer_TCPClient(t *testing.T) {
	srv := newTestServer(t)

	conn, err := tcp.Dial(context.Background(), srv.Addr())
	require.NoError(t, err)
	defer conn.Close()

	waitClients(t, srv, 1)
}

func TestServer_WebSocketClient(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"", "/ws"} {
		conn, err := ws.Dial(context.Background(), "ws://"+srv.Addr()+path)
		require.NoError(t, err)
		waitClients(t, srv, 1)
		conn.Close()
		waitClients(t, srv, 0)
	}
}

func TestServer_RelaysBetweenTransports(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t)

	tcpConn, err := tcp.Dial(context.Background(), srv.Addr())
	req.NoError(err)
	defer tcpConn.Close()
	wsConn, err := ws.Dial(context.Background(), "ws://"+srv.Addr())
	req.NoError(err)
	defer wsConn.Close()
	waitClients(t, srv, 2)

	req.NoError(tcpConn.WriteLine(context.Background(), "user1: hello"))
	req.Equal("user1: hello", readLine(t, wsConn))

	// the sender never sees its own line, so the next line tcp reads is the reply
	req.NoError(wsConn.WriteLine(context.Background(), "user2: hi there"))
	req.Equal("user2: hi there", readLine(t, tcpConn))
}

func TestServer_BroadcastToAllOthers(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t)

	var conns []transport.Conn
	for i := 0; i < 3; i++ {
		conn, err := ws.Dial(context.Background(), "ws://"+srv.Addr())
		req.NoError(err)
		defer conn.Close()
		conns = append(conns, conn)
	}
	waitClients(t, srv, 3)

	req.NoError(conns[0].WriteLine(context.Background(), "user1: hello all"))
	req.Equal("user1: hello all", readLine(t, conns[1]))
	req.Equal("user1: hello all", readLine(t, conns[2]))
}

func TestServer_ClientDisconnect(t *testing.T) {
	srv := newTestServer(t)

	a, err := tcp.Dial(context.Background(), srv.Addr())
	require.NoError(t, err)
	b, err := tcp.Dial(context.Background(), srv.Addr())
	require.NoError(t, err)
	defer b.Close()
	waitClients(t, srv, 2)

	a.Close()
	waitClients(t, srv, 1)
}

func TestServer_Healthz(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t)

	conn, err := tcp.Dial(context.Background(), srv.Addr())
	req.NoError(err)
	defer conn.Close()
	waitClients(t, srv, 1)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + srv.Addr() + "/healthz")
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusOK, resp.StatusCode)
	req.Equal("application/json", resp.Header.Get("Content-Type"))
	var body struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
	}
	req.NoError(json.NewDecoder(resp.Body).Decode(&body))
	req.Equal("ok", body.Status)
	req.Equal(1, body.Clients)
}

func TestServer_StopDisconnectsClients(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := relay.New("127.0.0.1:0", chat.NewHub(log), log, 10, relay.WithSniffTimeout(50*time.Millisecond))
	require.NoError(t, srv.Listen())
	go srv.Serve()

	conn, err := tcp.Dial(context.Background(), srv.Addr())
	require.NoError(t, err)
	defer conn.Close()
	waitClients(t, srv, 1)

	stopped := make(chan struct{})
	go func() {
		srv.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	_, err = conn.ReadLine(context.Background())
	if !transport.IsClosed(err) {
		t.Errorf("ReadLine() after Stop error = %v, want closed", err)
	}
}
