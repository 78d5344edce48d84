package remote

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dojdev153/nexus-robot-control/internal/input"
)

func newTestServer(t *testing.T) (*Server, *input.Queue, string) {
	t.Helper()
	queue := input.NewQueue()
	s := NewServer(Config{Addr: "127.0.0.1:0"}, queue, zerolog.Nop())

	ts := httptest.NewServer(http.HandlerFunc(s.handleCommands))
	t.Cleanup(ts.Close)
	t.Cleanup(s.Stop)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/commands"
	return s, queue, wsURL
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForTokens(t *testing.T, queue *input.Queue, n int) []string {
	t.Helper()
	require.Eventually(t, func() bool {
		return queue.Len() >= n
	}, time.Second, time.Millisecond, "expected %d queued tokens", n)
	return queue.Drain()
}

func TestServerQueuesTextMessages(t *testing.T) {
	_, queue, url := newTestServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("forward")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("jump")))

	tokens := waitForTokens(t, queue, 2)
	assert.Equal(t, []string{"forward", "jump"}, tokens)
}

func TestServerIgnoresBinaryAndEmptyMessages(t *testing.T) {
	_, queue, url := newTestServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, nil))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("wave")))

	tokens := waitForTokens(t, queue, 1)
	assert.Equal(t, []string{"wave"}, tokens)
}

func TestServerHandlesMultipleClients(t *testing.T) {
	_, queue, url := newTestServer(t)
	a := dial(t, url)
	b := dial(t, url)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("dance")))
	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte("nod")))

	tokens := waitForTokens(t, queue, 2)
	assert.ElementsMatch(t, []string{"dance", "nod"}, tokens)
}

func TestServerStopDisconnectsClients(t *testing.T) {
	s, _, url := newTestServer(t)
	conn := dial(t, url)

	// Let the server register the connection before stopping.
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.conns) == 1
	}, time.Second, time.Millisecond)

	s.Stop()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "client read should fail after server stop")
}

func TestServerStartAndStop(t *testing.T) {
	queue := input.NewQueue()
	s := NewServer(Config{Addr: "127.0.0.1:0"}, queue, zerolog.Nop())

	require.NoError(t, s.Start())
	s.Stop()
}

func TestServerStartRejectsBadAddr(t *testing.T) {
	queue := input.NewQueue()
	s := NewServer(Config{Addr: "256.0.0.1:notaport"}, queue, zerolog.Nop())

	assert.Error(t, s.Start())
}
