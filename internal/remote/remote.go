// Package remote exposes an optional WebSocket endpoint that accepts the
// same command tokens as the serial link, for driving the figure from
// another machine on the local network.
package remote

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/dojdev153/nexus-robot-control/internal/input"
)

// Config holds the remote command server settings.
type Config struct {
	Enabled bool
	Addr    string // listen address, e.g. "127.0.0.1:7777"
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  256,
	WriteBufferSize: 256,
	// Token feed only; any origin on the local network may connect.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Server accepts WebSocket connections on /commands and pushes each text
// message into the shared queue. Fire-and-forget, same at-most-once
// semantics as the serial link.
type Server struct {
	log   zerolog.Logger
	queue *input.Queue
	srv   *http.Server

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewServer creates a remote command server for the given address.
func NewServer(cfg Config, queue *input.Queue, log zerolog.Logger) *Server {
	s := &Server{
		log:   log,
		queue: queue,
		conns: make(map[*websocket.Conn]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/commands", s.handleCommands)
	s.srv = &http.Server{Addr: cfg.Addr, Handler: mux}
	return s
}

// Start begins serving on the configured address. Bind failures are
// returned to the caller; like the serial link they are non-fatal to the
// session.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.log.Info().Str("addr", ln.Addr().String()).Msg("remote command server listening")

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("remote server stopped")
		}
	}()
	return nil
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("remote upgrade failed")
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	s.log.Info().Str("peer", conn.RemoteAddr().String()).Msg("remote client connected")

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
		s.log.Info().Str("peer", conn.RemoteAddr().String()).Msg("remote client disconnected")
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		token := string(data)
		if token == "" {
			continue
		}
		s.log.Debug().Str("token", token).Msg("remote command")
		s.queue.Push(token)
	}
}

// Stop closes all client connections and shuts the server down.
func (s *Server) Stop() {
	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = make(map[*websocket.Conn]struct{})
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.srv.Shutdown(ctx)
}
