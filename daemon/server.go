// Package daemon exposes the synchronization state to UI clients over a
// local Unix socket: a JSON snapshot endpoint plus a websocket stream that
// pushes a fresh snapshot whenever the notebook's state changes.
package daemon

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/notesync/logging"
	notesync "github.com/grovetools/notesync/sync"
)

// SocketPath returns the daemon socket path for a notebook directory.
func SocketPath(dir string) string {
	return filepath.Join(dir, ".notesync", "daemon.sock")
}

// wsClient wraps a websocket connection with a write lock. gorilla/websocket
// permits only one concurrent writer per connection, and both the handler's
// initial send and broadcast pushes target the same conn.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Server serves sync state for one notebook over a Unix socket.
type Server struct {
	engine     *notesync.Engine
	socketPath string
	logger     *logrus.Entry

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]bool
}

// NewServer creates a server for the given engine.
func NewServer(engine *notesync.Engine, socketPath string) *Server {
	return &Server{
		engine:     engine,
		socketPath: socketPath,
		logger:     logging.NewLogger("daemon"),
		clients:    make(map[*wsClient]bool),
	}
}

// Start listens on the Unix socket and serves until the context is
// cancelled. A stale socket file from a previous run is removed first.
func (s *Server) Start(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return err
	}
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/watch", s.handleWatch)

	server := &http.Server{Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		_ = os.Remove(s.socketPath)
	}()

	s.logger.WithField("socket", s.socketPath).Info("daemon listening")
	if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleStatus returns the current snapshot as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.engine.Snapshot(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		s.logger.WithError(err).Warn("failed to encode snapshot")
	}
}

// handleWatch upgrades to a websocket and streams snapshots. The current
// snapshot is sent immediately, then one message per state change.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn}
	s.mu.Lock()
	s.clients[client] = true
	s.mu.Unlock()

	snapshot, err := s.engine.Snapshot(r.Context())
	if err == nil {
		_ = client.writeJSON(snapshot)
	}

	// Reader loop exists only to detect disconnects.
	go func() {
		defer s.drop(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// NotifyChanged recomputes the snapshot and pushes it to every connected
// client. Called on operation completion, timer tick, and file changes.
func (s *Server) NotifyChanged(ctx context.Context) {
	snapshot, err := s.engine.Snapshot(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("failed to refresh snapshot for broadcast")
		return
	}

	s.mu.Lock()
	clients := make([]*wsClient, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.Unlock()

	for _, client := range clients {
		if err := client.writeJSON(snapshot); err != nil {
			s.drop(client)
		}
	}
}

func (s *Server) drop(client *wsClient) {
	s.mu.Lock()
	if s.clients[client] {
		delete(s.clients, client)
		client.conn.Close()
	}
	s.mu.Unlock()
}
