// ABOUTME: In-memory registry of live websocket connections per conversation
// ABOUTME: Fans out frames to every registered connection under a conversation key

package chat

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Registry tracks live connections grouped by conversation key and fans out
// frames to them. It holds no history; persistence belongs to the store.
type Registry struct {
	mu            sync.RWMutex
	conversations map[string]map[string]*Conn // conversation key -> conn ID -> conn
	logger        *slog.Logger
}

// NewRegistry creates an empty registry. Pass nil logger for default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		conversations: make(map[string]map[string]*Conn),
		logger:        logger.With("component", "chat_registry"),
	}
}

// Register adds a connection under the given conversation key. A conversation
// can hold any number of connections, including several for the same
// participant name.
func (r *Registry) Register(key string, conn *Conn) {
	r.mu.Lock()
	if _, ok := r.conversations[key]; !ok {
		r.conversations[key] = make(map[string]*Conn)
	}
	r.conversations[key][conn.ID] = conn
	r.mu.Unlock()

	r.logger.Debug("connection registered", "conversation_key", key, "conn_id", conn.ID)
}

// Unregister removes a connection from a conversation. Removing a connection
// that is not registered is a no-op, so the disconnect path can call this
// unconditionally. Empty conversation entries are dropped so the map does not
// grow with dead keys.
func (r *Registry) Unregister(key string, conn *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.conversations[key]
	if !ok {
		return
	}
	if _, exists := conns[conn.ID]; !exists {
		return
	}

	delete(conns, conn.ID)
	if len(conns) == 0 {
		delete(r.conversations, key)
	}

	r.logger.Debug("connection unregistered", "conversation_key", key, "conn_id", conn.ID)
}

// Broadcast delivers a text frame to every connection registered under the
// key, the sender's own connection included. Connections are snapshotted
// under the read lock and written to outside it, so one slow connection
// cannot stall the registry. Returns the number of connections targeted.
func (r *Registry) Broadcast(key string, payload []byte) int {
	r.mu.RLock()
	conns, ok := r.conversations[key]
	if !ok || len(conns) == 0 {
		r.mu.RUnlock()
		return 0
	}

	targets := make([]*Conn, 0, len(conns))
	for _, conn := range conns {
		targets = append(targets, conn)
	}
	r.mu.RUnlock()

	for _, conn := range targets {
		if err := conn.Send(payload); err != nil {
			r.logger.Debug("dropped frame for dead connection",
				"conversation_key", key,
				"conn_id", conn.ID)
		}
	}
	return len(targets)
}

// Count reports the number of live connections under a conversation key.
func (r *Registry) Count(key string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conversations[key])
}

// Close disconnects every registered connection. Used during server shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	var targets []*Conn
	for key, conns := range r.conversations {
		for id, conn := range conns {
			targets = append(targets, conn)
			delete(conns, id)
		}
		delete(r.conversations, key)
	}
	r.mu.Unlock()

	for _, conn := range targets {
		conn.Close(websocket.CloseGoingAway, "server shutting down")
	}

	r.logger.Debug("registry closed", "connections", len(targets))
}
