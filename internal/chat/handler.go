// ABOUTME: HTTP handler upgrading chat requests to websocket sessions
// ABOUTME: Validates participants before the upgrade and runs the session inline

package chat

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/huddleapp/huddle/internal/store"
)

// Handler upgrades GET /ws/chat/{sender}/{receiver} requests and runs a
// Session per connection. Participant identities are taken from the path as
// given; any non-empty strings form a valid conversation.
type Handler struct {
	registry   *Registry
	messages   store.MessageStore
	upgrader   websocket.Upgrader
	sendBuffer int
	logger     *slog.Logger
}

// NewHandler builds the websocket chat handler. When allowedOrigins is empty
// every origin is accepted, matching the open CORS posture of the REST API.
func NewHandler(registry *Registry, messages store.MessageStore, allowedOrigins []string, sendBuffer int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		registry:   registry,
		messages:   messages,
		sendBuffer: sendBuffer,
		logger:     logger.With("component", "chat_handler"),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// Register mounts the chat endpoint on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/chat/{sender}/{receiver}", h.handleChat)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	sender := r.PathValue("sender")
	receiver := r.PathValue("receiver")
	if sender == "" || receiver == "" {
		http.Error(w, "sender and receiver are required", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	conn := NewConn(ws, h.sendBuffer)
	conn.Start()

	session := NewSession(h.registry, h.messages, conn, sender, receiver, h.logger)
	session.Run(r.Context())
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
