// ABOUTME: Per-connection chat session: history backfill, receive loop, departure
// ABOUTME: Owns the connection lifecycle from registration to the leave notice

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/huddleapp/huddle/internal/store"
)

// Session drives one websocket connection through the conversation protocol:
// register, replay history, relay inbound messages to the whole conversation,
// and announce departure when the peer disconnects.
type Session struct {
	registry *Registry
	messages store.MessageStore
	conn     *Conn

	sender   string
	receiver string
	key      string

	logger *slog.Logger
}

// NewSession wires a session for an upgraded connection. The conversation key
// is derived from the participant pair, so both directions of the same pair
// land in the same conversation.
func NewSession(registry *Registry, messages store.MessageStore, conn *Conn, sender, receiver string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		registry: registry,
		messages: messages,
		conn:     conn,
		sender:   sender,
		receiver: receiver,
		key:      Key(sender, receiver),
		logger: logger.With("component", "chat_session",
			"sender", sender,
			"receiver", receiver),
	}
}

// Run blocks until the connection ends. Once the session is active, the
// connection is unregistered first and the departure notice broadcast after,
// so the leaving connection never receives its own leave message. A session
// that fails during backfill never announced itself, so it leaves silently.
func (s *Session) Run(ctx context.Context) {
	s.registry.Register(s.key, s.conn)
	s.logger.Info("chat session started", "conn_id", s.conn.ID)

	if err := s.backfill(ctx); err != nil {
		s.registry.Unregister(s.key, s.conn)
		s.conn.Close(websocket.CloseInternalServerErr, "history unavailable")
		s.logger.Error("history backfill failed", "error", err)
		return
	}

	defer func() {
		s.registry.Unregister(s.key, s.conn)
		s.registry.Broadcast(s.key, []byte(fmt.Sprintf("%s left the chat.", s.sender)))
		s.conn.Close(websocket.CloseNormalClosure, "session ended")
		s.logger.Info("chat session ended", "conn_id", s.conn.ID)
	}()

	s.receiveLoop(ctx)
}

// backfill replays the stored conversation to this connection only, oldest
// first. Live frames that race with the replay are queued by the connection
// and flushed afterwards, so the client always sees history before live
// traffic. A failed history read ends the session: joining without context
// would silently present a partial conversation.
func (s *Session) backfill(ctx context.Context) error {
	history, err := s.messages.ChatHistory(ctx, s.sender, s.receiver)
	if err != nil {
		return fmt.Errorf("loading chat history: %w", err)
	}

	for _, msg := range history {
		frame := fmt.Sprintf("%s: %s", msg.Sender, msg.Message)
		if err := s.conn.SendHistory([]byte(frame)); err != nil {
			return fmt.Errorf("replaying chat history: %w", err)
		}
	}
	s.conn.EndBackfill()

	s.logger.Debug("history replayed", "messages", len(history))
	return nil
}

// receiveLoop relays inbound messages until the connection drops. Every
// message is persisted before fan-out; if the write fails the message is
// still broadcast, favoring conversation continuity over durability.
func (s *Session) receiveLoop(ctx context.Context) {
	for {
		text, err := s.conn.ReadText()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("connection closed unexpectedly", "error", err)
			}
			return
		}

		msg := &store.ChatMessage{
			Sender:    s.sender,
			Receiver:  s.receiver,
			Message:   text,
			Timestamp: time.Now().UTC(),
		}
		if err := s.messages.InsertChatMessage(ctx, msg); err != nil {
			s.logger.Error("failed to persist chat message", "error", err)
		}

		s.registry.Broadcast(s.key, []byte(fmt.Sprintf("%s: %s", s.sender, text)))
	}
}
