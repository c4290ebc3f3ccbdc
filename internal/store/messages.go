// ABOUTME: Chat message persistence for the SQLite store
// ABOUTME: Append-only inserts plus pair-scoped history reads, oldest first

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertChatMessage appends a direct message. Messages are immutable once
// stored. The timestamp is persisted at nanosecond resolution so that history
// ordering survives the round trip.
func (s *SQLiteStore) InsertChatMessage(ctx context.Context, msg *ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, sender, receiver, message, ts_unix_nano)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, msg.Sender, msg.Receiver, msg.Message, msg.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}
	return nil
}

// ChatHistory returns every message exchanged between userA and userB in
// either direction, oldest first. A pair with no history yields an empty
// slice, not an error.
func (s *SQLiteStore) ChatHistory(ctx context.Context, userA, userB string) ([]*ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender, receiver, message, ts_unix_nano
		FROM chat_messages
		WHERE (sender = ? AND receiver = ?) OR (sender = ? AND receiver = ?)
		ORDER BY ts_unix_nano ASC, rowid ASC
	`, userA, userB, userB, userA)
	if err != nil {
		return nil, fmt.Errorf("querying chat history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	messages := make([]*ChatMessage, 0)
	for rows.Next() {
		var m ChatMessage
		var tsNano int64
		if err := rows.Scan(&m.ID, &m.Sender, &m.Receiver, &m.Message, &tsNano); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}
		m.Timestamp = time.Unix(0, tsNano).UTC()
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
