// ABOUTME: AI conversation transcript persistence for the SQLite store
// ABOUTME: Stores the full ordered turn list per conversation id as JSON

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// GetTranscript loads a stored AI conversation.
// Returns ErrNotFound when the conversation id is unknown.
func (s *SQLiteStore) GetTranscript(ctx context.Context, conversationID string) (*Transcript, error) {
	var t Transcript
	var turnsJSON, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT conversation_id, kind, turns_json, updated_at
		FROM transcripts WHERE conversation_id = ?
	`, conversationID).Scan(&t.ConversationID, &t.Kind, &turnsJSON, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying transcript: %w", err)
	}

	if err := json.Unmarshal([]byte(turnsJSON), &t.Turns); err != nil {
		return nil, fmt.Errorf("unmarshaling turns: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

// SaveTranscript upserts an AI conversation transcript, replacing the stored
// turn list with the one provided.
func (s *SQLiteStore) SaveTranscript(ctx context.Context, t *Transcript) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now().UTC()
	}
	turnsJSON, err := json.Marshal(t.Turns)
	if err != nil {
		return fmt.Errorf("marshaling turns: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transcripts (conversation_id, kind, turns_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			turns_json = excluded.turns_json,
			updated_at = excluded.updated_at
	`, t.ConversationID, t.Kind, string(turnsJSON), t.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}
