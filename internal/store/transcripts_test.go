// ABOUTME: Tests for transcript and document persistence
// ABOUTME: Covers JSON turn round trips, upserts and not-found lookups

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Transcript_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	tr := &Transcript{
		ConversationID: "conv-1",
		Kind:           TranscriptKindAssistant,
		Turns: []Turn{
			{Role: "system", Content: "You are a useful AI assistant."},
			{Role: "user", Content: "hello"},
		},
	}
	require.NoError(t, store.SaveTranscript(ctx, tr))

	got, err := store.GetTranscript(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, TranscriptKindAssistant, got.Kind)
	require.Len(t, got.Turns, 2)
	assert.Equal(t, "user", got.Turns[1].Role)
	assert.Equal(t, "hello", got.Turns[1].Content)
}

func TestStore_Transcript_UpsertReplacesTurns(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTranscript(ctx, &Transcript{
		ConversationID: "conv-1",
		Kind:           TranscriptKindAssistant,
		Turns:          []Turn{{Role: "system", Content: "seed"}},
	}))
	require.NoError(t, store.SaveTranscript(ctx, &Transcript{
		ConversationID: "conv-1",
		Kind:           TranscriptKindAssistant,
		Turns: []Turn{
			{Role: "system", Content: "seed"},
			{Role: "user", Content: "more"},
		},
	}))

	got, err := store.GetTranscript(ctx, "conv-1")
	require.NoError(t, err)
	assert.Len(t, got.Turns, 2)
}

func TestStore_Transcript_NotFound(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.GetTranscript(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Document_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &Document{
		ID: "doc-1", Title: "Handbook", Content: "Be kind.", UploadedBy: "alice",
	}))

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Handbook", got.Title)
	assert.Equal(t, "alice", got.UploadedBy)

	// Uploading again with the same id replaces the content
	require.NoError(t, store.SaveDocument(ctx, &Document{
		ID: "doc-1", Title: "Handbook v2", Content: "Be kinder.", UploadedBy: "alice",
	}))
	got, err = store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Handbook v2", got.Title)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestStore_Document_NotFound(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
