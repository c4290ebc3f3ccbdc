// ABOUTME: Tests for the assistant service transcript and document flows
// ABOUTME: Uses a fake completer so no provider traffic is needed

package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleapp/huddle/internal/store"
	"github.com/huddleapp/huddle/internal/vector"
)

type fakeCompleter struct {
	reply    string
	err      error
	lastSent []store.Turn
}

func (f *fakeCompleter) Complete(_ context.Context, turns []store.Turn) (string, error) {
	f.lastSent = turns
	return f.reply, f.err
}

func newServiceFixture(t *testing.T, completer Completer) (*Service, *store.SQLiteStore) {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "assistant.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return NewService(completer, st, vector.NewIndex(nil), nil), st
}

func TestChat_SeedsNewConversation(t *testing.T) {
	fake := &fakeCompleter{reply: "hello there"}
	svc, _ := newServiceFixture(t, fake)

	reply, err := svc.Chat(context.Background(), "conv-1", "user", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)

	// The provider sees the system seed followed by the user's message.
	require.Len(t, fake.lastSent, 2)
	assert.Equal(t, "system", fake.lastSent[0].Role)
	assert.Equal(t, "You are a useful AI assistant.", fake.lastSent[0].Content)
	assert.Equal(t, store.Turn{Role: "user", Content: "hi"}, fake.lastSent[1])
}

func TestChat_PersistsBothTurns(t *testing.T) {
	fake := &fakeCompleter{reply: "the answer"}
	svc, _ := newServiceFixture(t, fake)
	ctx := context.Background()

	_, err := svc.Chat(ctx, "conv-1", "user", "question")
	require.NoError(t, err)

	turns, err := svc.History(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "system", turns[0].Role)
	assert.Equal(t, store.Turn{Role: "user", Content: "question"}, turns[1])
	assert.Equal(t, store.Turn{Role: "assistant", Content: "the answer"}, turns[2])
}

func TestChat_ContinuesExistingConversation(t *testing.T) {
	fake := &fakeCompleter{reply: "second reply"}
	svc, _ := newServiceFixture(t, fake)
	ctx := context.Background()

	_, err := svc.Chat(ctx, "conv-1", "user", "first")
	require.NoError(t, err)
	_, err = svc.Chat(ctx, "conv-1", "user", "second")
	require.NoError(t, err)

	// seed + first + reply + second, all sent to the provider.
	require.Len(t, fake.lastSent, 4)
	assert.Equal(t, "second", fake.lastSent[3].Content)

	turns, err := svc.History(ctx, "conv-1")
	require.NoError(t, err)
	assert.Len(t, turns, 5)
}

func TestChat_ProviderErrorLeavesTranscriptUntouched(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("rate limited")}
	svc, _ := newServiceFixture(t, fake)
	ctx := context.Background()

	_, err := svc.Chat(ctx, "conv-1", "user", "hi")
	require.Error(t, err)

	// The seeded conversation exists but the failed exchange was not saved.
	turns, err := svc.History(ctx, "conv-1")
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestHistory_UnknownConversation(t *testing.T) {
	svc, _ := newServiceFixture(t, &fakeCompleter{})

	_, err := svc.History(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocumentChat_InjectsDocContext(t *testing.T) {
	fake := &fakeCompleter{reply: "about the doc"}
	svc, _ := newServiceFixture(t, fake)
	ctx := context.Background()

	require.NoError(t, svc.UploadDocument(ctx, &store.Document{
		ID: "doc-1", Title: "Handbook", Content: "All employees must wash hands.",
		UploadedBy: "alice",
	}))

	reply, err := svc.DocumentChat(ctx, "docconv-1", "doc-1", "user", "what does it say?")
	require.NoError(t, err)
	assert.Equal(t, "about the doc", reply)

	// seed, user question, injected document context.
	require.Len(t, fake.lastSent, 3)
	ctxTurn := fake.lastSent[2]
	assert.Equal(t, "system", ctxTurn.Role)
	assert.Contains(t, ctxTurn.Content, "Document Title: Handbook")
	assert.Contains(t, ctxTurn.Content, "wash hands")
}

func TestDocumentChat_SnippetTruncated(t *testing.T) {
	fake := &fakeCompleter{reply: "ok"}
	svc, _ := newServiceFixture(t, fake)
	ctx := context.Background()

	long := strings.Repeat("x", 2000)
	require.NoError(t, svc.UploadDocument(ctx, &store.Document{
		ID: "doc-1", Title: "Long", Content: long, UploadedBy: "alice",
	}))

	_, err := svc.DocumentChat(ctx, "docconv-1", "doc-1", "user", "summarize")
	require.NoError(t, err)

	ctxTurn := fake.lastSent[2]
	assert.Contains(t, ctxTurn.Content, strings.Repeat("x", 500))
	assert.NotContains(t, ctxTurn.Content, strings.Repeat("x", 501))
}

func TestDocumentChat_UnknownDocument(t *testing.T) {
	svc, _ := newServiceFixture(t, &fakeCompleter{reply: "unused"})

	_, err := svc.DocumentChat(context.Background(), "docconv-1", "ghost", "user", "hi")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentHistory_CreatesAndSeeds(t *testing.T) {
	svc, _ := newServiceFixture(t, &fakeCompleter{})

	turns, err := svc.DocumentHistory(context.Background(), "docconv-1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "system", turns[0].Role)
	assert.Equal(t, "Welcome to the document chat. Ask me anything about the document.", turns[0].Content)
}

func TestSearchDocuments_ReturnsRankedDocs(t *testing.T) {
	svc, _ := newServiceFixture(t, &fakeCompleter{})
	ctx := context.Background()

	require.NoError(t, svc.UploadDocument(ctx, &store.Document{
		ID: "doc-1", Title: "Notes", Content: "quarterly planning notes", UploadedBy: "alice",
	}))
	require.NoError(t, svc.UploadDocument(ctx, &store.Document{
		ID: "doc-2", Title: "Menu", Content: "zzzzzzzzzzzzzzzzzzzzzzzz", UploadedBy: "bob",
	}))

	docs, err := svc.SearchDocuments(ctx, "quarterly planning notes", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].ID)
}

func TestUploadDocument_SetsCreatedAt(t *testing.T) {
	svc, st := newServiceFixture(t, &fakeCompleter{})
	ctx := context.Background()

	require.NoError(t, svc.UploadDocument(ctx, &store.Document{
		ID: "doc-1", Title: "T", Content: "c", UploadedBy: "alice",
	}))

	doc, err := st.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), doc.CreatedAt, time.Minute)
}

func TestRenderHTML_Markdown(t *testing.T) {
	html, err := RenderHTML("**bold** and _italic_")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "<em>italic</em>")
}

func TestRenderHTML_EscapesRawHTML(t *testing.T) {
	html, err := RenderHTML("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
