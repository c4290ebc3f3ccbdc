// ABOUTME: Conversation service for the AI assistant and document chat
// ABOUTME: Manages transcript seeding, provider calls and document context

package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/huddleapp/huddle/internal/store"
	"github.com/huddleapp/huddle/internal/vector"
)

const (
	assistantSeed = "You are a useful AI assistant."
	documentSeed  = "Welcome to the document chat. Ask me anything about the document."

	// docSnippetLimit caps how much document content is injected as context.
	docSnippetLimit = 500
)

// ErrDocumentNotFound reports a doc_chat request against an unknown document.
var ErrDocumentNotFound = errors.New("document not found")

// Service implements assistant chat and document chat on top of a Completer,
// persisting transcripts between turns.
type Service struct {
	completer Completer
	store     store.Store
	index     *vector.Index
	logger    *slog.Logger
}

// NewService wires the assistant service.
func NewService(completer Completer, st store.Store, index *vector.Index, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		completer: completer,
		store:     st,
		index:     index,
		logger:    logger.With("component", "assistant"),
	}
}

// Chat appends the user's message to the conversation, queries the model and
// persists both turns. New conversations are seeded with the assistant system
// prompt and saved before the first completion.
func (s *Service) Chat(ctx context.Context, conversationID, role, message string) (string, error) {
	if role == "" {
		role = "user"
	}

	turns, err := s.getOrCreate(ctx, conversationID, store.TranscriptKindAssistant, assistantSeed)
	if err != nil {
		return "", err
	}

	turns = append(turns, store.Turn{Role: role, Content: message})

	reply, err := s.completer.Complete(ctx, turns)
	if err != nil {
		return "", fmt.Errorf("querying completion provider: %w", err)
	}

	turns = append(turns, store.Turn{Role: "assistant", Content: reply})
	if err := s.save(ctx, conversationID, store.TranscriptKindAssistant, turns); err != nil {
		return "", err
	}
	return reply, nil
}

// History returns the stored transcript for an assistant conversation.
// Unknown conversations return store.ErrNotFound; unlike document chat,
// fetching history never creates a conversation.
func (s *Service) History(ctx context.Context, conversationID string) ([]store.Turn, error) {
	tr, err := s.store.GetTranscript(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return tr.Turns, nil
}

// UploadDocument stores a document and indexes its content for retrieval.
func (s *Service) UploadDocument(ctx context.Context, doc *store.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	s.index.Upsert(doc.ID, doc.Content)
	s.logger.Info("document uploaded", "doc_id", doc.ID, "uploaded_by", doc.UploadedBy)
	return nil
}

// DocumentChat answers a question against a specific uploaded document. The
// document's title and a content snippet are injected as a system turn ahead
// of the completion, and that context turn is persisted with the transcript.
func (s *Service) DocumentChat(ctx context.Context, conversationID, docID, role, message string) (string, error) {
	if role == "" {
		role = "user"
	}

	turns, err := s.getOrCreate(ctx, conversationID, store.TranscriptKindDocument, documentSeed)
	if err != nil {
		return "", err
	}

	turns = append(turns, store.Turn{Role: role, Content: message})

	doc, err := s.store.GetDocument(ctx, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, docID)
		}
		return "", fmt.Errorf("loading document: %w", err)
	}

	snippet := doc.Content
	if len(snippet) > docSnippetLimit {
		snippet = snippet[:docSnippetLimit]
	}
	turns = append(turns, store.Turn{
		Role:    "system",
		Content: fmt.Sprintf("Document Title: %s\nDocument Content (snippet): %s", doc.Title, snippet),
	})

	reply, err := s.completer.Complete(ctx, turns)
	if err != nil {
		return "", fmt.Errorf("querying completion provider: %w", err)
	}

	turns = append(turns, store.Turn{Role: "assistant", Content: reply})
	if err := s.save(ctx, conversationID, store.TranscriptKindDocument, turns); err != nil {
		return "", err
	}
	return reply, nil
}

// DocumentHistory returns the transcript for a document conversation,
// creating and seeding it if absent.
func (s *Service) DocumentHistory(ctx context.Context, conversationID string) ([]store.Turn, error) {
	return s.getOrCreate(ctx, conversationID, store.TranscriptKindDocument, documentSeed)
}

// SearchDocuments ranks stored documents against a query.
func (s *Service) SearchDocuments(ctx context.Context, query string, topK int) ([]*store.Document, error) {
	matches := s.index.Search(query, topK)
	docs := make([]*store.Document, 0, len(matches))
	for _, m := range matches {
		doc, err := s.store.GetDocument(ctx, m.DocID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Index entry outlived the document; skip it.
				continue
			}
			return nil, fmt.Errorf("loading document %s: %w", m.DocID, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Service) getOrCreate(ctx context.Context, conversationID, kind, seed string) ([]store.Turn, error) {
	tr, err := s.store.GetTranscript(ctx, conversationID)
	if err == nil {
		return tr.Turns, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading transcript: %w", err)
	}

	turns := []store.Turn{{Role: "system", Content: seed}}
	if err := s.save(ctx, conversationID, kind, turns); err != nil {
		return nil, err
	}
	return turns, nil
}

func (s *Service) save(ctx context.Context, conversationID, kind string, turns []store.Turn) error {
	err := s.store.SaveTranscript(ctx, &store.Transcript{
		ConversationID: conversationID,
		Kind:           kind,
		Turns:          turns,
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}
