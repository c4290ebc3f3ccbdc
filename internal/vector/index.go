// ABOUTME: In-memory vector index over uploaded documents
// ABOUTME: Rebuilt from the store at startup and updated on upload

package vector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/huddleapp/huddle/internal/store"
)

// Index holds one embedding per document and answers nearest-document
// queries by cosine similarity. It is safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	vectors map[string][]float64 // document ID -> embedding
	logger  *slog.Logger
}

// NewIndex creates an empty index. Pass nil logger for default.
func NewIndex(logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		vectors: make(map[string][]float64),
		logger:  logger.With("component", "vector_index"),
	}
}

// Rebuild replaces the index contents with embeddings for every stored
// document. Called at startup so the index survives restarts.
func (ix *Index) Rebuild(ctx context.Context, docs store.DocumentStore) error {
	all, err := docs.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	vectors := make(map[string][]float64, len(all))
	for _, doc := range all {
		vectors[doc.ID] = Embed(doc.Content)
	}

	ix.mu.Lock()
	ix.vectors = vectors
	ix.mu.Unlock()

	ix.logger.Info("vector index rebuilt", "documents", len(all))
	return nil
}

// Upsert adds or replaces the embedding for a document.
func (ix *Index) Upsert(docID, content string) {
	vec := Embed(content)
	ix.mu.Lock()
	ix.vectors[docID] = vec
	ix.mu.Unlock()
}

// Remove drops a document from the index.
func (ix *Index) Remove(docID string) {
	ix.mu.Lock()
	delete(ix.vectors, docID)
	ix.mu.Unlock()
}

// Len reports the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}

// Match is one search result: a document ID and its cosine score.
type Match struct {
	DocID string
	Score float64
}

// Search ranks indexed documents by cosine similarity to the query text and
// returns up to topK matches, best first. An empty index yields nil.
func (ix *Index) Search(query string, topK int) []Match {
	if topK <= 0 {
		topK = 1
	}
	queryVec := Embed(query)

	ix.mu.RLock()
	matches := make([]Match, 0, len(ix.vectors))
	for id, vec := range ix.vectors {
		matches = append(matches, Match{DocID: id, Score: Cosine(queryVec, vec)})
	}
	ix.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	if len(matches) == 0 {
		return nil
	}
	return matches
}
