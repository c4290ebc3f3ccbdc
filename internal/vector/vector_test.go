// ABOUTME: Tests for placeholder embeddings and the document index
// ABOUTME: Covers vector shape, cosine edge cases and nearest-document search

package vector

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleapp/huddle/internal/store"
)

func TestEmbed_FixedWidth(t *testing.T) {
	assert.Len(t, Embed(""), Dimensions)
	assert.Len(t, Embed("short"), Dimensions)
	assert.Len(t, Embed(string(make([]byte, 200))), Dimensions)
}

func TestEmbed_CharacterOrdinals(t *testing.T) {
	vec := Embed("ab")
	assert.Equal(t, float64('a'), vec[0])
	assert.Equal(t, float64('b'), vec[1])
	assert.Equal(t, 0.0, vec[2])
}

func TestEmbed_Deterministic(t *testing.T) {
	assert.Equal(t, Embed("hello world"), Embed("hello world"))
}

func TestCosine_IdenticalVectors(t *testing.T) {
	v := Embed("some document text")
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosine_ZeroVector(t *testing.T) {
	assert.Equal(t, 0.0, Cosine(Embed(""), Embed("anything")))
}

func TestCosine_MismatchedLengths(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float64{1, 2}, []float64{1, 2, 3}))
}

func TestIndex_SearchFindsExactMatch(t *testing.T) {
	ix := NewIndex(nil)
	ix.Upsert("doc-1", "the quick brown fox")
	ix.Upsert("doc-2", "zzzzzzzzzzzzzzzzzzz")

	matches := ix.Search("the quick brown fox", 1)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-1", matches[0].DocID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestIndex_SearchRanksAndLimits(t *testing.T) {
	ix := NewIndex(nil)
	ix.Upsert("doc-1", "alpha beta gamma")
	ix.Upsert("doc-2", "alpha beta delta")
	ix.Upsert("doc-3", "zzzzzzzzzzzzzzzz")

	matches := ix.Search("alpha beta gamma", 2)
	require.Len(t, matches, 2)
	assert.Equal(t, "doc-1", matches[0].DocID)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}

func TestIndex_SearchEmptyIndex(t *testing.T) {
	ix := NewIndex(nil)
	assert.Nil(t, ix.Search("anything", 3))
}

func TestIndex_RemoveAndLen(t *testing.T) {
	ix := NewIndex(nil)
	ix.Upsert("doc-1", "alpha")
	ix.Upsert("doc-2", "beta")
	assert.Equal(t, 2, ix.Len())

	ix.Remove("doc-1")
	assert.Equal(t, 1, ix.Len())

	matches := ix.Search("alpha", 1)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-2", matches[0].DocID)
}

func TestIndex_RebuildFromStore(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "vector.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	require.NoError(t, st.SaveDocument(ctx, &store.Document{
		ID: "doc-1", Title: "notes", Content: "meeting notes from monday",
		UploadedBy: "alice", CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, st.SaveDocument(ctx, &store.Document{
		ID: "doc-2", Title: "recipe", Content: "pancake recipe with syrup",
		UploadedBy: "bob", CreatedAt: time.Now().UTC(),
	}))

	ix := NewIndex(nil)
	require.NoError(t, ix.Rebuild(ctx, st))
	assert.Equal(t, 2, ix.Len())

	matches := ix.Search("meeting notes from monday", 1)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-1", matches[0].DocID)
}
