// ABOUTME: Placeholder text embeddings and cosine similarity
// ABOUTME: Deterministic character-ordinal vectors stand in for a real model

package vector

import "math"

// Dimensions is the fixed width of every embedding vector.
const Dimensions = 50

// Embed maps text to a fixed-width vector using character ordinals: the
// code point of each of the first Dimensions characters, zero-padded. It is
// deterministic and dependency-free, a stand-in until a real embedding model
// is wired up. TODO: swap for a hosted embedding API once one is chosen.
func Embed(text string) []float64 {
	vec := make([]float64, Dimensions)
	for i, r := range text {
		if i >= Dimensions {
			break
		}
		vec[i] = float64(r)
	}
	return vec
}

// Cosine returns the cosine similarity of two equal-length vectors, in
// [-1, 1]. A zero vector on either side yields 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
