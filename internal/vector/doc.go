// Package vector provides the document similarity index behind document
// chat. Embeddings are deterministic character-ordinal placeholders, so
// "similarity" is crude; the index exists to give document chat a retrieval
// step with a stable interface while the embedding scheme is swappable.
package vector
