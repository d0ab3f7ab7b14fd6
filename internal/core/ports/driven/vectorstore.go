package driven

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
)

// VectorStore owns one named collection in a vector-search backend.
//
// Records are keyed by domain.Chunk.ID, so upserting the same chunk twice
// leaves one record. Upserting a chunk whose text changed at an existing
// (source, chunk_index) replaces the record stored for that position.
//
// Backend errors are returned to the caller unchanged in kind; stores do not retry.
type VectorStore interface {
	// EnsureCollection creates the collection if absent. Idempotent;
	// never destroys existing data.
	EnsureCollection(ctx context.Context) error

	// AddChunks upserts chunks with their embeddings.
	// Returns domain.ErrLengthMismatch if the slices differ in length.
	AddChunks(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error

	// Search returns up to topK chunks ordered by descending cosine similarity,
	// excluding those below scoreThreshold. Each returned chunk carries its Score.
	// An empty collection yields an empty result, not an error.
	Search(ctx context.Context, query []float32, topK int, scoreThreshold float64) ([]domain.Chunk, error)

	// DeleteCollection irreversibly removes the collection and its records.
	DeleteCollection(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
