package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbyc/lexora/internal/adapters/driven/storage/vectormath"
	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type record struct {
	chunk  domain.Chunk
	vector []float32
}

// position identifies a chunk slot within a document.
type position struct {
	source string
	index  int
}

// VectorStore is an in-memory implementation of driven.VectorStore.
// Search is a brute-force cosine scan; suitable for tests and small corpora.
type VectorStore struct {
	mu         sync.RWMutex
	collection string
	dimensions int
	exists     bool
	records    map[string]record
	positions  map[position]string
	order      []string
}

// NewVectorStore creates an in-memory store for one collection.
// A positive dimensions value rejects vectors of any other size.
func NewVectorStore(collection string, dimensions int) *VectorStore {
	return &VectorStore{
		collection: collection,
		dimensions: dimensions,
	}
}

// EnsureCollection creates the collection if absent.
func (s *VectorStore) EnsureCollection(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exists {
		return nil
	}
	s.exists = true
	s.records = make(map[string]record)
	s.positions = make(map[position]string)
	s.order = nil
	return nil
}

// AddChunks upserts chunks keyed by their deterministic ID.
// The batch is validated before any record is written.
func (s *VectorStore) AddChunks(_ context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("upsert chunks: %w: %d chunks, %d embeddings", domain.ErrLengthMismatch, len(chunks), len(embeddings))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists {
		return fmt.Errorf("upsert chunks: collection %q: %w", s.collection, domain.ErrNotFound)
	}

	for _, vec := range embeddings {
		if err := s.checkDimensions(vec); err != nil {
			return fmt.Errorf("upsert chunks: %w", err)
		}
	}

	for i, chunk := range chunks {
		chunk.Score = 0
		id := chunk.ID()
		pos := position{source: chunk.Source, index: chunk.ChunkIndex}

		if prev, ok := s.positions[pos]; ok && prev != id {
			s.remove(prev)
		}
		if _, ok := s.records[id]; !ok {
			s.order = append(s.order, id)
		}

		vec := make([]float32, len(embeddings[i]))
		copy(vec, embeddings[i])
		s.records[id] = record{chunk: chunk, vector: vec}
		s.positions[pos] = id
	}

	return nil
}

// Search returns the topK most similar chunks with similarity >= scoreThreshold.
func (s *VectorStore) Search(_ context.Context, query []float32, topK int, scoreThreshold float64) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.exists {
		return nil, fmt.Errorf("search: collection %q: %w", s.collection, domain.ErrNotFound)
	}
	if err := s.checkDimensions(query); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	candidates := make([]vectormath.Candidate, 0, len(s.order))
	for _, id := range s.order {
		rec := s.records[id]
		candidates = append(candidates, vectormath.Candidate{Chunk: rec.chunk, Vector: rec.vector})
	}

	return vectormath.Rank(query, candidates, topK, scoreThreshold), nil
}

// DeleteCollection drops every record. Deleting a missing collection is a no-op.
func (s *VectorStore) DeleteCollection(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exists = false
	s.records = nil
	s.positions = nil
	s.order = nil
	return nil
}

// Count returns the number of stored records.
func (s *VectorStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}

func (s *VectorStore) checkDimensions(vec []float32) error {
	if s.dimensions > 0 && len(vec) != s.dimensions {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vec), s.dimensions)
	}
	return nil
}

// remove deletes a record; callers hold the write lock.
func (s *VectorStore) remove(id string) {
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
