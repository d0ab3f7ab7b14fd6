// Package hashing provides a deterministic, offline embedding service based on
// signed feature hashing of lowercase word tokens.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// ModelName is reported for every hashing service.
const ModelName = "hashing"

// DefaultDimensions is used when no size is configured.
const DefaultDimensions = 256

// EmbeddingService maps each token to one of Dimensions buckets with a sign
// taken from the same hash, then L2-normalises the result. Texts sharing
// words therefore score a positive cosine similarity.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hashing embedder producing vectors of the given size.
func NewEmbeddingService(dimensions int) (*EmbeddingService, error) {
	if dimensions == 0 {
		dimensions = DefaultDimensions
	}
	if dimensions < 0 {
		return nil, fmt.Errorf("hashing dimensions %d: %w", dimensions, domain.ErrInvalidInput)
	}
	return &EmbeddingService{dimensions: dimensions}, nil
}

// Embed returns the hashed vector for text. Text without tokens yields a zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, s.dimensions)
	for _, tok := range tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()

		bucket := sum % uint64(s.dimensions)
		if sum>>63 == 1 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, s.dimensions)
	if norm == 0 {
		return out, nil
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns "hashing".
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
