// Package vectormath holds the brute-force similarity search shared by the
// in-process vector stores.
package vectormath

import (
	"math"
	"sort"

	"github.com/cbyc/lexora/internal/core/domain"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// Zero vectors and vectors of different length have similarity 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Candidate is a stored chunk with its vector.
type Candidate struct {
	Chunk  domain.Chunk
	Vector []float32
}

// Rank scores candidates against query and returns at most topK chunks
// with Score >= threshold, highest first. Ties keep candidate order.
func Rank(query []float32, candidates []Candidate, topK int, threshold float64) []domain.Chunk {
	if topK <= 0 {
		return []domain.Chunk{}
	}

	scored := make([]domain.Chunk, 0, len(candidates))
	for _, c := range candidates {
		score := CosineSimilarity(query, c.Vector)
		if score < threshold {
			continue
		}
		chunk := c.Chunk
		chunk.Score = score
		scored = append(scored, chunk)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
