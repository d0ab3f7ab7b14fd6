// Package chunker provides a boundary-seeking text chunker.
//
// Chunks are at most chunkSize runes long. Within the last fifth of each
// chunk the chunker looks for a sentence end or paragraph break, then for
// a space, and only splits mid-word when neither exists.
package chunker

import (
	"regexp"
	"unicode/utf8"

	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// boundaryWindowDivisor sets the boundary search window to chunkSize/5.
const boundaryWindowDivisor = 5

// sentenceBoundary matches a sentence terminator followed by whitespace,
// or a blank line.
var sentenceBoundary = regexp.MustCompile(`[.!?]\s|\n\n`)

// Verify interface compliance.
var _ driven.Chunker = (*Processor)(nil)

// Processor splits text into overlapping, boundary-aligned chunks.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
// An overlap at or above the chunk size is accepted; chunks then
// stop overlapping.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ChunkSize returns the configured maximum chunk length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Chunk splits text into an ordered sequence of non-empty spans.
func (p *Processor) Chunk(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	if n <= p.chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, n/p.chunkSize+1)
	start := 0

	for start < n {
		end := start + p.chunkSize
		if end >= n {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		end = p.snap(runes, start, end)
		chunks = append(chunks, string(runes[start:end]))

		next := max(end-p.overlap, 0)
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// snap moves end back to the last sentence boundary or space inside the
// boundary window. It returns end unchanged when the window has neither.
func (p *Processor) snap(runes []rune, start, end int) int {
	searchStart := max(end-p.chunkSize/boundaryWindowDivisor, start)
	if searchStart >= end {
		return end
	}

	window := string(runes[searchStart:end])

	if matches := sentenceBoundary.FindAllStringIndex(window, -1); len(matches) > 0 {
		last := matches[len(matches)-1]
		return searchStart + utf8.RuneCountInString(window[:last[1]])
	}

	for i := end - 1; i >= searchStart; i-- {
		if runes[i] == ' ' && i > start {
			return i + 1
		}
	}

	return end
}
