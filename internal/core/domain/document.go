package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Document is a unit of source text prior to chunking.
// Loaders produce documents; they live only for the duration of a reindex.
type Document struct {
	// Content is the full text of the document.
	Content string `json:"content" yaml:"content"`

	// Source identifies where the content came from (file path or URL).
	// It is carried through to every chunk derived from the document.
	Source string `json:"source" yaml:"source"`
}

// Chunk is a bounded span of a Document's content.
// Chunks of one document have ChunkIndex values 0..n-1 in text order.
type Chunk struct {
	// Text is the chunk content.
	Text string `json:"text" yaml:"text"`

	// Source is the owning document's source.
	Source string `json:"source" yaml:"source"`

	// ChunkIndex is the zero-based position within the document.
	ChunkIndex int `json:"chunk_index" yaml:"chunk_index"`

	// Score is the cosine similarity to the query when the chunk was
	// returned by a search. Zero for chunks being ingested.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// ID returns the deterministic record identifier of the chunk.
// Identical (source, chunk_index, text) triples always map to the same ID,
// so re-ingesting unchanged content overwrites the existing record.
func (c Chunk) ID() string {
	name := fmt.Sprintf("%s:%d:%s", c.Source, c.ChunkIndex, c.Text)
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(name)).String()
}
