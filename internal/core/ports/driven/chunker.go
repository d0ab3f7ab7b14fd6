package driven

// Chunker splits a document's text into an ordered sequence of non-empty,
// possibly overlapping spans. Empty text yields no spans.
type Chunker interface {
	Chunk(text string) []string
}
