package domain

// Search defaults applied when callers do not specify options.
const (
	DefaultTopK           = 5
	DefaultScoreThreshold = 0.0
)

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// TopK caps the number of returned chunks.
	TopK int

	// ScoreThreshold excludes chunks whose cosine similarity is lower.
	ScoreThreshold float64
}

// DefaultSearchOptions returns top_k=5 with no similarity cutoff.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		TopK:           DefaultTopK,
		ScoreThreshold: DefaultScoreThreshold,
	}
}

// WithDefaults fills a non-positive TopK with DefaultTopK.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	return o
}
