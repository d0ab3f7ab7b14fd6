package domain

import "errors"

// Domain errors represent pipeline failures callers can test with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLengthMismatch indicates chunks and embeddings of different lengths.
	ErrLengthMismatch = errors.New("chunks and embeddings length mismatch")

	// ErrDimensionMismatch indicates a vector whose size differs from the collection's.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrUnknownBackend indicates an unsupported storage or provider name in configuration.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	// Ask is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store backend cannot be reached.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrSourceUnavailable indicates a document source (notes directory,
	// browser profile) does not exist or cannot be read.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrDuplicateFeed indicates a feed URL that is already subscribed.
	ErrDuplicateFeed = errors.New("feed URL already exists")

	// ErrInvalidFeed indicates a URL that does not serve a parsable RSS or Atom feed.
	ErrInvalidFeed = errors.New("not a valid RSS/Atom feed")
)
