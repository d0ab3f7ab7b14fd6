package driving

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
)

// Pipeline ties chunking, embedding, indexing and retrieval together.
type Pipeline interface {
	// AddDocs chunks, embeds and upserts each document in turn.
	// A failure stops the call; documents already upserted stay indexed.
	AddDocs(ctx context.Context, docs []domain.Document) error

	// SearchDocumentStore retrieves chunks for a query with the default options.
	SearchDocumentStore(ctx context.Context, query string) ([]domain.Chunk, error)

	// Defaults returns the options SearchDocumentStore applies.
	Defaults() domain.SearchOptions

	// Search retrieves chunks for a query with explicit options.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Chunk, error)

	// Ask retrieves chunks for a question and delegates to the ask agent.
	Ask(ctx context.Context, question string) (*domain.AskResponse, error)

	// ResetIndex drops every indexed chunk and recreates an empty collection.
	ResetIndex(ctx context.Context) error
}
