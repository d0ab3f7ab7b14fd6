package driven

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
)

// AskAgent turns a question and retrieved chunks into a grounded answer.
// It owns the refusal policy: when the chunks do not answer the question
// it returns domain.NotFoundText with no sources.
type AskAgent interface {
	Answer(ctx context.Context, question string, chunks []domain.Chunk) (*domain.AskResponse, error)
}
