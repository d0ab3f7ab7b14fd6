package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrLengthMismatch", ErrLengthMismatch},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrUnknownBackend", ErrUnknownBackend},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrVectorStoreUnavailable", ErrVectorStoreUnavailable},
		{"ErrSourceUnavailable", ErrSourceUnavailable},
		{"ErrDuplicateFeed", ErrDuplicateFeed},
		{"ErrInvalidFeed", ErrInvalidFeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("upsert points: %w", ErrLengthMismatch)

	assert.True(t, errors.Is(err, ErrLengthMismatch))
	assert.False(t, errors.Is(err, ErrNotFound))
}
