package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSearchOptions(t *testing.T) {
	opts := DefaultSearchOptions()

	assert.Equal(t, 5, opts.TopK)
	assert.Equal(t, 0.0, opts.ScoreThreshold)
}

func TestSearchOptions_WithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   SearchOptions
		want SearchOptions
	}{
		{"zero", SearchOptions{}, SearchOptions{TopK: 5}},
		{"negative", SearchOptions{TopK: -1, ScoreThreshold: 0.3}, SearchOptions{TopK: 5, ScoreThreshold: 0.3}},
		{"explicit", SearchOptions{TopK: 2, ScoreThreshold: 0.5}, SearchOptions{TopK: 2, ScoreThreshold: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.WithDefaults())
		})
	}
}
