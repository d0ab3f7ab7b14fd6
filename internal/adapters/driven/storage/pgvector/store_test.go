package pgvector

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbyc/lexora/internal/core/domain"
)

func TestNewWithDB_Validation(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		dims       int
	}{
		{"empty collection", "", 3},
		{"injection attempt", "x; DROP TABLE y", 3},
		{"leading digit", "1abc", 3},
		{"zero dimensions", "lexora", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithDB(&sql.DB{}, tt.collection, tt.dims)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestStore_TableNames(t *testing.T) {
	s, err := NewWithDB(&sql.DB{}, "notes_v2", 3)
	require.NoError(t, err)

	assert.Equal(t, `"lexora_notes_v2"`, s.table())
	assert.Equal(t, `"lexora_notes_v2_embedding"`, s.index("embedding"))
}

func TestNew_RequiresDSN(t *testing.T) {
	_, err := New(context.Background(), Config{Collection: "lexora", Dimensions: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_ValidatesBeforeQuerying(t *testing.T) {
	s, err := NewWithDB(&sql.DB{}, "lexora", 3)
	require.NoError(t, err)
	ctx := context.Background()

	err = s.AddChunks(ctx, []domain.Chunk{{Text: "a"}}, nil)
	assert.ErrorIs(t, err, domain.ErrLengthMismatch)

	err = s.AddChunks(ctx, []domain.Chunk{{Text: "a"}}, [][]float32{{1, 0}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = s.Search(ctx, []float32{1}, 5, 0)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

// The remaining tests need a PostgreSQL server with the vector extension.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("LEXORA_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("LEXORA_TEST_PG_DSN not set")
	}

	s, err := New(context.Background(), Config{DSN: dsn, Collection: "lexora_test", Dimensions: 3})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.DeleteCollection(context.Background())
		_ = s.Close()
	})
	require.NoError(t, s.DeleteCollection(context.Background()))
	require.NoError(t, s.EnsureCollection(context.Background()))
	return s
}

func TestStore_Integration(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureCollection(ctx))

	hits, err := s.Search(ctx, []float32{1, 0, 0}, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	chunks := []domain.Chunk{
		{Text: "first", Source: "doc1.txt", ChunkIndex: 0},
		{Text: "second", Source: "doc2.txt", ChunkIndex: 0},
	}
	vecs := [][]float32{{1, 0, 0}, {0, 1, 0}}
	require.NoError(t, s.AddChunks(ctx, chunks, vecs))
	require.NoError(t, s.AddChunks(ctx, chunks, vecs))

	hits, err = s.Search(ctx, []float32{0.9, 0.1, 0}, 1, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc1.txt", hits[0].Source)

	require.NoError(t, s.AddChunks(ctx, []domain.Chunk{{Text: "changed", Source: "doc1.txt"}}, [][]float32{{1, 0, 0}}))
	hits, err = s.Search(ctx, []float32{1, 0, 0}, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "changed", hits[0].Text)
}
