package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cbyc/lexora/internal/adapters/driven/storage/vectormath"
	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore implements driven.VectorStore on the chunks table.
// Search loads the collection's vectors and ranks them in process.
type VectorStore struct {
	store      *Store
	collection string
	dimensions int
}

// EnsureCollection registers the collection if absent. When the collection
// already exists with a different dimensionality, ErrDimensionMismatch is returned.
func (v *VectorStore) EnsureCollection(ctx context.Context) error {
	_, err := v.store.db.ExecContext(ctx, `
		INSERT INTO collections (name, dimensions) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, v.collection, v.dimensions)
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	stored, err := v.collectionDimensions(ctx, v.store.db)
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	if v.dimensions > 0 && stored > 0 && stored != v.dimensions {
		return fmt.Errorf("creating collection %q: %w: stored %d, configured %d",
			v.collection, domain.ErrDimensionMismatch, stored, v.dimensions)
	}
	return nil
}

// AddChunks upserts the batch in a single transaction.
// A chunk whose (source, chunk_index) already holds different text replaces that record.
func (v *VectorStore) AddChunks(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("upserting chunks: %w: %d chunks, %d embeddings",
			domain.ErrLengthMismatch, len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	dims, err := v.collectionDimensions(ctx, tx)
	if err != nil {
		return fmt.Errorf("upserting chunks: %w", err)
	}
	for _, vec := range embeddings {
		if dims > 0 && len(vec) != dims {
			return fmt.Errorf("upserting chunks: %w: got %d, want %d", domain.ErrDimensionMismatch, len(vec), dims)
		}
	}

	evict, err := tx.PrepareContext(ctx, `
		DELETE FROM chunks
		WHERE collection = ? AND source = ? AND chunk_index = ? AND id <> ?
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer evict.Close()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (collection, id, source, chunk_index, text, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			source = excluded.source,
			chunk_index = excluded.chunk_index,
			text = excluded.text,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer upsert.Close()

	for i, chunk := range chunks {
		id := chunk.ID()
		if _, err := evict.ExecContext(ctx, v.collection, chunk.Source, chunk.ChunkIndex, id); err != nil {
			return fmt.Errorf("replacing chunk: %w", err)
		}
		if _, err := upsert.ExecContext(ctx, v.collection, id, chunk.Source, chunk.ChunkIndex,
			chunk.Text, float32SliceToBytes(embeddings[i])); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search ranks every chunk in the collection by cosine similarity.
func (v *VectorStore) Search(ctx context.Context, query []float32, topK int, scoreThreshold float64) ([]domain.Chunk, error) {
	dims, err := v.collectionDimensions(ctx, v.store.db)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	if dims > 0 && len(query) != dims {
		return nil, fmt.Errorf("searching chunks: %w: got %d, want %d", domain.ErrDimensionMismatch, len(query), dims)
	}

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT source, chunk_index, text, embedding
		FROM chunks WHERE collection = ?
		ORDER BY source, chunk_index
	`, v.collection)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var candidates []vectormath.Candidate
	for rows.Next() {
		var (
			c    domain.Chunk
			blob []byte
		)
		if err := rows.Scan(&c.Source, &c.ChunkIndex, &c.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		candidates = append(candidates, vectormath.Candidate{Chunk: c, Vector: bytesToFloat32Slice(blob)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return vectormath.Rank(query, candidates, topK, scoreThreshold), nil
}

// DeleteCollection removes the collection and its chunks.
func (v *VectorStore) DeleteCollection(ctx context.Context) error {
	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE collection = ?", v.collection); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", v.collection); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Count returns the number of records in the collection.
func (v *VectorStore) Count(ctx context.Context) (int, error) {
	var n int
	err := v.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE collection = ?", v.collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Close is a no-op; the owning Store closes the database.
func (v *VectorStore) Close() error {
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// collectionDimensions returns the stored dimensionality, or ErrNotFound
// when the collection has not been created.
func (v *VectorStore) collectionDimensions(ctx context.Context, q queryRower) (int, error) {
	var dims int
	err := q.QueryRowContext(ctx, "SELECT dimensions FROM collections WHERE name = ?", v.collection).Scan(&dims)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("collection %q: %w", v.collection, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("reading collection: %w", err)
	}
	return dims, nil
}
