// Package pgvector provides a PostgreSQL + pgvector implementation of driven.VectorStore.
//
// Each collection is a table named lexora_<collection> with a vector(N)
// column and an HNSW cosine index. Similarity is reported as
// 1 - cosine distance.
package pgvector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/pgvector/pgvector-go"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// pgUndefinedTable is the SQLSTATE for a missing relation.
const pgUndefinedTable = "42P01"

var collectionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Config holds connection settings.
type Config struct {
	// DSN is a PostgreSQL connection string.
	DSN string

	// Collection names the table suffix.
	Collection string

	// Dimensions is the vector size; required.
	Dimensions int
}

// Store implements driven.VectorStore on PostgreSQL.
type Store struct {
	db         *sql.DB
	collection string
	dimensions int
	ownsDB     bool
}

// New opens a connection pool and verifies it with a ping.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pgvector dsn: %w", domain.ErrInvalidInput)
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w: %w", domain.ErrVectorStoreUnavailable, err)
	}

	s, err := NewWithDB(db, cfg.Collection, cfg.Dimensions)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// NewWithDB wraps an existing pool. The caller keeps ownership of db.
func NewWithDB(db *sql.DB, collection string, dimensions int) (*Store, error) {
	if !collectionName.MatchString(collection) {
		return nil, fmt.Errorf("collection name %q: %w", collection, domain.ErrInvalidInput)
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("pgvector dimensions %d: %w", dimensions, domain.ErrInvalidInput)
	}
	return &Store{db: db, collection: collection, dimensions: dimensions}, nil
}

// table returns the quoted table name for the collection.
func (s *Store) table() string {
	return pgx.Identifier{"lexora_" + s.collection}.Sanitize()
}

func (s *Store) index(suffix string) string {
	return pgx.Identifier{"lexora_" + s.collection + "_" + suffix}.Sanitize()
}

// EnsureCollection creates the extension, table and indexes if absent.
func (s *Store) EnsureCollection(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			source TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			text TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, s.table(), s.dimensions),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (source, chunk_index)`, s.index("position"), s.table()),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s USING hnsw (embedding vector_cosine_ops)`,
			s.index("embedding"), s.table()),
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
	}
	return nil
}

// AddChunks upserts the batch in one transaction.
func (s *Store) AddChunks(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("upsert chunks: %w: %d chunks, %d embeddings",
			domain.ErrLengthMismatch, len(chunks), len(embeddings))
	}
	for _, vec := range embeddings {
		if len(vec) != s.dimensions {
			return fmt.Errorf("upsert chunks: %w: got %d, want %d", domain.ErrDimensionMismatch, len(vec), s.dimensions)
		}
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	evict := fmt.Sprintf(`DELETE FROM %s WHERE source = $1 AND chunk_index = $2 AND id <> $3`, s.table())
	upsert := fmt.Sprintf(`
		INSERT INTO %s (id, source, chunk_index, text, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			chunk_index = EXCLUDED.chunk_index,
			text = EXCLUDED.text,
			embedding = EXCLUDED.embedding`, s.table())

	for i, chunk := range chunks {
		id := chunk.ID()
		if _, err := tx.ExecContext(ctx, evict, chunk.Source, chunk.ChunkIndex, id); err != nil {
			return s.wrap("replace chunk", err)
		}
		if _, err := tx.ExecContext(ctx, upsert, id, chunk.Source, chunk.ChunkIndex, chunk.Text,
			pgvector.NewVector(embeddings[i])); err != nil {
			return s.wrap("upsert chunk", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Search uses the HNSW index ordered by cosine distance.
func (s *Store) Search(ctx context.Context, query []float32, topK int, scoreThreshold float64) ([]domain.Chunk, error) {
	if len(query) != s.dimensions {
		return nil, fmt.Errorf("search chunks: %w: got %d, want %d", domain.ErrDimensionMismatch, len(query), s.dimensions)
	}
	if topK <= 0 {
		return []domain.Chunk{}, nil
	}

	q := fmt.Sprintf(`
		SELECT source, chunk_index, text, 1 - (embedding <=> $1) AS score
		FROM %s
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3`, s.table())

	rows, err := s.db.QueryContext(ctx, q, pgvector.NewVector(query), scoreThreshold, topK)
	if err != nil {
		return nil, s.wrap("search chunks", err)
	}
	defer rows.Close()

	results := make([]domain.Chunk, 0, topK)
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.Source, &c.ChunkIndex, &c.Text, &c.Score); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return results, nil
}

// DeleteCollection drops the collection table.
func (s *Store) DeleteCollection(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, s.table())); err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	return nil
}

// Close closes the pool when the store opened it.
func (s *Store) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

// wrap marks a missing table as domain.ErrNotFound, keeping the driver error.
func (s *Store) wrap(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%s: collection %q: %w: %w", op, s.collection, domain.ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
