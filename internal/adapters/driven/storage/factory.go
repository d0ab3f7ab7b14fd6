// Package storage selects and opens the configured persistence backends.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbyc/lexora/internal/adapters/driven/storage/file"
	"github.com/cbyc/lexora/internal/adapters/driven/storage/memory"
	"github.com/cbyc/lexora/internal/adapters/driven/storage/pgvector"
	"github.com/cbyc/lexora/internal/adapters/driven/storage/qdrant"
	"github.com/cbyc/lexora/internal/adapters/driven/storage/sqlite"
	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// Vector store backend names.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPGVector = "pgvector"
	BackendQdrant   = "qdrant"
	BackendFile     = "file"
)

// Config selects the vector store and sync state backends.
type Config struct {
	// Backend is the vector store: memory, sqlite, pgvector or qdrant.
	Backend string

	// Collection is the vector collection name.
	Collection string

	// Dimensions is the embedding size of the collection.
	Dimensions int

	// Path is the sqlite data directory.
	Path string

	// DSN is the PostgreSQL connection string for pgvector.
	DSN string

	// URL and APIKey address a Qdrant server.
	URL    string
	APIKey string

	// SyncBackend stores cursors: file, sqlite or memory. Empty pairs a memory
	// vector store with memory cursors and anything else with files, so a
	// cursor never outlives the chunks it describes.
	SyncBackend string

	// SyncPaths maps each source kind to its cursor file for the file backend.
	SyncPaths map[domain.SourceKind]string
}

// Backends holds the opened stores. Close releases all of them.
type Backends struct {
	VectorStore    driven.VectorStore
	SyncStateStore driven.SyncStateStore

	closers []func() error
}

// Open creates the configured stores. The vector collection is not created
// here; callers run EnsureCollection once at startup.
func Open(ctx context.Context, cfg Config) (*Backends, error) {
	b := &Backends{}

	var sqliteStore *sqlite.Store
	openSQLite := func() (*sqlite.Store, error) {
		if sqliteStore != nil {
			return sqliteStore, nil
		}
		s, err := sqlite.NewStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		sqliteStore = s
		b.closers = append(b.closers, s.Close)
		return s, nil
	}

	switch cfg.Backend {
	case BackendMemory, "":
		b.VectorStore = memory.NewVectorStore(cfg.Collection, cfg.Dimensions)
	case BackendSQLite:
		s, err := openSQLite()
		if err != nil {
			return nil, err
		}
		b.VectorStore = s.VectorStore(cfg.Collection, cfg.Dimensions)
	case BackendPGVector:
		s, err := pgvector.New(ctx, pgvector.Config{DSN: cfg.DSN, Collection: cfg.Collection, Dimensions: cfg.Dimensions})
		if err != nil {
			return nil, fmt.Errorf("open pgvector store: %w", err)
		}
		b.VectorStore = s
		b.closers = append(b.closers, s.Close)
	case BackendQdrant:
		s, err := qdrant.New(qdrant.Config{URL: cfg.URL, APIKey: cfg.APIKey, Collection: cfg.Collection, Dimensions: cfg.Dimensions})
		if err != nil {
			return nil, fmt.Errorf("open qdrant store: %w", err)
		}
		b.VectorStore = s
		b.closers = append(b.closers, s.Close)
	default:
		return nil, fmt.Errorf("vector store %q: %w", cfg.Backend, domain.ErrUnknownBackend)
	}

	switch syncBackend(cfg) {
	case BackendFile:
		b.SyncStateStore = file.NewSyncStateStore(cfg.SyncPaths)
	case BackendSQLite:
		s, err := openSQLite()
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.SyncStateStore = s.SyncStateStore()
	case BackendMemory:
		b.SyncStateStore = memory.NewSyncStateStore()
	default:
		_ = b.Close()
		return nil, fmt.Errorf("sync state store %q: %w", cfg.SyncBackend, domain.ErrUnknownBackend)
	}

	return b, nil
}

func syncBackend(cfg Config) string {
	if cfg.SyncBackend != "" {
		return cfg.SyncBackend
	}
	if cfg.Backend == BackendMemory || cfg.Backend == "" {
		return BackendMemory
	}
	return BackendFile
}

// Close releases every opened backend.
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
