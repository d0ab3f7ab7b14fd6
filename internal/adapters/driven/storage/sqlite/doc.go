// Package sqlite provides SQLite-backed implementations of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two interfaces
// through a single database connection:
//
//   - VectorStore: Chunk records with float32 embeddings, brute-force cosine search
//   - SyncStateStore: Incremental-ingestion cursors per source kind
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory, named NNN_description.up.sql.
//
// # Data Location
//
// By default, the database is stored at ~/.lexora/data/lexora.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. Each AddChunks call runs in one transaction.
package sqlite
