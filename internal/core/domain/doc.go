// Package domain defines the core entities of the lexora retrieval pipeline.
//
// This package is part of the hexagonal architecture's innermost layer
// and defines the fundamental types:
//
//   - Document: source text with provenance, produced by loaders
//   - Chunk: a bounded span of a Document, the unit that is embedded and stored
//   - AskResponse: a grounded answer with the sources it was drawn from
//   - SyncState: the incremental-ingestion cursor for one source kind
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/google/uuid
//   - Cannot Import: Any internal/ package
package domain
