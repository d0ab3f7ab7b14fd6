// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Chunker: Splits document text into overlapping spans
//   - EmbeddingService: Turns text into a fixed-length vector
//   - VectorStore: Owns one collection in a vector-search backend
//   - SyncStateStore: Persists the incremental-ingestion cursor per source kind
//   - IncrementalSource: Produces documents newer than a cursor
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AskAgent: Answers a question from retrieved chunks. Without it, Ask is disabled.
//   - LLMService: Chat model used by the default AskAgent.
//   - PageFetcher: Downloads bookmarked pages. Without it, bookmarks are not ingested.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
