package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoPipeline indicates that no pipeline was provided.
	ErrNoPipeline = errors.New("pipeline is required")

	// ErrNoReindexService indicates reindexing is not wired into this session.
	ErrNoReindexService = errors.New("reindex is not available")
)
