// Package mcp exposes lexora's search, ask and reindex operations as Model
// Context Protocol tools so AI assistants can query the local index.
package mcp

import "errors"

// ErrMissingPipeline is returned when the pipeline is not provided.
var ErrMissingPipeline = errors.New("mcp: pipeline is required")
