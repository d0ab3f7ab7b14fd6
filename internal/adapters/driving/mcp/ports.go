package mcp

import (
	"github.com/cbyc/lexora/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Pipeline serves the search and ask tools.
	Pipeline driving.Pipeline

	// Reindex serves the reindex tool and the sync-state resource.
	// Optional; without it those are not registered.
	Reindex driving.ReindexService

	// Feeds serves the feed_posts tool. Optional.
	Feeds driving.FeedService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipeline
	}
	return nil
}
