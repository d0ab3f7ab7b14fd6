package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cbyc/lexora/internal/core/domain"
)

const (
	uriScheme = "lexora://"

	// SyncStateURI lists the stored sync cursors.
	SyncStateURI = uriScheme + "sync-state"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Reindex == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         SyncStateURI,
		Name:        "sync-state",
		Description: "Last sync cursor of each source kind",
		MIMEType:    "application/json",
	}, s.handleSyncStateResource)
}

func (s *Server) handleSyncStateResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	states, err := s.ports.Reindex.Cursors(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cursors: %w", err)
	}
	if states == nil {
		states = []domain.SyncState{}
	}

	data, err := json.Marshal(states)
	if err != nil {
		return nil, fmt.Errorf("marshalling cursors: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
