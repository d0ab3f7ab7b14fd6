package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbyc/lexora/internal/core/domain"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleSyncStateResource(t *testing.T) {
	ctx := context.Background()

	t.Run("no cursors", func(t *testing.T) {
		server, err := NewServer(&Ports{Pipeline: &mockPipeline{}, Reindex: &mockReindex{}})
		require.NoError(t, err)

		result, err := server.handleSyncStateResource(ctx, makeReadResourceRequest(SyncStateURI))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
		assert.Equal(t, SyncStateURI, result.Contents[0].URI)
	})

	t.Run("lists cursors", func(t *testing.T) {
		reindex := &mockReindex{states: []domain.SyncState{{
			Kind:              domain.SourceKindNotes,
			LastSyncTimestamp: 1700000000,
			UpdatedAt:         time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		}}}
		server, err := NewServer(&Ports{Pipeline: &mockPipeline{}, Reindex: reindex})
		require.NoError(t, err)

		result, err := server.handleSyncStateResource(ctx, makeReadResourceRequest(SyncStateURI))
		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"kind":"notes"`)
		assert.Contains(t, result.Contents[0].Text, `"last_sync_timestamp":1700000000`)
	})

	t.Run("store failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Pipeline: &mockPipeline{}, Reindex: &mockReindex{err: errors.New("disk gone")}})
		require.NoError(t, err)

		_, err = server.handleSyncStateResource(ctx, makeReadResourceRequest(SyncStateURI))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing cursors")
	})
}
