package mcp

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driving"
)

// mockPipeline is a mock implementation of driving.Pipeline.
type mockPipeline struct {
	chunks   []domain.Chunk
	answer   *domain.AskResponse
	err      error
	lastOpts domain.SearchOptions
	defaults domain.SearchOptions
}

func (m *mockPipeline) AddDocs(_ context.Context, _ []domain.Document) error {
	return m.err
}

func (m *mockPipeline) SearchDocumentStore(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockPipeline) Defaults() domain.SearchOptions {
	return m.defaults
}

func (m *mockPipeline) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.Chunk, error) {
	m.lastOpts = opts
	return m.chunks, m.err
}

func (m *mockPipeline) Ask(_ context.Context, _ string) (*domain.AskResponse, error) {
	return m.answer, m.err
}

func (m *mockPipeline) ResetIndex(_ context.Context) error {
	return m.err
}

// mockReindex is a mock implementation of driving.ReindexService.
type mockReindex struct {
	result   *driving.ReindexResult
	perKind  int
	states   []domain.SyncState
	err      error
	lastKind domain.SourceKind
}

func (m *mockReindex) Reindex(_ context.Context) (*driving.ReindexResult, error) {
	return m.result, m.err
}

func (m *mockReindex) ReindexSource(_ context.Context, kind domain.SourceKind) (int, error) {
	m.lastKind = kind
	return m.perKind, m.err
}

func (m *mockReindex) Cursors(_ context.Context) ([]domain.SyncState, error) {
	return m.states, m.err
}

func (m *mockReindex) ResetCursor(_ context.Context, _ domain.SourceKind) error {
	return m.err
}

// mockFeeds is a mock implementation of driving.FeedService.
type mockFeeds struct {
	result    *driving.FeedResult
	err       error
	lastQuery driving.PostsQuery
}

func (m *mockFeeds) Posts(_ context.Context, q driving.PostsQuery) (*driving.FeedResult, error) {
	m.lastQuery = q
	return m.result, m.err
}

func (m *mockFeeds) Feeds(context.Context) ([]domain.Feed, error) { return nil, m.err }

func (m *mockFeeds) AddFeed(context.Context, string, string) (*domain.Feed, error) { return nil, m.err }
