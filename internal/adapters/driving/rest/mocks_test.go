package rest

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driving"
)

type mockPipeline struct {
	chunks []domain.Chunk
	answer *domain.AskResponse
	err    error

	defaultCalls int
	lastOpts     *domain.SearchOptions
	lastQuery    string
	defaults     domain.SearchOptions
}

func (m *mockPipeline) AddDocs(context.Context, []domain.Document) error { return m.err }

func (m *mockPipeline) SearchDocumentStore(_ context.Context, query string) ([]domain.Chunk, error) {
	m.defaultCalls++
	m.lastQuery = query
	return m.chunks, m.err
}

func (m *mockPipeline) Defaults() domain.SearchOptions { return m.defaults }

func (m *mockPipeline) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.Chunk, error) {
	m.lastQuery = query
	m.lastOpts = &opts
	return m.chunks, m.err
}

func (m *mockPipeline) Ask(_ context.Context, question string) (*domain.AskResponse, error) {
	m.lastQuery = question
	return m.answer, m.err
}

func (m *mockPipeline) ResetIndex(context.Context) error { return m.err }

type mockReindex struct {
	result  *driving.ReindexResult
	perKind int
	states  []domain.SyncState
	err     error
}

func (m *mockReindex) Reindex(context.Context) (*driving.ReindexResult, error) {
	return m.result, m.err
}

func (m *mockReindex) ReindexSource(_ context.Context, kind domain.SourceKind) (int, error) {
	if !kind.IsValid() {
		return 0, domain.ErrNotFound
	}
	return m.perKind, m.err
}

func (m *mockReindex) Cursors(context.Context) ([]domain.SyncState, error) {
	return m.states, m.err
}

func (m *mockReindex) ResetCursor(context.Context, domain.SourceKind) error { return m.err }

type mockFeeds struct {
	result    *driving.FeedResult
	feed      *domain.Feed
	err       error
	lastQuery driving.PostsQuery
	lastName  string
	lastURL   string
}

func (m *mockFeeds) Posts(_ context.Context, q driving.PostsQuery) (*driving.FeedResult, error) {
	m.lastQuery = q
	return m.result, m.err
}

func (m *mockFeeds) Feeds(context.Context) ([]domain.Feed, error) { return nil, m.err }

func (m *mockFeeds) AddFeed(_ context.Context, name, url string) (*domain.Feed, error) {
	m.lastName, m.lastURL = name, url
	return m.feed, m.err
}
