package search

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driving"
)

type mockPipeline struct {
	chunks       []domain.Chunk
	answer       *domain.AskResponse
	err          error
	lastQuery    string
	lastQuestion string
}

func (m *mockPipeline) AddDocs(_ context.Context, _ []domain.Document) error {
	return m.err
}

func (m *mockPipeline) SearchDocumentStore(_ context.Context, query string) ([]domain.Chunk, error) {
	m.lastQuery = query
	return m.chunks, m.err
}

func (m *mockPipeline) Defaults() domain.SearchOptions {
	return domain.DefaultSearchOptions()
}

func (m *mockPipeline) Search(_ context.Context, query string, _ domain.SearchOptions) ([]domain.Chunk, error) {
	m.lastQuery = query
	return m.chunks, m.err
}

func (m *mockPipeline) Ask(_ context.Context, question string) (*domain.AskResponse, error) {
	m.lastQuestion = question
	return m.answer, m.err
}

func (m *mockPipeline) ResetIndex(_ context.Context) error {
	return m.err
}

type mockReindex struct {
	result *driving.ReindexResult
	err    error
	calls  int
}

func (m *mockReindex) Reindex(_ context.Context) (*driving.ReindexResult, error) {
	m.calls++
	return m.result, m.err
}

func (m *mockReindex) ReindexSource(_ context.Context, _ domain.SourceKind) (int, error) {
	return 0, m.err
}

func (m *mockReindex) Cursors(_ context.Context) ([]domain.SyncState, error) {
	return nil, m.err
}

func (m *mockReindex) ResetCursor(_ context.Context, _ domain.SourceKind) error {
	return m.err
}
