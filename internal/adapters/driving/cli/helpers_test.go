package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cbyc/lexora/internal/config"
	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driving"
)

// mockPipeline is a mock implementation of driving.Pipeline.
type mockPipeline struct {
	chunks       []domain.Chunk
	answer       *domain.AskResponse
	err          error
	lastQuery    string
	lastOpts     *domain.SearchOptions
	resetCalls   int
	defaultCalls int
	defaults     domain.SearchOptions
}

func (m *mockPipeline) AddDocs(_ context.Context, _ []domain.Document) error {
	return m.err
}

func (m *mockPipeline) SearchDocumentStore(_ context.Context, query string) ([]domain.Chunk, error) {
	m.lastQuery = query
	m.defaultCalls++
	return m.chunks, m.err
}

func (m *mockPipeline) Defaults() domain.SearchOptions {
	return m.defaults
}

func (m *mockPipeline) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.Chunk, error) {
	m.lastQuery = query
	m.lastOpts = &opts
	return m.chunks, m.err
}

func (m *mockPipeline) Ask(_ context.Context, question string) (*domain.AskResponse, error) {
	m.lastQuery = question
	return m.answer, m.err
}

func (m *mockPipeline) ResetIndex(_ context.Context) error {
	m.resetCalls++
	return m.err
}

// mockReindex is a mock implementation of driving.ReindexService.
type mockReindex struct {
	result     *driving.ReindexResult
	perKind    int
	states     []domain.SyncState
	err        error
	kinds      []domain.SourceKind
	resetKinds []domain.SourceKind
}

func (m *mockReindex) Reindex(_ context.Context) (*driving.ReindexResult, error) {
	return m.result, m.err
}

func (m *mockReindex) ReindexSource(_ context.Context, kind domain.SourceKind) (int, error) {
	m.kinds = append(m.kinds, kind)
	return m.perKind, m.err
}

func (m *mockReindex) Cursors(_ context.Context) ([]domain.SyncState, error) {
	return m.states, m.err
}

func (m *mockReindex) ResetCursor(_ context.Context, kind domain.SourceKind) error {
	m.resetKinds = append(m.resetKinds, kind)
	return m.err
}

// setupTestServices injects mocks and a default config, restoring globals on cleanup.
func setupTestServices(t *testing.T, p *mockPipeline, r *mockReindex) {
	t.Helper()

	appConfig = config.Default()
	appConfig.Notes.Dir = t.TempDir()
	pipeline = p
	if r != nil {
		reindexService = r
	}

	t.Cleanup(func() {
		appConfig = nil
		pipeline = nil
		reindexService = nil
		feedService = nil
		resetFlags(rootCmd)
	})
}

// resetFlags restores every flag in the tree to its default value.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

// mockFeeds is a mock implementation of driving.FeedService.
type mockFeeds struct {
	feeds     []domain.Feed
	result    *driving.FeedResult
	err       error
	lastQuery driving.PostsQuery
	added     []domain.Feed
}

func (m *mockFeeds) Posts(_ context.Context, q driving.PostsQuery) (*driving.FeedResult, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockFeeds) Feeds(context.Context) ([]domain.Feed, error) {
	return m.feeds, m.err
}

func (m *mockFeeds) AddFeed(_ context.Context, name, url string) (*domain.Feed, error) {
	if m.err != nil {
		return nil, m.err
	}
	f := domain.Feed{Name: name, URL: url}
	m.added = append(m.added, f)
	return &f, nil
}
