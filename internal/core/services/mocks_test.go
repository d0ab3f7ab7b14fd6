package services

import (
	"context"
	"errors"
	"sync"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// fixedChunker returns the same spans for every non-empty text.
type fixedChunker struct {
	spans []string
}

func (c *fixedChunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}
	return c.spans
}

// splitChunker turns every word into a chunk.
type splitChunker struct{}

func (splitChunker) Chunk(text string) []string {
	var out []string
	word := ""
	for _, r := range text {
		if r == ' ' {
			if word != "" {
				out = append(out, word)
			}
			word = ""
			continue
		}
		word += string(r)
	}
	if word != "" {
		out = append(out, word)
	}
	return out
}

// tableEmbedder maps known texts to fixed vectors.
type tableEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	failOn  string
	calls   []string
}

func (e *tableEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, text)
	if text == e.failOn {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func (e *tableEmbedder) Dimensions() int { return 3 }

func (e *tableEmbedder) ModelName() string { return "table" }

func (e *tableEmbedder) Ping(context.Context) error { return nil }

func (e *tableEmbedder) Close() error { return nil }

// recordingStore captures AddChunks batches.
type recordingStore struct {
	batches [][]domain.Chunk
	vectors [][][]float32
	results []domain.Chunk
	err     error
}

func (s *recordingStore) EnsureCollection(context.Context) error { return nil }

func (s *recordingStore) AddChunks(_ context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, chunks)
	s.vectors = append(s.vectors, embeddings)
	return nil
}

func (s *recordingStore) Search(_ context.Context, _ []float32, topK int, _ float64) ([]domain.Chunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) > topK {
		return s.results[:topK], nil
	}
	return s.results, nil
}

func (s *recordingStore) DeleteCollection(context.Context) error { return nil }

func (s *recordingStore) Close() error { return nil }

type mockAgent struct {
	question string
	chunks   []domain.Chunk
	resp     *domain.AskResponse
	err      error
}

func (a *mockAgent) Answer(_ context.Context, question string, chunks []domain.Chunk) (*domain.AskResponse, error) {
	a.question = question
	a.chunks = chunks
	return a.resp, a.err
}

// item is one timestamped entry of a fakeSource.
type item struct {
	ts      int64
	content string
	source  string
}

// fakeSource selects items strictly newer than the cursor and reports the
// maximum selected timestamp.
type fakeSource struct {
	kind    domain.SourceKind
	items   []item
	err     error
	fetches []driven.Cursor
}

func (s *fakeSource) Kind() domain.SourceKind { return s.kind }

func (s *fakeSource) Fetch(_ context.Context, since driven.Cursor) (*driven.FetchResult, error) {
	s.fetches = append(s.fetches, since)
	if s.err != nil {
		return nil, s.err
	}
	res := &driven.FetchResult{}
	for _, it := range s.items {
		if since.Valid && it.ts <= since.Value {
			continue
		}
		res.Selected++
		if it.ts > res.Cursor {
			res.Cursor = it.ts
		}
		res.Documents = append(res.Documents, domain.Document{Content: it.content, Source: it.source})
	}
	return res, nil
}

// failingSyncStore fails every operation.
type failingSyncStore struct{}

var errStoreDown = errors.New("store down")

func (failingSyncStore) Save(context.Context, domain.SyncState) error { return errStoreDown }

func (failingSyncStore) Get(context.Context, domain.SourceKind) (*domain.SyncState, error) {
	return nil, errStoreDown
}

func (failingSyncStore) Delete(context.Context, domain.SourceKind) error { return errStoreDown }

// memFeedStore is an in-memory driven.FeedStore.
type memFeedStore struct {
	mu      sync.Mutex
	feeds   []domain.Feed
	loadErr error
}

func (s *memFeedStore) Load(context.Context) ([]domain.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]domain.Feed(nil), s.feeds...), nil
}

func (s *memFeedStore) Add(_ context.Context, feed domain.Feed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feeds {
		if f.URL == feed.URL {
			return domain.ErrDuplicateFeed
		}
	}
	s.feeds = append(s.feeds, feed)
	return nil
}

// stubFetcher serves canned posts per URL. A URL listed in block waits for
// its context to end.
type stubFetcher struct {
	mu       sync.Mutex
	posts    map[string][]domain.Post
	errs     map[string]error
	block    map[string]bool
	maxPosts []int
	urls     []string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string, maxPosts int) ([]domain.Post, error) {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.maxPosts = append(f.maxPosts, maxPosts)
	blocked := f.block[url]
	err := f.errs[url]
	posts := append([]domain.Post(nil), f.posts[url]...)
	f.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if len(posts) > maxPosts {
		posts = posts[:maxPosts]
	}
	return posts, nil
}

var _ driven.FeedStore = (*memFeedStore)(nil)
var _ driven.FeedFetcher = (*stubFetcher)(nil)
var errFeedDown = errors.New("connection refused")
