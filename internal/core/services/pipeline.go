package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/core/ports/driving"
	"github.com/cbyc/lexora/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

var tracer = otel.Tracer("github.com/cbyc/lexora/internal/core/services")

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithSearchDefaults sets the options used by SearchDocumentStore and Ask.
func WithSearchDefaults(opts domain.SearchOptions) PipelineOption {
	return func(p *Pipeline) { p.defaults = opts.WithDefaults() }
}

// WithEmbedConcurrency allows up to n embedding calls in flight for the chunks
// of one document. Values below 2 keep embedding sequential.
func WithEmbedConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		if n < 1 {
			n = 1
		}
		p.concurrency = n
	}
}

// Pipeline chunks, embeds and indexes documents and answers queries against
// the indexed chunks. It is built once at startup and shared by every driver.
type Pipeline struct {
	chunker     driven.Chunker
	embedder    driven.EmbeddingService
	store       driven.VectorStore
	agent       driven.AskAgent
	defaults    domain.SearchOptions
	concurrency int
}

// NewPipeline creates a pipeline. agent may be nil, in which case Ask fails
// with domain.ErrLLMUnavailable.
func NewPipeline(
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	agent driven.AskAgent,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		chunker:     chunker,
		embedder:    embedder,
		store:       store,
		agent:       agent,
		defaults:    domain.DefaultSearchOptions(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddDocs processes documents one at a time. Each document's chunks are
// upserted in a single AddChunks call. The first failure aborts the call;
// documents already upserted remain indexed.
func (p *Pipeline) AddDocs(ctx context.Context, docs []domain.Document) error {
	ctx, span := tracer.Start(ctx, "Pipeline.AddDocs", trace.WithAttributes(
		attribute.Int("documents", len(docs)),
	))
	defer span.End()

	total := 0
	for _, doc := range docs {
		n, err := p.addDoc(ctx, doc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("add document %s: %w", doc.Source, err)
		}
		total += n
	}

	span.SetAttributes(attribute.Int("chunks", total))
	logger.Debug("documents indexed", "documents", len(docs), "chunks", total)
	return nil
}

func (p *Pipeline) addDoc(ctx context.Context, doc domain.Document) (int, error) {
	texts := p.chunker.Chunk(doc.Content)
	if len(texts) == 0 {
		return 0, nil
	}

	embeddings, err := p.embedAll(ctx, texts)
	if err != nil {
		return 0, err
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{Text: text, Source: doc.Source, ChunkIndex: i}
	}

	if err := p.store.AddChunks(ctx, chunks, embeddings); err != nil {
		return 0, fmt.Errorf("add chunks: %w", err)
	}
	return len(chunks), nil
}

// embedAll returns one vector per text, in input order.
func (p *Pipeline) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))

	if p.concurrency <= 1 {
		for i, text := range texts {
			vec, err := p.embedder.Embed(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("embed chunk %d: %w", i, err)
			}
			embeddings[i] = vec
		}
		return embeddings, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, text := range texts {
		g.Go(func() error {
			vec, err := p.embedder.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", i, err)
			}
			embeddings[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}

// Defaults returns the configured search options.
func (p *Pipeline) Defaults() domain.SearchOptions {
	return p.defaults
}

// SearchDocumentStore retrieves chunks for query with the pipeline defaults.
func (p *Pipeline) SearchDocumentStore(ctx context.Context, query string) ([]domain.Chunk, error) {
	return p.Search(ctx, query, p.defaults)
}

// Search embeds query and returns the most similar chunks, best first.
func (p *Pipeline) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Chunk, error) {
	opts = opts.WithDefaults()

	ctx, span := tracer.Start(ctx, "Pipeline.Search", trace.WithAttributes(
		attribute.Int("top_k", opts.TopK),
		attribute.Float64("score_threshold", opts.ScoreThreshold),
	))
	defer span.End()

	vec, err := p.embedder.Embed(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := p.store.Search(ctx, vec, opts.TopK, opts.ScoreThreshold)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("search: %w", err)
	}

	span.SetAttributes(attribute.Int("results", len(chunks)))
	return chunks, nil
}

// Ask retrieves chunks for question and returns the agent's answer unmodified.
func (p *Pipeline) Ask(ctx context.Context, question string) (*domain.AskResponse, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.Ask")
	defer span.End()

	if p.agent == nil {
		return nil, fmt.Errorf("ask: no agent configured: %w", domain.ErrLLMUnavailable)
	}

	chunks, err := p.SearchDocumentStore(ctx, question)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp, err := p.agent.Answer(ctx, question, chunks)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("answer: %w", err)
	}
	return resp, nil
}

// ResetIndex drops the collection and creates it again, empty.
func (p *Pipeline) ResetIndex(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Pipeline.ResetIndex")
	defer span.End()

	if err := p.store.DeleteCollection(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete collection: %w", err)
	}
	if err := p.store.EnsureCollection(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("create collection: %w", err)
	}
	logger.Info("index reset")
	return nil
}
