// Package app assembles lexora's services from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cbyc/lexora/internal/adapters/driven/agent"
	"github.com/cbyc/lexora/internal/adapters/driven/ai"
	"github.com/cbyc/lexora/internal/adapters/driven/embedding/cache"
	"github.com/cbyc/lexora/internal/adapters/driven/storage"
	"github.com/cbyc/lexora/internal/adapters/driven/storage/file"
	"github.com/cbyc/lexora/internal/config"
	"github.com/cbyc/lexora/internal/connectors/firefox"
	"github.com/cbyc/lexora/internal/connectors/notes"
	"github.com/cbyc/lexora/internal/connectors/rss"
	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/core/services"
	"github.com/cbyc/lexora/internal/logger"
	"github.com/cbyc/lexora/internal/postprocessors/chunker"
	"github.com/cbyc/lexora/internal/telemetry"
)

// shutdownTimeout bounds flushing telemetry on Close.
const shutdownTimeout = 5 * time.Second

// App holds the wired services shared by every driving adapter.
type App struct {
	Config   *config.Config
	Pipeline *services.Pipeline
	Reindex  *services.ReindexService
	Feeds    *services.FeedService

	closers []func() error
}

// New builds the application. The embedding service must be reachable; an
// unreachable or unconfigured LLM only disables Ask.
func New(ctx context.Context, cfg *config.Config, version string) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	shutdown, err := telemetry.Setup(telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Version:     version,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return shutdown(ctx)
	})

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, embedder.Close)

	backends, err := storage.Open(ctx, storage.Config{
		Backend:     cfg.Store.Backend,
		Collection:  cfg.Store.Collection,
		Dimensions:  embedder.Dimensions(),
		Path:        cfg.Store.Path,
		DSN:         cfg.Store.DSN,
		URL:         cfg.Store.URL,
		APIKey:      cfg.Store.APIKey,
		SyncBackend: cfg.Sync.Backend,
		SyncPaths: map[domain.SourceKind]string{
			domain.SourceKindNotes:     cfg.Notes.SyncStatePath,
			domain.SourceKindBookmarks: cfg.Bookmarks.SyncStatePath,
		},
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, backends.Close)

	if err := backends.VectorStore.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	var answerer driven.AskAgent
	if llm := newLLM(ctx, cfg); llm != nil {
		a.closers = append(a.closers, llm.Close)
		answerer = agent.New(llm)
	}

	a.Pipeline = services.NewPipeline(
		chunker.New(chunker.WithChunkSize(cfg.Chunking.Size), chunker.WithOverlap(cfg.Chunking.Overlap)),
		embedder,
		backends.VectorStore,
		answerer,
		services.WithSearchDefaults(cfg.Search.Options()),
		services.WithEmbedConcurrency(cfg.Embedding.Concurrency),
	)

	a.Reindex = services.NewReindexService(a.Pipeline, backends.SyncStateStore, Sources(cfg)...)
	a.Feeds = NewFeedService(cfg)

	logger.Debug("application ready",
		"store", cfg.Store.Backend,
		"embedding", embedder.ModelName(),
		"ask", answerer != nil,
	)
	return a, nil
}

// Sources returns the incremental sources enabled by cfg.
func Sources(cfg *config.Config) []driven.IncrementalSource {
	sources := []driven.IncrementalSource{notes.New(cfg.Notes.Dir)}
	if cfg.Bookmarks.Enabled {
		fetcher := firefox.NewPageFetcher(firefox.FetcherConfig{
			Timeout:          cfg.Bookmarks.FetchTimeout,
			MaxContentLength: cfg.Bookmarks.MaxContentLength,
			RatePerSecond:    cfg.Bookmarks.FetchRate,
		})
		sources = append(sources, firefox.New(cfg.Bookmarks.ProfilePath, fetcher))
	}
	return sources
}

// NewFeedService builds the feed service. It needs no embedding or storage
// backend, so commands that only list feeds can skip New.
func NewFeedService(cfg *config.Config) *services.FeedService {
	return services.NewFeedService(
		file.NewFeedStore(cfg.Feed.DataFile),
		rss.NewFetcher(nil),
		services.WithDefaultRange(cfg.Feed.DefaultRange),
		services.WithMaxPostsPerFeed(cfg.Feed.MaxPostsPerFeed),
		services.WithFeedTimeout(cfg.Feed.FetchTimeout),
	)
}

func newEmbedder(ctx context.Context, cfg *config.Config) (driven.EmbeddingService, error) {
	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, cfg.Embedding.Settings())
	if err != nil {
		return nil, fmt.Errorf("create embedding service: %w", err)
	}

	if cfg.Cache.RedisAddr != "" {
		cached := cache.NewRedis(embedder, cfg.Cache.RedisAddr, cfg.Cache.TTL)
		if err := cached.Ping(ctx); err != nil {
			_ = cached.Close()
			return nil, fmt.Errorf("embedding cache: %w", err)
		}
		return cached, nil
	}
	return embedder, nil
}

func newLLM(ctx context.Context, cfg *config.Config) driven.LLMService {
	settings := cfg.LLM.Settings()
	if !settings.IsConfigured() {
		logger.Warn("ask disabled: llm provider not configured", "provider", settings.Provider)
		return nil
	}

	llm, err := ai.CreateAndValidateLLMService(ctx, settings)
	if err != nil {
		logger.Warn("ask disabled", "error", err)
		return nil
	}
	return llm
}

// Close releases every resource in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
