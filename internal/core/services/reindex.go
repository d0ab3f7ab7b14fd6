package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/core/ports/driving"
	"github.com/cbyc/lexora/internal/logger"
)

// Ensure ReindexService implements the interface.
var _ driving.ReindexService = (*ReindexService)(nil)

// ReindexService feeds incremental sources into the pipeline.
// Runs are serialised so that a watcher and an API call never race on a cursor.
type ReindexService struct {
	pipeline driving.Pipeline
	store    driven.SyncStateStore
	runner   *IncrementalSync
	sources  map[domain.SourceKind]driven.IncrementalSource

	mu sync.Mutex
}

// NewReindexService creates a reindex service over the given sources.
// A later source of the same kind replaces an earlier one.
func NewReindexService(
	pipeline driving.Pipeline,
	store driven.SyncStateStore,
	sources ...driven.IncrementalSource,
) *ReindexService {
	byKind := make(map[domain.SourceKind]driven.IncrementalSource, len(sources))
	for _, src := range sources {
		if src != nil {
			byKind[src.Kind()] = src
		}
	}
	return &ReindexService{
		pipeline: pipeline,
		store:    store,
		runner:   NewIncrementalSync(store),
		sources:  byKind,
	}
}

// Reindex syncs every configured source. Failures are collected and joined;
// the counts of the sources that succeeded are still reported.
func (s *ReindexService) Reindex(ctx context.Context) (*driving.ReindexResult, error) {
	ctx, span := tracer.Start(ctx, "ReindexService.Reindex")
	defer span.End()

	logger.Section("Reindex")

	result := &driving.ReindexResult{}
	var errs []error

	for _, kind := range domain.AllSourceKinds() {
		if _, ok := s.sources[kind]; !ok {
			continue
		}

		n, err := s.ReindexSource(ctx, kind)
		if err != nil {
			logger.Error("reindex failed", "kind", kind, "error", err)
			errs = append(errs, fmt.Errorf("reindex %s: %w", kind, err))
		}

		switch kind {
		case domain.SourceKindNotes:
			result.NotesIndexed = n
		case domain.SourceKindBookmarks:
			result.BookmarksIndexed = n
		}
	}

	span.SetAttributes(
		attribute.Int("notes_indexed", result.NotesIndexed),
		attribute.Int("bookmarks_indexed", result.BookmarksIndexed),
	)
	return result, errors.Join(errs...)
}

// ReindexSource syncs one source kind into the pipeline.
func (s *ReindexService) ReindexSource(ctx context.Context, kind domain.SourceKind) (int, error) {
	src, ok := s.sources[kind]
	if !ok {
		return 0, fmt.Errorf("source %q: %w", kind, domain.ErrNotFound)
	}

	ctx, span := tracer.Start(ctx, "ReindexService.ReindexSource",
		trace.WithAttributes(attribute.String("kind", kind.String())))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.runner.Run(ctx, src, s.pipeline.AddDocs)
	if err != nil {
		span.RecordError(err)
	}
	return n, err
}

// Cursors returns the stored cursors of the configured sources.
func (s *ReindexService) Cursors(ctx context.Context) ([]domain.SyncState, error) {
	var states []domain.SyncState
	for _, kind := range domain.AllSourceKinds() {
		if _, ok := s.sources[kind]; !ok {
			continue
		}
		state, err := s.store.Get(ctx, kind)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get sync state %s: %w", kind, err)
		}
		states = append(states, *state)
	}
	return states, nil
}

// ResetCursor deletes the stored cursor for kind.
func (s *ReindexService) ResetCursor(ctx context.Context, kind domain.SourceKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("source kind %q: %w", kind, domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, kind); err != nil {
		return fmt.Errorf("delete sync state %s: %w", kind, err)
	}
	logger.Info("sync cursor reset", "kind", kind)
	return nil
}
