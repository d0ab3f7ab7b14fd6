package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/logger"
)

// SyncBatch is the result of fetching one source since its stored cursor.
type SyncBatch struct {
	// Kind is the source kind the batch belongs to.
	Kind domain.SourceKind

	// Documents are the new items converted to documents.
	Documents []domain.Document

	// Previous is the cursor the fetch started from.
	Previous driven.Cursor

	// Next is the cursor to persist once Documents are ingested.
	Next int64

	// Selected counts the items newer than Previous.
	Selected int
}

// IncrementalSync applies the cursor contract shared by every source kind:
// read the cursor, fetch items strictly newer than it, and advance the
// cursor without ever moving it backwards.
type IncrementalSync struct {
	store driven.SyncStateStore
	now   func() time.Time
}

// NewIncrementalSync creates a runner persisting cursors in store.
func NewIncrementalSync(store driven.SyncStateStore) *IncrementalSync {
	return &IncrementalSync{store: store, now: time.Now}
}

// Fetch reads the cursor for src and fetches the items newer than it.
// Nothing is persisted; call Commit after the documents are ingested.
func (s *IncrementalSync) Fetch(ctx context.Context, src driven.IncrementalSource) (*SyncBatch, error) {
	kind := src.Kind()

	var prev driven.Cursor
	state, err := s.store.Get(ctx, kind)
	switch {
	case err == nil:
		prev = driven.Cursor{Value: state.LastSyncTimestamp, Valid: true}
	case errors.Is(err, domain.ErrNotFound):
		logger.Debug("no prior sync", "kind", kind)
	default:
		return nil, fmt.Errorf("get sync state: %w", err)
	}

	res, err := src.Fetch(ctx, prev)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}

	return &SyncBatch{
		Kind:      kind,
		Documents: res.Documents,
		Previous:  prev,
		Next:      nextCursor(prev, res),
		Selected:  res.Selected,
	}, nil
}

// nextCursor is max(previous, fetched) when anything was selected, else the
// previous cursor (zero when there was none).
func nextCursor(prev driven.Cursor, res *driven.FetchResult) int64 {
	if res.Selected == 0 {
		return prev.Value
	}
	if prev.Valid && prev.Value > res.Cursor {
		return prev.Value
	}
	return res.Cursor
}

// Commit persists the batch's next cursor.
func (s *IncrementalSync) Commit(ctx context.Context, batch *SyncBatch) error {
	state := domain.SyncState{
		Kind:              batch.Kind,
		LastSyncTimestamp: batch.Next,
		UpdatedAt:         s.now().UTC(),
	}
	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("save sync state: %w", err)
	}
	return nil
}

// Run fetches src, hands the documents to ingest and commits the cursor only
// when ingest succeeds. It returns the number of documents ingested.
func (s *IncrementalSync) Run(
	ctx context.Context,
	src driven.IncrementalSource,
	ingest func(context.Context, []domain.Document) error,
) (int, error) {
	batch, err := s.Fetch(ctx, src)
	if err != nil {
		return 0, err
	}

	if len(batch.Documents) > 0 {
		if err := ingest(ctx, batch.Documents); err != nil {
			return 0, err
		}
	}

	if err := s.Commit(ctx, batch); err != nil {
		return len(batch.Documents), err
	}

	logger.Info("source synced",
		"kind", batch.Kind,
		"selected", batch.Selected,
		"documents", len(batch.Documents),
		"cursor", batch.Next)
	return len(batch.Documents), nil
}
