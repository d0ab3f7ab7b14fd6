package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbyc/lexora/internal/adapters/driven/storage/memory"
	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

func noopIngest(context.Context, []domain.Document) error { return nil }

func TestIncrementalSync_FirstRunThenNoChanges(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSyncStateStore()
	src := &fakeSource{kind: domain.SourceKindNotes, items: []item{
		{ts: 10, content: "a", source: "a.txt"},
		{ts: 20, content: "b", source: "b.txt"},
	}}
	runner := NewIncrementalSync(store)

	n, err := runner.Run(ctx, src, noopIngest)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, driven.Cursor{}, src.fetches[0])

	state, err := store.Get(ctx, domain.SourceKindNotes)
	require.NoError(t, err)
	assert.Equal(t, int64(20), state.LastSyncTimestamp)
	assert.False(t, state.UpdatedAt.IsZero())

	n, err = runner.Run(ctx, src, noopIngest)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, driven.Cursor{Value: 20, Valid: true}, src.fetches[1])

	state, err = store.Get(ctx, domain.SourceKindNotes)
	require.NoError(t, err)
	assert.Equal(t, int64(20), state.LastSyncTimestamp)
}

func TestIncrementalSync_ExcludesItemAtCursor(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSyncStateStore()
	require.NoError(t, store.Save(ctx, domain.SyncState{Kind: domain.SourceKindBookmarks, LastSyncTimestamp: 100}))

	src := &fakeSource{kind: domain.SourceKindBookmarks, items: []item{
		{ts: 99, source: "old"},
		{ts: 100, source: "boundary"},
		{ts: 101, source: "new"},
	}}

	batch, err := NewIncrementalSync(store).Fetch(ctx, src)
	require.NoError(t, err)

	require.Len(t, batch.Documents, 1)
	assert.Equal(t, "new", batch.Documents[0].Source)
	assert.Equal(t, int64(101), batch.Next)
	assert.Equal(t, driven.Cursor{Value: 100, Valid: true}, batch.Previous)
}

func TestNextCursor(t *testing.T) {
	tests := []struct {
		name string
		prev driven.Cursor
		res  driven.FetchResult
		want int64
	}{
		{"nothing selected keeps previous", driven.Cursor{Value: 50, Valid: true}, driven.FetchResult{Cursor: 99}, 50},
		{"nothing selected without cursor", driven.Cursor{}, driven.FetchResult{}, 0},
		{"advances to fetched", driven.Cursor{Value: 50, Valid: true}, driven.FetchResult{Selected: 2, Cursor: 70}, 70},
		{"never regresses", driven.Cursor{Value: 50, Valid: true}, driven.FetchResult{Selected: 1, Cursor: 40}, 50},
		{"first run", driven.Cursor{}, driven.FetchResult{Selected: 1, Cursor: 7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextCursor(tt.prev, &tt.res))
		})
	}
}

func TestIncrementalSync_IngestFailureKeepsCursor(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSyncStateStore()
	src := &fakeSource{kind: domain.SourceKindNotes, items: []item{{ts: 5, source: "a"}}}
	ingestErr := errors.New("ingest failed")

	_, err := NewIncrementalSync(store).Run(ctx, src, func(context.Context, []domain.Document) error {
		return ingestErr
	})
	assert.ErrorIs(t, err, ingestErr)

	_, err = store.Get(ctx, domain.SourceKindNotes)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIncrementalSync_NoDocumentsSkipsIngest(t *testing.T) {
	called := false
	src := &fakeSource{kind: domain.SourceKindNotes}

	_, err := NewIncrementalSync(memory.NewSyncStateStore()).Run(context.Background(), src,
		func(context.Context, []domain.Document) error {
			called = true
			return nil
		})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestIncrementalSync_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewIncrementalSync(failingSyncStore{}).Fetch(ctx, &fakeSource{kind: domain.SourceKindNotes})
	assert.ErrorIs(t, err, errStoreDown)

	src := &fakeSource{kind: domain.SourceKindNotes, err: domain.ErrSourceUnavailable}
	_, err = NewIncrementalSync(memory.NewSyncStateStore()).Run(ctx, src, noopIngest)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestIncrementalSync_CommitStampsTime(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSyncStateStore()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runner := NewIncrementalSync(store)
	runner.now = func() time.Time { return fixed }

	require.NoError(t, runner.Commit(ctx, &SyncBatch{Kind: domain.SourceKindNotes, Next: 42}))

	state, err := store.Get(ctx, domain.SourceKindNotes)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncState{Kind: domain.SourceKindNotes, LastSyncTimestamp: 42, UpdatedAt: fixed}, *state)
}
