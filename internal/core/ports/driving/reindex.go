package driving

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
)

// ReindexService runs incremental ingestion for the configured sources.
type ReindexService interface {
	// Reindex syncs every configured source into the pipeline.
	// A failing source does not prevent the others from running.
	Reindex(ctx context.Context) (*ReindexResult, error)

	// ReindexSource syncs one source kind and returns the number of documents indexed.
	ReindexSource(ctx context.Context, kind domain.SourceKind) (int, error)

	// Cursors returns the stored sync state of each configured source kind.
	// Kinds that have never synced are omitted.
	Cursors(ctx context.Context) ([]domain.SyncState, error)

	// ResetCursor forgets the cursor for a kind so its next sync processes everything.
	ResetCursor(ctx context.Context, kind domain.SourceKind) error
}

// ReindexResult reports how many documents each source contributed.
type ReindexResult struct {
	// NotesIndexed is the number of note documents added.
	NotesIndexed int `json:"notes_indexed" yaml:"notes_indexed"`

	// BookmarksIndexed is the number of bookmark documents added.
	BookmarksIndexed int `json:"bookmarks_indexed" yaml:"bookmarks_indexed"`
}

// Total returns the number of documents indexed across sources.
func (r ReindexResult) Total() int {
	return r.NotesIndexed + r.BookmarksIndexed
}
