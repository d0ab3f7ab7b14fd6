package driven

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
)

// SyncStateStore persists the incremental-ingestion cursor per source kind.
// A missing or unreadable cursor is reported as domain.ErrNotFound so that
// callers treat it as "no prior sync".
type SyncStateStore interface {
	// Save stores or updates the cursor for state.Kind.
	Save(ctx context.Context, state domain.SyncState) error

	// Get retrieves the cursor for a source kind.
	Get(ctx context.Context, kind domain.SourceKind) (*domain.SyncState, error)

	// Delete removes the cursor, forcing the next sync to process everything.
	Delete(ctx context.Context, kind domain.SourceKind) error
}
