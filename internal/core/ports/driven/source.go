package driven

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
)

// IncrementalSource enumerates items of one source kind newer than a cursor
// and converts them to documents.
type IncrementalSource interface {
	// Kind returns the source kind whose cursor this source uses.
	Kind() domain.SourceKind

	// Fetch returns documents for items whose timestamp is strictly greater
	// than since.Value. When since.Valid is false every item is selected.
	Fetch(ctx context.Context, since Cursor) (*FetchResult, error)
}

// Cursor is a possibly absent sync timestamp.
type Cursor struct {
	// Value is the timestamp; meaningful only when Valid.
	Value int64

	// Valid is false on first run.
	Valid bool
}

// FetchResult is the outcome of one incremental fetch.
type FetchResult struct {
	// Documents are the converted items. Items that could not be converted
	// (e.g. a page that failed to download) are omitted.
	Documents []domain.Document

	// Selected counts items that passed the cursor filter, converted or not.
	Selected int

	// Cursor is the candidate next cursor: the maximum timestamp among
	// selected items, or the scan time for sources where observing an item
	// is equivalent to processing it. Ignored when Selected is zero.
	Cursor int64
}

// PageFetcher downloads a web page and returns its readable text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
