package firefox

import (
	"context"
	"fmt"
	"strings"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.IncrementalSource = (*Source)(nil)

// Source turns bookmarks into documents holding the bookmarked page's text.
// Its cursor is the Firefox dateAdded value in microseconds.
type Source struct {
	profilePath string
	fetcher     driven.PageFetcher
}

// New creates a bookmark source. profilePath may be "auto", a profile
// directory or a path to places.sqlite.
func New(profilePath string, fetcher driven.PageFetcher) *Source {
	return &Source{profilePath: profilePath, fetcher: fetcher}
}

// Kind returns domain.SourceKindBookmarks.
func (s *Source) Kind() domain.SourceKind {
	return domain.SourceKindBookmarks
}

// Fetch reads bookmarks added after since and downloads each page. Pages that
// fail to download or hold no text are skipped but still count as selected,
// so the cursor moves past them.
func (s *Source) Fetch(ctx context.Context, since driven.Cursor) (*driven.FetchResult, error) {
	profile, err := ResolveProfile(s.profilePath)
	if err != nil {
		return nil, err
	}

	bookmarks, err := ReadBookmarks(ctx, profile, since)
	if err != nil {
		return nil, fmt.Errorf("read bookmarks: %w", err)
	}
	logger.Info("bookmarks found", "count", len(bookmarks), "profile", profile)

	res := &driven.FetchResult{Selected: len(bookmarks)}
	for _, b := range bookmarks {
		if b.DateAdded > res.Cursor {
			res.Cursor = b.DateAdded
		}

		text, err := s.fetcher.Fetch(ctx, b.URL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("skipping bookmark", "url", b.URL, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			logger.Warn("skipping bookmark without text", "url", b.URL)
			continue
		}

		res.Documents = append(res.Documents, domain.Document{Content: text, Source: b.URL})
	}

	logger.Info("bookmarks fetched", "documents", len(res.Documents))
	return res, nil
}
