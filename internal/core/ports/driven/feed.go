package driven

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
)

// FeedStore persists the feed subscription list.
type FeedStore interface {
	// Load returns every subscribed feed in insertion order.
	// A store that was never written holds no feeds.
	Load(ctx context.Context) ([]domain.Feed, error)

	// Add appends a feed. A feed whose URL is already stored is rejected
	// with domain.ErrDuplicateFeed.
	Add(ctx context.Context, feed domain.Feed) error
}

// FeedFetcher downloads and parses one feed.
type FeedFetcher interface {
	// Fetch returns at most maxPosts entries of the feed at url, in document
	// order. A URL that does not serve a feed is reported as
	// domain.ErrInvalidFeed.
	Fetch(ctx context.Context, url string, maxPosts int) ([]domain.Post, error)
}
