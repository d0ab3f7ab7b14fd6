// Package rss downloads RSS, Atom and JSON feeds and converts their entries
// to domain posts.
package rss

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.FeedFetcher = (*Fetcher)(nil)

const (
	maxFeedBytes = 5 << 20
	userAgent    = "lexora (+https://github.com/cbyc/lexora)"
)

// Fetcher retrieves feeds over HTTP and parses them with gofeed.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher. A nil client uses one without a global
// timeout; callers bound each fetch through its context.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{client: client}
}

// Fetch downloads url and returns its first maxPosts entries. Entries without
// a publication time fall back to their update time, then to the zero time.
func (f *Fetcher) Fetch(ctx context.Context, url string, maxPosts int) ([]domain.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", url, domain.ErrInvalidFeed, err)
	}

	return toPosts(parsed, maxPosts), nil
}

func toPosts(feed *gofeed.Feed, maxPosts int) []domain.Post {
	n := len(feed.Items)
	if maxPosts > 0 && n > maxPosts {
		n = maxPosts
	}

	posts := make([]domain.Post, 0, n)
	for _, item := range feed.Items[:n] {
		posts = append(posts, domain.Post{
			FeedName:    feed.Title,
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: publishedAt(item),
		})
	}
	return posts
}

func publishedAt(item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	default:
		return time.Time{}
	}
}
