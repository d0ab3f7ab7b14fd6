package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/core/ports/driving"
	"github.com/cbyc/lexora/internal/logger"
)

// Ensure FeedService implements the interface.
var _ driving.FeedService = (*FeedService)(nil)

// Feed listing defaults.
const (
	DefaultMaxPostsPerFeed  = 50
	DefaultFeedFetchTimeout = 10 * time.Second
	DefaultFeedRange        = domain.RangeLastMonth
)

// FeedOption configures a FeedService.
type FeedOption func(*FeedService)

// WithDefaultRange sets the preset used when a listing names no range.
func WithDefaultRange(preset string) FeedOption {
	return func(s *FeedService) {
		if preset != "" {
			s.defaultRange = preset
		}
	}
}

// WithMaxPostsPerFeed caps the entries taken from each feed.
func WithMaxPostsPerFeed(n int) FeedOption {
	return func(s *FeedService) {
		if n > 0 {
			s.maxPosts = n
		}
	}
}

// WithFeedTimeout bounds the download of each feed.
func WithFeedTimeout(d time.Duration) FeedOption {
	return func(s *FeedService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) FeedOption {
	return func(s *FeedService) { s.now = now }
}

// FeedService aggregates posts of the subscribed feeds.
type FeedService struct {
	store   driven.FeedStore
	fetcher driven.FeedFetcher

	defaultRange string
	maxPosts     int
	timeout      time.Duration
	now          func() time.Time
}

// NewFeedService creates a feed service.
func NewFeedService(store driven.FeedStore, fetcher driven.FeedFetcher, opts ...FeedOption) *FeedService {
	s := &FeedService{
		store:        store,
		fetcher:      fetcher,
		defaultRange: DefaultFeedRange,
		maxPosts:     DefaultMaxPostsPerFeed,
		timeout:      DefaultFeedFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Feeds returns the subscribed feeds.
func (s *FeedService) Feeds(ctx context.Context) ([]domain.Feed, error) {
	feeds, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}
	return feeds, nil
}

// Posts fetches every subscribed feed concurrently, each under its own
// timeout, and keeps the posts inside the requested range, newest first.
// The range is validated before any feed is downloaded.
func (s *FeedService) Posts(ctx context.Context, query driving.PostsQuery) (*driving.FeedResult, error) {
	ctx, span := tracer.Start(ctx, "FeedService.Posts")
	defer span.End()

	rng, err := domain.ParseDateRange(query.Range, query.From, query.To, s.defaultRange, s.now())
	if err != nil {
		return nil, err
	}

	feeds, err := s.Feeds(ctx)
	if err != nil {
		return nil, err
	}
	result := &driving.FeedResult{Posts: []domain.Post{}, FeedCount: len(feeds)}
	if len(feeds) == 0 {
		return result, nil
	}

	var (
		mu    sync.Mutex
		posts []domain.Post
	)
	var g errgroup.Group
	for _, feed := range feeds {
		g.Go(func() error {
			fetched, err := s.fetchOne(ctx, feed)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("feed fetch failed", "feed", feed.Name, "url", feed.URL, "error", err)
				result.Errors = append(result.Errors, domain.FeedError{FeedName: feed.Name, URL: feed.URL, Err: err})
				return nil
			}
			posts = append(posts, fetched...)
			return nil
		})
	}
	// Failures are collected per feed; the group never returns one.
	_ = g.Wait()

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
	for _, p := range posts {
		if rng.Contains(p.PublishedAt) {
			result.Posts = append(result.Posts, p)
		}
	}
	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].FeedName < result.Errors[j].FeedName })

	span.SetAttributes(
		attribute.Int("feeds", len(feeds)),
		attribute.Int("posts", len(result.Posts)),
		attribute.Int("failed_feeds", len(result.Errors)),
	)
	logger.Debug("feeds fetched", "feeds", len(feeds), "posts", len(result.Posts), "failed", len(result.Errors))
	return result, nil
}

func (s *FeedService) fetchOne(ctx context.Context, feed domain.Feed) ([]domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	posts, err := s.fetcher.Fetch(ctx, feed.URL, s.maxPosts)
	if err != nil {
		return nil, err
	}
	if len(posts) > s.maxPosts {
		posts = posts[:s.maxPosts]
	}
	for i := range posts {
		posts[i].FeedName = feed.Name
	}
	return posts, nil
}

// AddFeed checks that url serves a feed, then stores the subscription.
// Duplicate URLs are rejected before anything is downloaded.
func (s *FeedService) AddFeed(ctx context.Context, name, rawURL string) (*domain.Feed, error) {
	ctx, span := tracer.Start(ctx, "FeedService.AddFeed", trace.WithAttributes(attribute.String("url", rawURL)))
	defer span.End()

	feed := domain.Feed{Name: strings.TrimSpace(name), URL: strings.TrimSpace(rawURL)}
	if feed.Name == "" || feed.URL == "" {
		return nil, fmt.Errorf("name and url are required: %w", domain.ErrInvalidInput)
	}
	if u, err := url.Parse(feed.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("feed url %q must be an absolute http(s) URL: %w", feed.URL, domain.ErrInvalidInput)
	}

	existing, err := s.Feeds(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range existing {
		if f.URL == feed.URL {
			return nil, fmt.Errorf("add feed %s: %w", feed.URL, domain.ErrDuplicateFeed)
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.fetcher.Fetch(fetchCtx, feed.URL, 1); err != nil {
		if !errors.Is(err, domain.ErrInvalidFeed) {
			err = fmt.Errorf("%w: %w", domain.ErrInvalidFeed, err)
		}
		return nil, fmt.Errorf("validate feed %s: %w", feed.URL, err)
	}

	if err := s.store.Add(ctx, feed); err != nil {
		return nil, fmt.Errorf("add feed %s: %w", feed.URL, err)
	}
	logger.Info("feed added", "name", feed.Name, "url", feed.URL)
	return &feed, nil
}
