package driving

import (
	"context"

	"github.com/cbyc/lexora/internal/core/domain"
)

// FeedService lists recent posts of the subscribed feeds and manages the
// subscription list.
type FeedService interface {
	// Posts fetches every feed concurrently and returns the posts inside the
	// requested date range, newest first. Feeds that fail are reported in
	// the result, not as an error.
	Posts(ctx context.Context, query PostsQuery) (*FeedResult, error)

	// Feeds returns the subscribed feeds.
	Feeds(ctx context.Context) ([]domain.Feed, error)

	// AddFeed validates that url serves a feed and subscribes to it.
	AddFeed(ctx context.Context, name, url string) (*domain.Feed, error)
}

// PostsQuery selects the date range of a post listing. From and To are
// RFC 3339 timestamps and take precedence over Range.
type PostsQuery struct {
	Range string
	From  string
	To    string
}

// FeedResult is a post listing together with the feeds that failed.
type FeedResult struct {
	Posts  []domain.Post
	Errors []domain.FeedError

	// FeedCount is the number of subscribed feeds that were fetched.
	FeedCount int
}

// AllFailed reports whether there were feeds and none of them could be fetched.
func (r FeedResult) AllFailed() bool {
	return r.FeedCount > 0 && len(r.Errors) == r.FeedCount
}
