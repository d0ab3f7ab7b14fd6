package domain

import (
	"fmt"
	"time"
)

// Feed is a subscribed RSS or Atom feed.
type Feed struct {
	// Name is the user-chosen label shown on every post of the feed.
	Name string `json:"name" yaml:"name"`

	// URL is the feed document address. It identifies the subscription.
	URL string `json:"url" yaml:"url"`
}

// Post is one entry of a feed.
type Post struct {
	FeedName string `json:"feed_name" yaml:"feed_name"`
	Title    string `json:"title" yaml:"title"`
	URL      string `json:"url" yaml:"url"`

	// PublishedAt is the entry's publication time, falling back to its update
	// time. It is zero when the feed carries neither.
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
}

// FeedError records a feed that could not be fetched or parsed.
type FeedError struct {
	FeedName string
	URL      string
	Err      error
}

// Error implements error.
func (e FeedError) Error() string {
	return fmt.Sprintf("feed %q (%s): %v", e.FeedName, e.URL, e.Err)
}

// Unwrap returns the underlying fetch error.
func (e FeedError) Unwrap() error {
	return e.Err
}
