package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// Ensure FeedStore implements the interface.
var _ driven.FeedStore = (*FeedStore)(nil)

// feedsFile is the on-disk layout of the subscription list:
//
//	feeds:
//	  - name: The Go Blog
//	    url: https://go.dev/blog/feed.atom
type feedsFile struct {
	Feeds []domain.Feed `yaml:"feeds"`
}

// FeedStore keeps the feed subscriptions in one YAML file.
type FeedStore struct {
	mu   sync.Mutex
	path string
}

// NewFeedStore creates a store backed by the file at path.
func NewFeedStore(path string) *FeedStore {
	return &FeedStore{path: path}
}

// Path returns the backing file.
func (s *FeedStore) Path() string {
	return s.path
}

// Load reads the subscriptions. A missing or empty file holds no feeds;
// a malformed file is an error so that Add never overwrites it.
func (s *FeedStore) Load(_ context.Context) ([]domain.Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add appends feed unless its URL is already subscribed.
func (s *FeedStore) Add(_ context.Context, feed domain.Feed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	feeds, err := s.load()
	if err != nil {
		return err
	}
	for _, f := range feeds {
		if f.URL == feed.URL {
			return domain.ErrDuplicateFeed
		}
	}
	return s.save(append(feeds, feed))
}

func (s *FeedStore) load() ([]domain.Feed, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading feeds: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var f feedsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing feeds %s: %w", s.path, err)
	}
	return f.Feeds, nil
}

func (s *FeedStore) save(feeds []domain.Feed) error {
	data, err := yaml.Marshal(feedsFile{Feeds: feeds})
	if err != nil {
		return fmt.Errorf("encoding feeds: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating feeds directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing feeds: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing feeds: %w", err)
	}
	return nil
}
