package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbyc/lexora/internal/core/domain"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Tea Notes</title>
    <link>https://tea.example/</link>
    <item>
      <title>Sencha</title>
      <link>https://tea.example/sencha</link>
      <pubDate>Mon, 02 Jun 2025 08:00:00 +0200</pubDate>
    </item>
    <item>
      <title>Genmaicha</title>
      <link>https://tea.example/genmaicha</link>
    </item>
    <item>
      <title>Hojicha</title>
      <link>https://tea.example/hojicha</link>
      <pubDate>Sun, 01 Jun 2025 08:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

const atomDoc = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>The Go Blog</title>
  <entry>
    <title>Range over func</title>
    <link href="https://go.dev/blog/range-functions"/>
    <id>tag:go.dev,2024:range</id>
    <updated>2024-08-20T00:00:00Z</updated>
  </entry>
</feed>`

func serve(t *testing.T, status int, contentType, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "lexora")
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestFetcher_RSS(t *testing.T) {
	url := serve(t, http.StatusOK, "application/rss+xml", rssDoc)

	posts, err := NewFetcher(nil).Fetch(context.Background(), url, 10)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, domain.Post{
		FeedName:    "Tea Notes",
		Title:       "Sencha",
		URL:         "https://tea.example/sencha",
		PublishedAt: time.Date(2025, time.June, 2, 6, 0, 0, 0, time.UTC),
	}, posts[0])
	assert.True(t, posts[1].PublishedAt.IsZero())
	assert.Equal(t, "Hojicha", posts[2].Title)
}

func TestFetcher_MaxPosts(t *testing.T) {
	url := serve(t, http.StatusOK, "application/rss+xml", rssDoc)

	posts, err := NewFetcher(nil).Fetch(context.Background(), url, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Sencha", posts[0].Title)
}

func TestFetcher_AtomFallsBackToUpdated(t *testing.T) {
	url := serve(t, http.StatusOK, "application/atom+xml", atomDoc)

	posts, err := NewFetcher(nil).Fetch(context.Background(), url, 5)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "The Go Blog", posts[0].FeedName)
	assert.Equal(t, "https://go.dev/blog/range-functions", posts[0].URL)
	assert.Equal(t, time.Date(2024, time.August, 20, 0, 0, 0, 0, time.UTC), posts[0].PublishedAt)
}

func TestFetcher_Errors(t *testing.T) {
	t.Run("not a feed", func(t *testing.T) {
		url := serve(t, http.StatusOK, "text/html", "<html><body>hello</body></html>")
		_, err := NewFetcher(nil).Fetch(context.Background(), url, 5)
		assert.ErrorIs(t, err, domain.ErrInvalidFeed)
	})

	t.Run("http status", func(t *testing.T) {
		url := serve(t, http.StatusNotFound, "text/plain", "missing")
		_, err := NewFetcher(nil).Fetch(context.Background(), url, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
		assert.NotErrorIs(t, err, domain.ErrInvalidFeed)
	})

	t.Run("cancelled", func(t *testing.T) {
		url := serve(t, http.StatusOK, "application/rss+xml", rssDoc)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewFetcher(nil).Fetch(ctx, url, 5)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
