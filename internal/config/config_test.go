package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbyc/lexora/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexora.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0:9002", cfg.Server.Addr())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "./data", cfg.Store.Path)
	assert.Equal(t, "lexora", cfg.Store.Collection)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, 768, cfg.Embedding.Dimensions)
	assert.Equal(t, 1, cfg.Embedding.Concurrency)
	assert.Equal(t, 720*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, 50, cfg.Chunking.Overlap)
	assert.Equal(t, domain.DefaultSearchOptions(), cfg.Search.Options())
	assert.Empty(t, cfg.Sync.Backend)
	assert.True(t, cfg.Bookmarks.Enabled)
	assert.Equal(t, "auto", cfg.Bookmarks.ProfilePath)
	assert.Equal(t, 15*time.Second, cfg.Bookmarks.FetchTimeout)
	assert.Equal(t, 50000, cfg.Bookmarks.MaxContentLength)
	assert.InDelta(t, 2.0, cfg.Bookmarks.FetchRate, 1e-9)
	assert.Equal(t, "./data/feeds.yaml", cfg.Feed.DataFile)
	assert.Equal(t, 50, cfg.Feed.MaxPostsPerFeed)
	assert.Equal(t, 10*time.Second, cfg.Feed.FetchTimeout)
	assert.Equal(t, "last_month", cfg.Feed.DefaultRange)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

[server]
port = 8080

[store]
backend = "sqlite"
path = "/var/lib/lexora"

[embedding]
provider = "hashing"
model = "hashing"
dimensions = 64

[chunking]
size = 200
overlap = 20

[bookmarks]
fetch_timeout = "3s"

[feed]
data_file = "/var/lib/lexora/feeds.yaml"
fetch_timeout = "5s"
default_range = "last_week"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/var/lib/lexora", cfg.Store.Path)
	assert.Equal(t, domain.EmbeddingSettings{
		Provider:   domain.AIProviderHashing,
		Model:      "hashing",
		Dimensions: 64,
	}, cfg.Embedding.Settings())
	assert.Equal(t, 200, cfg.Chunking.Size)
	assert.Equal(t, 20, cfg.Chunking.Overlap)
	assert.Equal(t, 3*time.Second, cfg.Bookmarks.FetchTimeout)
	assert.Equal(t, FeedConfig{
		DataFile:        "/var/lib/lexora/feeds.yaml",
		MaxPostsPerFeed: 50,
		FetchTimeout:    5 * time.Second,
		DefaultRange:    "last_week",
	}, cfg.Feed)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[store]\nbackend = \"sqlite\"\n")
	t.Setenv("LEXORA_STORE_BACKEND", "qdrant")
	t.Setenv("LEXORA_LLM_API_KEY", "sk-test")
	t.Setenv("LEXORA_SEARCH_TOP_K", "9")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "qdrant", cfg.Store.Backend)
	assert.Equal(t, "sk-test", cfg.LLM.Settings().APIKey)
	assert.Equal(t, 9, cfg.Search.TopK)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "[store\nbackend = ")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero chunk size", "[chunking]\nsize = 0\n"},
		{"negative overlap", "[chunking]\noverlap = -1\n"},
		{"unknown feed range", "[feed]\ndefault_range = \"forever\"\n"},
		{"zero posts per feed", "[feed]\nmax_posts_per_feed = 0\n"},
		{"unknown embedding provider", "[embedding]\nprovider = \"word2vec\"\n"},
		{"unknown llm provider", "[llm]\nprovider = \"eliza\"\n"},
		{"port out of range", "[server]\nport = 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}
