// Package config loads lexora's configuration from defaults, an optional TOML
// file and LEXORA_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cbyc/lexora/internal/core/domain"
)

// EnvPrefix prefixes every environment override, e.g. LEXORA_STORE_BACKEND.
const EnvPrefix = "LEXORA"

// FileName is the config file looked up in the working directory.
const FileName = "lexora.toml"

// Config is the merged configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	LogLevel  string          `mapstructure:"log_level"`
	Store     StoreConfig     `mapstructure:"store"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Cache     CacheConfig     `mapstructure:"cache"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Search    SearchConfig    `mapstructure:"search"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Notes     NotesConfig     `mapstructure:"notes"`
	Bookmarks BookmarksConfig `mapstructure:"bookmarks"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// ServerConfig is the HTTP listener.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	Backend    string `mapstructure:"backend"`
	Collection string `mapstructure:"collection"`
	Path       string `mapstructure:"path"`
	DSN        string `mapstructure:"dsn"`
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"api_key"`
}

// EmbeddingConfig selects the embedding provider.
type EmbeddingConfig struct {
	Provider    string `mapstructure:"provider"`
	Model       string `mapstructure:"model"`
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	Dimensions  int    `mapstructure:"dimensions"`
	Concurrency int    `mapstructure:"concurrency"`
}

// Settings converts the section to domain settings.
func (e EmbeddingConfig) Settings() domain.EmbeddingSettings {
	return domain.EmbeddingSettings{
		Provider:   domain.AIProvider(e.Provider),
		Model:      e.Model,
		BaseURL:    e.BaseURL,
		APIKey:     e.APIKey,
		Dimensions: e.Dimensions,
	}
}

// CacheConfig enables the Redis embedding cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// LLMConfig selects the answer-generation provider.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
}

// Settings converts the section to domain settings.
func (l LLMConfig) Settings() domain.LLMSettings {
	return domain.LLMSettings{
		Provider: domain.AIProvider(l.Provider),
		Model:    l.Model,
		BaseURL:  l.BaseURL,
		APIKey:   l.APIKey,
	}
}

// ChunkingConfig sizes chunks in characters.
type ChunkingConfig struct {
	Size    int `mapstructure:"size"`
	Overlap int `mapstructure:"overlap"`
}

// SearchConfig holds the default search options.
type SearchConfig struct {
	TopK           int     `mapstructure:"top_k"`
	ScoreThreshold float64 `mapstructure:"score_threshold"`
}

// Options converts the section to search options.
func (s SearchConfig) Options() domain.SearchOptions {
	return domain.SearchOptions{TopK: s.TopK, ScoreThreshold: s.ScoreThreshold}
}

// SyncConfig selects where cursors are kept. An empty backend follows the
// vector store: memory cursors for a memory store, files otherwise.
type SyncConfig struct {
	Backend string `mapstructure:"backend"`
}

// NotesConfig locates the notes directory.
type NotesConfig struct {
	Dir           string `mapstructure:"dir"`
	SyncStatePath string `mapstructure:"sync_state_path"`
}

// BookmarksConfig locates the Firefox profile and tunes page downloads.
type BookmarksConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	ProfilePath      string        `mapstructure:"profile_path"`
	SyncStatePath    string        `mapstructure:"sync_state_path"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	MaxContentLength int           `mapstructure:"max_content_length"`
	FetchRate        float64       `mapstructure:"fetch_rate"`
}

// FeedConfig locates the feed subscription list and tunes post listings.
type FeedConfig struct {
	DataFile        string        `mapstructure:"data_file"`
	MaxPostsPerFeed int           `mapstructure:"max_posts_per_feed"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	DefaultRange    string        `mapstructure:"default_range"`
}

// TelemetryConfig enables tracing.
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 9002)
	v.SetDefault("log_level", "warn")

	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.collection", "lexora")
	v.SetDefault("store.path", "./data")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.url", "http://localhost:6333")
	v.SetDefault("store.api_key", "")

	v.SetDefault("embedding.provider", "ollama")
	v.SetDefault("embedding.model", "nomic-embed-text")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.dimensions", 768)
	v.SetDefault("embedding.concurrency", 1)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl", "720h")

	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.model", "llama3.2")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")

	v.SetDefault("chunking.size", 500)
	v.SetDefault("chunking.overlap", 50)

	v.SetDefault("search.top_k", domain.DefaultTopK)
	v.SetDefault("search.score_threshold", domain.DefaultScoreThreshold)

	v.SetDefault("sync.backend", "")

	v.SetDefault("notes.dir", "./data/notes")
	v.SetDefault("notes.sync_state_path", "./data/notes_sync.toml")

	v.SetDefault("bookmarks.enabled", true)
	v.SetDefault("bookmarks.profile_path", "auto")
	v.SetDefault("bookmarks.sync_state_path", "./data/bookmarks_sync.toml")
	v.SetDefault("bookmarks.fetch_timeout", "15s")
	v.SetDefault("bookmarks.max_content_length", 50000)
	v.SetDefault("bookmarks.fetch_rate", 2.0)

	v.SetDefault("feed.data_file", "./data/feeds.yaml")
	v.SetDefault("feed.max_posts_per_feed", 50)
	v.SetDefault("feed.fetch_timeout", "10s")
	v.SetDefault("feed.default_range", domain.RangeLastMonth)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.sample_ratio", 1.0)
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load builds the configuration. path names an explicit TOML file; when empty,
// ./lexora.toml and then ~/.lexora/config.toml are tried. A missing file is
// not an error, a malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	file := path
	if file == "" {
		file = findConfigFile()
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			if path != "" || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", file, err)
			}
			file = ""
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Chunking.Size <= 0 {
		errs = append(errs, fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size))
	}
	if c.Chunking.Overlap < 0 {
		errs = append(errs, fmt.Errorf("chunking.overlap must not be negative, got %d", c.Chunking.Overlap))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Search.TopK < 0 {
		errs = append(errs, fmt.Errorf("search.top_k must not be negative, got %d", c.Search.TopK))
	}
	if c.Feed.MaxPostsPerFeed <= 0 {
		errs = append(errs, fmt.Errorf("feed.max_posts_per_feed must be positive, got %d", c.Feed.MaxPostsPerFeed))
	}
	if !domain.IsValidRange(c.Feed.DefaultRange) {
		errs = append(errs, fmt.Errorf("feed.default_range %q: %w", c.Feed.DefaultRange, domain.ErrInvalidInput))
	}
	if p := domain.AIProvider(c.Embedding.Provider); !p.IsValid() {
		errs = append(errs, fmt.Errorf("embedding.provider %q: %w", c.Embedding.Provider, domain.ErrUnknownBackend))
	}
	if p := domain.AIProvider(c.LLM.Provider); c.LLM.Provider != "" && !p.IsValid() {
		errs = append(errs, fmt.Errorf("llm.provider %q: %w", c.LLM.Provider, domain.ErrUnknownBackend))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func findConfigFile() string {
	candidates := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".lexora", "config.toml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
