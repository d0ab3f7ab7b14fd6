package firefox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/normalisers/html"
)

// Ensure PageFetcher implements the interface.
var _ driven.PageFetcher = (*PageFetcher)(nil)

// Default fetch settings.
const (
	DefaultFetchTimeout     = 15 * time.Second
	DefaultMaxContentLength = 50000
	DefaultFetchRate        = 2.0

	maxBodyBytes = 10 << 20
	userAgent    = "lexora (+https://github.com/cbyc/lexora)"
)

// FetcherConfig configures a PageFetcher.
type FetcherConfig struct {
	// Timeout bounds each download (default 15s).
	Timeout time.Duration

	// MaxContentLength truncates extracted text to this many runes (default 50000).
	MaxContentLength int

	// RatePerSecond limits downloads across all hosts (default 2).
	RatePerSecond float64

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// PageFetcher downloads pages and extracts their readable text.
type PageFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	maxLength int
}

// NewPageFetcher creates a rate-limited page fetcher.
func NewPageFetcher(cfg FetcherConfig) *PageFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFetchTimeout
	}
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = DefaultMaxContentLength
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultFetchRate
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &PageFetcher{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		maxLength: cfg.MaxContentLength,
	}
}

// Fetch downloads url and returns its text. HTML is converted to text;
// text/plain is returned as is; other content types are rejected.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}

	contentType := resp.Header.Get("Content-Type")
	var text string
	switch {
	case contentType == "" || html.Supports(contentType):
		text = html.Text(string(body))
	case strings.HasPrefix(contentType, "text/plain"):
		text = strings.TrimSpace(string(body))
	default:
		return "", fmt.Errorf("get %s: unsupported content type %q", url, contentType)
	}

	return truncate(text, f.maxLength), nil
}

func truncate(s string, maxRunes int) string {
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
