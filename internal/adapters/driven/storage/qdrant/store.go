// Package qdrant provides a Qdrant REST implementation of driven.VectorStore.
//
// Points are keyed by the chunk's UUID and carry the payload
// {text, source, chunk_index}. The collection uses cosine distance, for
// which Qdrant already reports similarity scores.
//
// A document is written in two requests: one wait=true upsert of its points,
// then a filtered delete of older points at the same (source, chunk_index)
// positions. Qdrant has no multi-request transaction, so a failed delete
// leaves the replaced text searchable next to the new text until the
// document is ingested again.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// Default configuration values.
const (
	DefaultURL     = "http://localhost:6333"
	DefaultTimeout = 30 * time.Second
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Config holds Qdrant connection settings.
type Config struct {
	// URL is the Qdrant REST endpoint.
	URL string

	// APIKey is sent as the api-key header when set.
	APIKey string

	// Collection is the collection name.
	Collection string

	// Dimensions is the vector size used when creating the collection.
	Dimensions int

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// Store is a minimal Qdrant REST client bound to one collection.
type Store struct {
	baseURL    string
	apiKey     string
	collection string
	dimensions int
	client     *http.Client
}

// New creates a Qdrant store. No request is made until EnsureCollection.
func New(cfg Config) (*Store, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant collection: %w", domain.ErrInvalidInput)
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant dimensions %d: %w", cfg.Dimensions, domain.ErrInvalidInput)
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
		client:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// payload is the stored point payload.
type payload struct {
	Text       string `json:"text"`
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
}

type point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload payload   `json:"payload"`
}

type searchRequest struct {
	Vector         []float32 `json:"vector"`
	Limit          int       `json:"limit"`
	WithPayload    bool      `json:"with_payload"`
	ScoreThreshold *float64  `json:"score_threshold,omitempty"`
}

type searchResponse struct {
	Result []struct {
		ID      any     `json:"id"`
		Score   float64 `json:"score"`
		Payload payload `json:"payload"`
	} `json:"result"`
}

// EnsureCollection creates the collection with cosine distance if it does not exist.
func (s *Store) EnsureCollection(ctx context.Context) error {
	status, err := s.do(ctx, http.MethodGet, s.collectionPath(), nil, nil)
	if err != nil && status != http.StatusNotFound {
		return fmt.Errorf("get collection: %w", err)
	}
	if status == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimensions,
			"distance": "Cosine",
		},
	}
	if _, err := s.do(ctx, http.MethodPut, s.collectionPath(), body, nil); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// AddChunks upserts all points in one request and waits for it to be applied.
// Points at the same (source, chunk_index) with a different ID are deleted first.
func (s *Store) AddChunks(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("upsert points: %w: %d chunks, %d embeddings",
			domain.ErrLengthMismatch, len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]point, len(chunks))
	for i, c := range chunks {
		if len(embeddings[i]) != s.dimensions {
			return fmt.Errorf("upsert points: %w: got %d, want %d",
				domain.ErrDimensionMismatch, len(embeddings[i]), s.dimensions)
		}
		points[i] = point{
			ID:      c.ID(),
			Vector:  embeddings[i],
			Payload: payload{Text: c.Text, Source: c.Source, ChunkIndex: c.ChunkIndex},
		}
	}

	if _, err := s.do(ctx, http.MethodPut, s.collectionPath()+"/points?wait=true",
		map[string]any{"points": points}, nil); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}

	for _, filter := range stalePositionFilters(points) {
		if _, err := s.do(ctx, http.MethodPost, s.collectionPath()+"/points/delete?wait=true",
			map[string]any{"filter": filter}, nil); err != nil {
			return fmt.Errorf("delete replaced points: %w", err)
		}
	}
	return nil
}

// stalePositionFilters builds one delete filter per source, matching the
// batch's chunk indexes but excluding the batch's own point IDs.
func stalePositionFilters(points []point) []map[string]any {
	type group struct {
		indexes []int
		ids     []string
	}
	bySource := make(map[string]*group)
	var sources []string
	for _, p := range points {
		g, ok := bySource[p.Payload.Source]
		if !ok {
			g = &group{}
			bySource[p.Payload.Source] = g
			sources = append(sources, p.Payload.Source)
		}
		g.indexes = append(g.indexes, p.Payload.ChunkIndex)
		g.ids = append(g.ids, p.ID)
	}
	sort.Strings(sources)

	filters := make([]map[string]any, 0, len(sources))
	for _, src := range sources {
		g := bySource[src]
		filters = append(filters, map[string]any{
			"must": []any{
				map[string]any{"key": "source", "match": map[string]any{"value": src}},
				map[string]any{"key": "chunk_index", "match": map[string]any{"any": g.indexes}},
			},
			"must_not": []any{
				map[string]any{"has_id": g.ids},
			},
		})
	}
	return filters
}

// Search queries the collection; Qdrant applies the threshold and limit.
func (s *Store) Search(ctx context.Context, query []float32, topK int, scoreThreshold float64) ([]domain.Chunk, error) {
	if len(query) != s.dimensions {
		return nil, fmt.Errorf("search points: %w: got %d, want %d", domain.ErrDimensionMismatch, len(query), s.dimensions)
	}
	if topK <= 0 {
		return []domain.Chunk{}, nil
	}

	threshold := scoreThreshold
	req := searchRequest{Vector: query, Limit: topK, WithPayload: true, ScoreThreshold: &threshold}

	var resp searchResponse
	status, err := s.do(ctx, http.MethodPost, s.collectionPath()+"/points/search", req, &resp)
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("search points: collection %q: %w: %w", s.collection, domain.ErrNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}

	results := make([]domain.Chunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		if r.Score < scoreThreshold {
			continue
		}
		results = append(results, domain.Chunk{
			Text:       r.Payload.Text,
			Source:     r.Payload.Source,
			ChunkIndex: r.Payload.ChunkIndex,
			Score:      r.Score,
		})
	}
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// DeleteCollection drops the collection. A missing collection is not an error.
func (s *Store) DeleteCollection(ctx context.Context) error {
	status, err := s.do(ctx, http.MethodDelete, s.collectionPath(), nil, nil)
	if err != nil && status != http.StatusNotFound {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// Close releases idle HTTP connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Store) collectionPath() string {
	return "/collections/" + url.PathEscape(s.collection)
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
// The HTTP status is returned alongside any error; 0 means no response.
func (s *Store) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, fmt.Errorf("qdrant %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
