// Package cache wraps an embedding service with a Redis-backed vector cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/logger"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultTTL is how long a cached vector lives.
const DefaultTTL = 720 * time.Hour

const keyPrefix = "lexora:embedding:"

// Client is the subset of *redis.Client used by the cache.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// EmbeddingService serves vectors from Redis when present and stores fresh
// ones after delegating to the wrapped service. Cache failures are logged
// and never fail an Embed call.
type EmbeddingService struct {
	inner  driven.EmbeddingService
	client Client
	ttl    time.Duration
}

// New wraps inner with the given client.
func New(inner driven.EmbeddingService, client Client, ttl time.Duration) *EmbeddingService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &EmbeddingService{inner: inner, client: client, ttl: ttl}
}

// NewRedis connects to the Redis server at addr and wraps inner.
func NewRedis(inner driven.EmbeddingService, addr string, ttl time.Duration) *EmbeddingService {
	return New(inner, redis.NewClient(&redis.Options{Addr: addr}), ttl)
}

// Key returns the cache key for text under the wrapped model.
func (s *EmbeddingService) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + s.inner.ModelName() + ":" + hex.EncodeToString(sum[:])
}

// Embed returns the cached vector for text or computes and caches it.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := s.Key(text)

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if vec, ok := decode(raw, s.inner.Dimensions()); ok {
			return vec, nil
		}
		logger.Warn("discarding malformed cached embedding", "key", key)
	case !errors.Is(err, redis.Nil):
		logger.Warn("embedding cache read failed", "error", err)
	}

	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := s.client.Set(ctx, key, encode(vec), s.ttl).Err(); err != nil {
		logger.Warn("embedding cache write failed", "error", err)
	}
	return vec, nil
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the wrapped model name.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the wrapped service. An unreachable cache only produces a warning.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		logger.Warn("embedding cache unreachable", "error", err)
	}
	return s.inner.Ping(ctx)
}

// Close closes the Redis client and the wrapped service.
func (s *EmbeddingService) Close() error {
	var errs []error
	if err := s.client.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if err := s.inner.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func encode(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decode(buf []byte, dimensions int) ([]float32, bool) {
	if len(buf)%4 != 0 || len(buf)/4 != dimensions {
		return nil, false
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, true
}
