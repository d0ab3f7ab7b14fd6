// Package ai builds embedding and chat services from provider settings.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/cbyc/lexora/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/cbyc/lexora/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/cbyc/lexora/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/cbyc/lexora/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/cbyc/lexora/internal/adapters/driven/llm/ollama"
	openaillm "github.com/cbyc/lexora/internal/adapters/driven/llm/openai"
	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

// PingTimeout bounds connectivity validation.
const PingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider %q not configured: %w", settings.Provider, domain.ErrInvalidInput)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: embeddingDimensions(settings),
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: embeddingDimensions(settings),
		})

	case domain.AIProviderHashing:
		return hashing.NewEmbeddingService(settings.Dimensions)

	default:
		return nil, fmt.Errorf("embedding provider %q: %w", settings.Provider, domain.ErrUnknownBackend)
	}
}

// embeddingDimensions prefers an explicit size, then the known size of the model.
func embeddingDimensions(settings domain.EmbeddingSettings) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	return domain.EmbeddingDimensions()[settings.Model]
}

// CreateLLMService creates the chat service selected by settings.
func CreateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("llm provider %q not configured: %w", settings.Provider, domain.ErrInvalidInput)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("llm provider %q: %w", settings.Provider, domain.ErrUnknownBackend)
	}
}

// CreateAndValidateEmbeddingService creates the embedding service and pings it.
// An unreachable service is closed and reported as ErrEmbeddingUnavailable.
func CreateAndValidateEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable: %w", domain.ErrEmbeddingUnavailable, settings.Provider, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates the chat service and pings it.
// An unreachable service is closed and reported as ErrLLMUnavailable.
func CreateAndValidateLLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable: %w", domain.ErrLLMUnavailable, settings.Provider, err)
	}
	return svc, nil
}
