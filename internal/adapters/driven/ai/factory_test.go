package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbyc/lexora/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/cbyc/lexora/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/cbyc/lexora/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/cbyc/lexora/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/cbyc/lexora/internal/adapters/driven/llm/ollama"
	openaillm "github.com/cbyc/lexora/internal/adapters/driven/llm/openai"
	"github.com/cbyc/lexora/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.EmbeddingSettings
		wantType any
		wantDims int
	}{
		{
			name:     "ollama known model",
			settings: domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "mxbai-embed-large"},
			wantType: &ollamaembed.EmbeddingService{},
			wantDims: 1024,
		},
		{
			name:     "ollama unknown model uses default size",
			settings: domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "custom"},
			wantType: &ollamaembed.EmbeddingService{},
			wantDims: ollamaembed.DefaultDimensions,
		},
		{
			name:     "explicit dimensions win",
			settings: domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "nomic-embed-text", Dimensions: 12},
			wantType: &ollamaembed.EmbeddingService{},
			wantDims: 12,
		},
		{
			name:     "openai",
			settings: domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, Model: "text-embedding-3-large", APIKey: "k"},
			wantType: &openaiembed.EmbeddingService{},
			wantDims: 3072,
		},
		{
			name:     "hashing",
			settings: domain.EmbeddingSettings{Provider: domain.AIProviderHashing, Dimensions: 64},
			wantType: &hashing.EmbeddingService{},
			wantDims: 64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, svc)
			assert.Equal(t, tt.wantDims, svc.Dimensions())
		})
	}
}

func TestCreateEmbeddingService_NotConfigured(t *testing.T) {
	tests := []domain.EmbeddingSettings{
		{},
		{Provider: domain.AIProviderOpenAI},
		{Provider: domain.AIProviderAnthropic, APIKey: "k"},
		{Provider: "gemini"},
	}
	for _, s := range tests {
		_, err := CreateEmbeddingService(s)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, string(s.Provider))
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.LLMSettings
		wantType any
	}{
		{"ollama", domain.LLMSettings{Provider: domain.AIProviderOllama}, &ollamallm.LLMService{}},
		{"openai", domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"}, &openaillm.LLMService{}},
		{"anthropic", domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"}, &anthropicllm.LLMService{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, svc)
		})
	}

	_, err := CreateLLMService(domain.LLMSettings{Provider: domain.AIProviderHashing})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	ctx := context.Background()

	svc, err := CreateAndValidateEmbeddingService(ctx, domain.EmbeddingSettings{Provider: domain.AIProviderHashing})
	require.NoError(t, err)
	assert.NotNil(t, svc)

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	_, err = CreateAndValidateEmbeddingService(ctx, domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  down.URL,
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCreateAndValidateLLMService(t *testing.T) {
	ctx := context.Background()

	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer up.Close()

	svc, err := CreateAndValidateLLMService(ctx, domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: up.URL})
	require.NoError(t, err)
	assert.Equal(t, ollamallm.DefaultModel, svc.ModelName())

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer down.Close()

	_, err = CreateAndValidateLLMService(ctx, domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "bad",
		BaseURL:  down.URL,
	})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
