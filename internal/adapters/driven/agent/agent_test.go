package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
)

type mockLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.messages = messages
	m.opts = opts
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string { return "mock" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error { return nil }

var chunks = []domain.Chunk{
	{Text: "Go was released in 2009.", Source: "notes/go.txt", ChunkIndex: 0},
	{Text: "Rust 1.0 shipped in 2015.", Source: "https://example.com/rust", ChunkIndex: 3},
}

func TestBuildPrompt(t *testing.T) {
	t.Run("with chunks", func(t *testing.T) {
		got := BuildPrompt("When?", chunks)
		want := "Context:\nSOURCE: notes/go.txt\nGo was released in 2009.\n\n" +
			"SOURCE: https://example.com/rust\nRust 1.0 shipped in 2015.\n\nQuestion: When?"
		assert.Equal(t, want, got)
	})

	t.Run("without chunks", func(t *testing.T) {
		assert.Equal(t, "Context: (none)\n\nQuestion: When?", BuildPrompt("When?", nil))
	})
}

func TestAnswer_SendsPromptAndOptions(t *testing.T) {
	llm := &mockLLM{reply: `{"text":"2009","sources":["notes/go.txt"]}`}
	a := New(llm, WithTemperature(0.1), WithMaxTokens(256))

	resp, err := a.Answer(context.Background(), "When was Go released?", chunks)
	require.NoError(t, err)

	assert.Equal(t, &domain.AskResponse{Text: "2009", Sources: []string{"notes/go.txt"}}, resp)
	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	assert.Equal(t, SystemPrompt, llm.messages[0].Content)
	assert.Equal(t, "user", llm.messages[1].Role)
	assert.Contains(t, llm.messages[1].Content, "Question: When was Go released?")
	assert.True(t, llm.opts.JSON)
	assert.Equal(t, 0.1, llm.opts.Temperature)
	assert.Equal(t, 256, llm.opts.MaxTokens)
}

func TestAnswer_ReplyParsing(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  domain.AskResponse
	}{
		{
			name:  "drops unknown and duplicate sources",
			reply: `{"text":"both","sources":["notes/go.txt","[1]","notes/go.txt","https://example.com/rust"]}`,
			want:  domain.AskResponse{Text: "both", Sources: []string{"notes/go.txt", "https://example.com/rust"}},
		},
		{
			name:  "not found clears sources",
			reply: `{"text":"NOT_FOUND","sources":["notes/go.txt"]}`,
			want:  domain.AskResponse{Text: domain.NotFoundText, Sources: []string{}},
		},
		{
			name:  "fenced json",
			reply: "```json\n{\"text\":\"fenced\",\"sources\":[]}\n```",
			want:  domain.AskResponse{Text: "fenced", Sources: []string{}},
		},
		{
			name:  "plain text fallback",
			reply: "  Go came out in 2009.  ",
			want:  domain.AskResponse{Text: "Go came out in 2009.", Sources: []string{}},
		},
		{
			name:  "json without text falls back",
			reply: `{"answer":"x"}`,
			want:  domain.AskResponse{Text: `{"answer":"x"}`, Sources: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := New(&mockLLM{reply: tt.reply}).Answer(context.Background(), "q", chunks)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *resp)
		})
	}
}

func TestAnswer_LLMError(t *testing.T) {
	llm := &mockLLM{err: domain.ErrLLMUnavailable}
	_, err := New(llm).Answer(context.Background(), "q", nil)

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.True(t, errors.Is(err, domain.ErrLLMUnavailable))
	assert.Contains(t, err.Error(), "mock")
}
