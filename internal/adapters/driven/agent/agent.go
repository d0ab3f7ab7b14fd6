// Package agent answers questions from retrieved chunks with a chat model.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driven"
	"github.com/cbyc/lexora/internal/logger"
)

var _ driven.AskAgent = (*Agent)(nil)

// SystemPrompt constrains the model to the supplied context and to the JSON
// reply shape parsed by Answer.
var SystemPrompt = `You are a retrieval-augmented assistant. Answer the user's question using ONLY the provided context. Do not use any external knowledge.

Reply with a single JSON object of the form {"text": "...", "sources": ["..."]}.

Rules:
- If the context contains a relevant answer, put your answer in "text" and list ONLY the source URLs or paths you drew from in "sources". Each entry in "sources" must be the exact string that appears after "SOURCE:" in the context block, never a reference number like [1] or [2].
- If the context does not contain a relevant answer, set "text" to exactly "` + domain.NotFoundText + `" and "sources" to an empty list.
- Never include a source in "sources" that you did not draw from in your answer.`

// Option configures an Agent.
type Option func(*Agent)

// WithTemperature sets the sampling temperature (default 0).
func WithTemperature(t float64) Option {
	return func(a *Agent) { a.temperature = t }
}

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) Option {
	return func(a *Agent) { a.maxTokens = n }
}

// Agent is an AskAgent backed by an LLMService.
type Agent struct {
	llm         driven.LLMService
	temperature float64
	maxTokens   int
}

// New creates an agent using llm.
func New(llm driven.LLMService, opts ...Option) *Agent {
	a := &Agent{llm: llm}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type reply struct {
	Text    string   `json:"text"`
	Sources []string `json:"sources"`
}

// Answer asks the model for a grounded answer. Sources not present among
// chunks are dropped. A reply that is not the expected JSON is returned as
// plain text with no sources.
func (a *Agent) Answer(ctx context.Context, question string, chunks []domain.Chunk) (*domain.AskResponse, error) {
	messages := []driven.ChatMessage{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: BuildPrompt(question, chunks)},
	}

	raw, err := a.llm.Chat(ctx, messages, driven.ChatOptions{
		JSON:        true,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("ask %s: %w", a.llm.ModelName(), err)
	}

	return parseReply(raw, chunks), nil
}

// BuildPrompt formats the user turn: every chunk as a SOURCE block followed by the question.
func BuildPrompt(question string, chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return "Context: (none)\n\nQuestion: " + question
	}

	blocks := make([]string, len(chunks))
	for i, c := range chunks {
		blocks[i] = "SOURCE: " + c.Source + "\n" + c.Text
	}
	return "Context:\n" + strings.Join(blocks, "\n\n") + "\n\nQuestion: " + question
}

func parseReply(raw string, chunks []domain.Chunk) *domain.AskResponse {
	body := strings.TrimSpace(raw)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)

	var r reply
	if err := json.Unmarshal([]byte(body), &r); err != nil || r.Text == "" {
		logger.Debug("ask reply not structured", "error", err)
		return &domain.AskResponse{Text: strings.TrimSpace(raw), Sources: []string{}}
	}

	text := strings.TrimSpace(r.Text)
	if text == domain.NotFoundText {
		return &domain.AskResponse{Text: domain.NotFoundText, Sources: []string{}}
	}

	known := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		known[c.Source] = struct{}{}
	}

	sources := make([]string, 0, len(r.Sources))
	seen := make(map[string]struct{}, len(r.Sources))
	for _, s := range r.Sources {
		s = strings.TrimSpace(s)
		if _, ok := known[s]; !ok {
			logger.Debug("dropping ungrounded source", "source", s)
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		sources = append(sources, s)
	}

	return &domain.AskResponse{Text: text, Sources: sources}
}
