package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driving"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to find similar passages for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput is one retrieved passage.
type SearchResultOutput struct {
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from indexed notes and bookmarks"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Found   bool     `json:"found"`
}

// ReindexInput is the input schema for the reindex tool.
type ReindexInput struct {
	Kind string `json:"kind,omitempty" jsonschema:"source kind to sync (notes or bookmarks); all when empty"`
}

// ReindexOutput is the output schema for the reindex tool.
type ReindexOutput struct {
	NotesIndexed     int `json:"notes_indexed"`
	BookmarksIndexed int `json:"bookmarks_indexed"`
}

// FeedPostsInput is the input schema for the feed_posts tool.
type FeedPostsInput struct {
	Range string `json:"range,omitempty" jsonschema:"today, last_week, last_month, last_3_months, last_6_months or last_year"`
	From  string `json:"from,omitempty" jsonschema:"earliest publication time, RFC 3339; overrides range"`
	To    string `json:"to,omitempty" jsonschema:"latest publication time, RFC 3339; overrides range"`
}

// FeedPostsOutput is the output schema for the feed_posts tool.
type FeedPostsOutput struct {
	Posts       []domain.Post `json:"posts"`
	FailedFeeds []string      `json:"failed_feeds"`
}

var errEmptyInput = errors.New("input must not be empty")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find passages in the indexed notes and bookmarks most similar to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the indexed notes and bookmarks",
	}, s.handleAsk)

	if s.ports.Reindex != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "reindex",
			Description: "Index notes and bookmarks added since the last sync",
		}, s.handleReindex)
	}

	if s.ports.Feeds != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "feed_posts",
			Description: "List recent posts of the subscribed RSS and Atom feeds, newest first",
		}, s.handleFeedPosts)
	}
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchOutput{}, errEmptyInput
	}

	opts := s.ports.Pipeline.Defaults()
	if input.TopK > 0 {
		opts.TopK = input.TopK
	}
	chunks, err := s.ports.Pipeline.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(chunks)),
		Count:   len(chunks),
	}
	for i, c := range chunks {
		output.Results[i] = SearchResultOutput{
			Source:     c.Source,
			ChunkIndex: c.ChunkIndex,
			Score:      c.Score,
			Text:       c.Text,
		}
	}

	return nil, output, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, errEmptyInput
	}

	resp, err := s.ports.Pipeline.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	sources := resp.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, AskOutput{Answer: resp.Text, Sources: sources, Found: resp.Found()}, nil
}

func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReindexInput,
) (*mcp.CallToolResult, ReindexOutput, error) {
	if input.Kind != "" {
		kind := domain.SourceKind(input.Kind)
		n, err := s.ports.Reindex.ReindexSource(ctx, kind)
		if err != nil {
			return nil, ReindexOutput{}, err
		}
		out := ReindexOutput{}
		if kind == domain.SourceKindNotes {
			out.NotesIndexed = n
		} else {
			out.BookmarksIndexed = n
		}
		return nil, out, nil
	}

	res, err := s.ports.Reindex.Reindex(ctx)
	if err != nil {
		return nil, ReindexOutput{}, err
	}
	return nil, ReindexOutput{NotesIndexed: res.NotesIndexed, BookmarksIndexed: res.BookmarksIndexed}, nil
}

func (s *Server) handleFeedPosts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FeedPostsInput,
) (*mcp.CallToolResult, FeedPostsOutput, error) {
	res, err := s.ports.Feeds.Posts(ctx, driving.PostsQuery{Range: input.Range, From: input.From, To: input.To})
	if err != nil {
		return nil, FeedPostsOutput{}, err
	}

	out := FeedPostsOutput{Posts: res.Posts, FailedFeeds: make([]string, 0, len(res.Errors))}
	if out.Posts == nil {
		out.Posts = []domain.Post{}
	}
	for _, fe := range res.Errors {
		out.FailedFeeds = append(out.FailedFeeds, fe.FeedName)
	}
	return nil, out, nil
}
