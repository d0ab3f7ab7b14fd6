package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driving"
	"github.com/cbyc/lexora/internal/logger"
)

// QueryRequest is the body of POST /api/v1/query. Question is accepted as
// an alias of Query.
type QueryRequest struct {
	Query          string   `json:"query"`
	Question       string   `json:"question"`
	TopK           int      `json:"top_k"`
	ScoreThreshold *float64 `json:"score_threshold"`
}

// AskRequest is the body of POST /api/v1/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ReindexResponse is the body of POST /api/v1/reindex. Error is set when
// some sources failed; the counts still cover the ones that succeeded.
type ReindexResponse struct {
	NotesIndexed     int    `json:"notes_indexed"`
	BookmarksIndexed int    `json:"bookmarks_indexed"`
	Error            string `json:"error,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	text := req.Query
	if text == "" {
		text = req.Question
	}
	if strings.TrimSpace(text) == "" {
		respondError(c, http.StatusBadRequest, errors.New("query must not be empty"))
		return
	}

	var (
		chunks []domain.Chunk
		err    error
	)
	if req.TopK == 0 && req.ScoreThreshold == nil {
		chunks, err = s.ports.Pipeline.SearchDocumentStore(c.Request.Context(), text)
	} else {
		opts := s.ports.Pipeline.Defaults()
		if req.TopK > 0 {
			opts.TopK = req.TopK
		}
		if req.ScoreThreshold != nil {
			opts.ScoreThreshold = *req.ScoreThreshold
		}
		chunks, err = s.ports.Pipeline.Search(c.Request.Context(), text, opts)
	}
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	c.JSON(http.StatusOK, chunks)
}

func (s *Server) ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(c, http.StatusBadRequest, errors.New("question must not be empty"))
		return
	}

	resp, err := s.ports.Pipeline.Ask(c.Request.Context(), req.Question)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	if resp.Sources == nil {
		resp.Sources = []string{}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) reindex(c *gin.Context) {
	var (
		res *driving.ReindexResult
		err error
	)
	if kind := c.Query("kind"); kind != "" {
		res = &driving.ReindexResult{}
		var n int
		n, err = s.ports.Reindex.ReindexSource(c.Request.Context(), domain.SourceKind(kind))
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, err)
			return
		}
		switch domain.SourceKind(kind) {
		case domain.SourceKindNotes:
			res.NotesIndexed = n
		case domain.SourceKindBookmarks:
			res.BookmarksIndexed = n
		}
	} else {
		res, err = s.ports.Reindex.Reindex(c.Request.Context())
	}

	body := ReindexResponse{}
	if res != nil {
		body.NotesIndexed = res.NotesIndexed
		body.BookmarksIndexed = res.BookmarksIndexed
	}
	if err != nil {
		logger.Error("reindex failed", "error", err)
		body.Error = err.Error()
		c.JSON(statusFor(err), body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) syncState(c *gin.Context) {
	states, err := s.ports.Reindex.Cursors(c.Request.Context())
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	if states == nil {
		states = []domain.SyncState{}
	}
	c.JSON(http.StatusOK, states)
}

// statusFor maps core errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateFeed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidFeed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrVectorStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}
