package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cbyc/lexora/internal/core/domain"
	"github.com/cbyc/lexora/internal/core/ports/driving"
	"github.com/cbyc/lexora/internal/logger"
)

// feedErrorsHeader is set to "all-feeds-failed" when no subscribed feed
// could be fetched.
const feedErrorsHeader = "X-Feed-Errors"

// AddFeedRequest is the body of PUT /api/v1/rss.
type AddFeedRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AddFeedResponse is returned when a feed was subscribed.
type AddFeedResponse struct {
	Message string      `json:"message"`
	Feed    domain.Feed `json:"feed"`
}

// listPosts serves GET /api/v1/rss?range=last_week or ?from=...&to=...
func (s *Server) listPosts(c *gin.Context) {
	res, err := s.ports.Feeds.Posts(c.Request.Context(), driving.PostsQuery{
		Range: c.Query("range"),
		From:  c.Query("from"),
		To:    c.Query("to"),
	})
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	if res.AllFailed() {
		c.Header(feedErrorsHeader, "all-feeds-failed")
	}
	posts := res.Posts
	if posts == nil {
		posts = []domain.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

func (s *Server) addFeed(c *gin.Context) {
	var req AddFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	feed, err := s.ports.Feeds.AddFeed(c.Request.Context(), req.Name, req.URL)
	if err != nil {
		logger.Warn("feed rejected", "url", req.URL, "error", err)
		respondError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusCreated, AddFeedResponse{Message: "Feed added successfully", Feed: *feed})
}
