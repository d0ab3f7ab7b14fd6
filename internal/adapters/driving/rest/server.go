// Package rest serves the pipeline over a JSON HTTP API built on gin.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cbyc/lexora/internal/core/ports/driving"
	"github.com/cbyc/lexora/internal/logger"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// ErrMissingPipeline is returned when the pipeline is not provided.
var ErrMissingPipeline = errors.New("rest: pipeline is required")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Pipeline driving.Pipeline

	// Reindex is optional; without it POST /api/v1/reindex is not routed.
	Reindex driving.ReindexService

	// Feeds is optional; without it /api/v1/rss is not routed.
	Feeds driving.FeedService
}

// Server is the REST API server.
type Server struct {
	ports  *Ports
	engine *gin.Engine
}

// NewServer builds the router.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil || ports.Pipeline == nil {
		return nil, ErrMissingPipeline
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
		ExposeHeaders:   []string{feedErrorsHeader},
		MaxAge:          12 * time.Hour,
	}))

	s := &Server{ports: ports, engine: engine}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	v1 := s.engine.Group("/api/v1")
	v1.POST("/query", s.query)
	v1.POST("/ask", s.ask)
	if s.ports.Reindex != nil {
		v1.POST("/reindex", s.reindex)
		v1.GET("/sync-state", s.syncState)
	}
	if s.ports.Feeds != nil {
		v1.GET("/rss", s.listPosts)
		v1.PUT("/rss", s.addFeed)
	}
}

// Handler returns the router, for tests and embedding in other servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
