package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/memvault/memvault/pkg/model"
	"github.com/memvault/memvault/pkg/usecase/memory"
	"github.com/memvault/memvault/pkg/utils/logging"
)

// Server is the HTTP surface over the lifecycle engine.
type Server struct {
	uc     *memory.UseCase
	engine *gin.Engine
}

func New(uc *memory.UseCase) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		uc:     uc,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.POST("/memories", s.addMemories)
	s.engine.GET("/memories", s.listMemories)
	s.engine.GET("/memories/:id", s.getMemory)
	s.engine.GET("/memories/:id/history", s.memoryHistory)
	s.engine.PUT("/memories/:id", s.updateMemory)
	s.engine.DELETE("/memories/:id", s.deleteMemory)
	s.engine.DELETE("/memories", s.deleteAllMemories)
	s.engine.POST("/search", s.searchMemories)
	s.engine.POST("/reset", s.reset)

	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.engine,
		ReadTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.From(ctx).Info("starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.From(c.Request.Context()).Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// respondError maps engine errors onto HTTP status codes and the shared
// error envelope.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := "internal"

	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		status = http.StatusBadRequest
		kind = "invalid_request"
	case errors.Is(err, model.ErrMemoryNotFound):
		status = http.StatusNotFound
		kind = "not_found"
	case errors.Is(err, model.ErrExtractionFailed):
		status = http.StatusUnprocessableEntity
		kind = "extraction_failed"
	case errors.Is(err, model.ErrPartialFailure):
		kind = "partial_failure"
	}

	if status >= http.StatusInternalServerError {
		logging.From(c.Request.Context()).Error("request failed", "error", err)
	}

	c.JSON(status, gin.H{"error": errorBody{Kind: kind, Message: err.Error()}})
}
