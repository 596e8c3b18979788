package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memvault/memvault/pkg/model"
	"github.com/memvault/memvault/pkg/usecase/memory"
)

type addRequest struct {
	UserID   string            `json:"user_id"`
	RawInput string            `json:"raw_input"`
	Metadata map[string]string `json:"metadata"`
}

func (s *Server) addMemories(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, goerr.Wrap(model.ErrInvalidRequest, "invalid request body", goerr.Value("cause", err.Error())))
		return
	}

	out, err := s.uc.Add(c.Request.Context(), memory.AddInput{
		UserID:   req.UserID,
		RawInput: req.RawInput,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) listMemories(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		respondError(c, goerr.Wrap(model.ErrInvalidRequest, "user_id is required"))
		return
	}

	memories, err := s.uc.List(c.Request.Context(), userID, queryFilters(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"memories": memories})
}

func (s *Server) getMemory(c *gin.Context) {
	m, err := s.uc.Get(c.Request.Context(), model.MemoryID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

func (s *Server) memoryHistory(c *gin.Context) {
	events, err := s.uc.History(c.Request.Context(), model.MemoryID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	if events == nil {
		events = []*model.HistoryEvent{}
	}

	c.JSON(http.StatusOK, gin.H{"history": events})
}

type updateRequest struct {
	Content string `json:"content"`
}

func (s *Server) updateMemory(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, goerr.Wrap(model.ErrInvalidRequest, "invalid request body", goerr.Value("cause", err.Error())))
		return
	}

	m, err := s.uc.Update(c.Request.Context(), model.MemoryID(c.Param("id")), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

func (s *Server) deleteMemory(c *gin.Context) {
	if err := s.uc.Delete(c.Request.Context(), model.MemoryID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) deleteAllMemories(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		respondError(c, goerr.Wrap(model.ErrInvalidRequest, "user_id is required"))
		return
	}

	count, err := s.uc.DeleteAll(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": count})
}

type searchRequest struct {
	UserID  string            `json:"user_id"`
	Query   string            `json:"query"`
	TopK    int               `json:"top_k"`
	Filters map[string]string `json:"filters"`
}

func (s *Server) searchMemories(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, goerr.Wrap(model.ErrInvalidRequest, "invalid request body", goerr.Value("cause", err.Error())))
		return
	}

	results, err := s.uc.Search(c.Request.Context(), req.UserID, req.Query, req.TopK, req.Filters)
	if err != nil {
		respondError(c, err)
		return
	}
	if results == nil {
		results = []*model.SearchResult{}
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) reset(c *gin.Context) {
	if err := s.uc.Reset(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// queryFilters turns all non-reserved query params into metadata filters.
func queryFilters(c *gin.Context) map[string]string {
	filters := make(map[string]string)
	for k, vs := range c.Request.URL.Query() {
		if k == "user_id" || len(vs) == 0 {
			continue
		}
		filters[k] = vs[0]
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}
