package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geegl/studyhelper/core/recovery"
	"github.com/geegl/studyhelper/core/solve"
	"github.com/geegl/studyhelper/providers/ai"
	"github.com/geegl/studyhelper/providers/history"
)

const maxHistoryLimit = 100

// ChatMessage is one message of the chat-style solve body.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SolveRequest accepts either a question or a chat transcript whose last
// message is the question.
type SolveRequest struct {
	Question string        `json:"question"`
	Messages []ChatMessage `json:"messages"`
}

func (r SolveRequest) text() string {
	if r.Question != "" {
		return r.Question
	}
	if n := len(r.Messages); n > 0 {
		return r.Messages[n-1].Content
	}
	return ""
}

// SolveResponse is the body of a successful solve.
type SolveResponse struct {
	Success    bool                `json:"success"`
	Data       recovery.Answer     `json:"data"`
	Confidence recovery.Confidence `json:"confidence,omitempty"`
	Fallback   bool                `json:"fallback"`
	HistoryID  string              `json:"history_id,omitempty"`
	Model      string              `json:"model,omitempty"`
	Usage      ai.Usage            `json:"usage"`
	Cost       float64             `json:"cost,omitempty"`
	Truncated  bool                `json:"truncated,omitempty"`
}

// RecoverRequest carries raw LLM text.
type RecoverRequest struct {
	Text string `json:"text"`
}

// RecoverResponse is the body of /api/recover.
type RecoverResponse struct {
	Success    bool                `json:"success"`
	Data       recovery.Answer     `json:"data"`
	Confidence recovery.Confidence `json:"confidence,omitempty"`
	Fallback   bool                `json:"fallback"`
}

// bindJSON decodes the body into dst and writes the error response when it
// cannot.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
	return false
}

func (s *Server) handleSolve(c *gin.Context) {
	var req SolveRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := s.solver.Solve(c.Request.Context(), solve.Question{
		UserID: c.GetString(userIDKey),
		Text:   req.text(),
	})
	if errors.Is(err, solve.ErrEmptyQuestion) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is empty"})
		return
	}
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "solve failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to generate solution",
			"details": err.Error(),
		})
		return
	}

	resp := SolveResponse{
		Success:    true,
		Data:       result.Answer,
		Confidence: result.Confidence,
		Fallback:   result.Fallback,
		Model:      result.Model,
		Usage:      result.Usage,
		Cost:       result.Cost,
		Truncated:  result.Truncated,
	}
	if result.HistoryID != uuid.Nil {
		resp.HistoryID = result.HistoryID.String()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRecover(c *gin.Context) {
	var req RecoverRequest
	if !bindJSON(c, &req) {
		return
	}

	outcome := s.recoverer.Recover(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, RecoverResponse{
		Success:    true,
		Data:       outcome.Answer(),
		Confidence: outcome.Confidence,
		Fallback:   outcome.Fallback,
	})
}

func (s *Server) handleListHistory(c *gin.Context) {
	limit := history.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := s.store.List(c.Request.Context(), c.GetString(userIDKey), limit)
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "list history failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entries})
}

func (s *Server) handleDeleteHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history id"})
		return
	}

	err = s.store.Delete(c.Request.Context(), c.GetString(userIDKey), id)
	switch {
	case errors.Is(err, history.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "history entry not found"})
	case err != nil:
		s.logger.ErrorContext(c.Request.Context(), "delete history failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete history entry"})
	default:
		c.Status(http.StatusNoContent)
	}
}
