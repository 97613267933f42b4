// Package server exposes the solver, the recovery pipeline and the history
// store over HTTP with gin.
//
// Routes:
//
//	POST   /api/solve         answer a question
//	POST   /api/recover       run the recovery pipeline on raw LLM text
//	GET    /api/history       list the caller's answered questions
//	DELETE /api/history/:id   delete one of the caller's entries
//	GET    /healthz           liveness probe
//
// Callers are identified by the X-User-ID header, set by the authenticating
// proxy in front of the service.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/geegl/studyhelper/core/recovery"
	"github.com/geegl/studyhelper/core/solve"
	"github.com/geegl/studyhelper/providers/history"
)

// UserHeader carries the authenticated user id.
const UserHeader = "X-User-ID"

// DefaultMaxBodyBytes caps request bodies unless WithMaxBodyBytes is used.
const DefaultMaxBodyBytes int64 = 1 << 20

const userIDKey = "userID"

// Solver answers one question.
type Solver interface {
	Solve(ctx context.Context, q solve.Question) (*solve.Result, error)
}

// Recoverer turns raw LLM text into a recovered record.
type Recoverer interface {
	Recover(ctx context.Context, raw string) recovery.Outcome
}

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	solver       Solver
	recoverer    Recoverer
	store        history.Store
	logger       *slog.Logger
	corsOrigins  []string
	maxBodyBytes int64
	engine       *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithHistory enables the history routes.
func WithHistory(store history.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger sets the request logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodyBytes caps the size of request bodies. Larger bodies are
// answered with 413. A non-positive n keeps DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithCORSOrigins allows browser calls from origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = append(s.corsOrigins, origins...)
	}
}

// New builds the router.
func New(solver Solver, recoverer Recoverer, opts ...Option) *Server {
	s := &Server{
		solver:       solver,
		recoverer:    recoverer,
		logger:       slog.Default(),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// NewHTTPServer wraps the handler in an http.Server listening on addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	if len(s.corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.corsOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowHeaders: []string{"Origin", "Content-Type", UserHeader},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", limitBody(s.maxBodyBytes))
	api.POST("/solve", optionalUser(), s.handleSolve)
	api.POST("/recover", s.handleRecover)

	if s.store != nil {
		hist := api.Group("/history", requireUser())
		hist.GET("", s.handleListHistory)
		hist.DELETE("/:id", s.handleDeleteHistory)
	}

	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

func optionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader(UserHeader); userID != "" {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + UserHeader + " header"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}
