package solve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/geegl/studyhelper/core/client"
	"github.com/geegl/studyhelper/core/cost"
	"github.com/geegl/studyhelper/core/recovery"
	"github.com/geegl/studyhelper/internal/utils"
	"github.com/geegl/studyhelper/providers/ai"
	"github.com/geegl/studyhelper/providers/history"
)

// ErrEmptyQuestion is returned by Solve when the question text is blank.
var ErrEmptyQuestion = errors.New("studyhelper: question is empty")

// Sender sends one prompt to an LLM. *client.Client implements it.
type Sender interface {
	SendMessage(ctx context.Context, prompt string, opts ...client.SendMessageOption) (*ai.ChatResponse, error)
}

// Question is one exam question asked by a user.
type Question struct {
	UserID string
	Text   string
}

// Result is the recovered answer of one question.
type Result struct {
	Answer     recovery.Answer
	Confidence recovery.Confidence
	Fallback   bool
	// HistoryID is uuid.Nil when no store is configured, the question has no
	// user, or saving failed.
	HistoryID uuid.UUID
	Model     string
	// Usage is the total recorded in the request's ai.Overview, covering the
	// primary request and any secondary repair call.
	Usage ai.Usage
	// Cost is the estimated USD cost of Usage, zero without WithModelCost.
	Cost      float64
	Truncated bool
}

// Solver answers exam questions: one LLM call followed by the recovery
// pipeline.
type Solver struct {
	sender   Sender
	pipeline *recovery.Pipeline
	store    history.Store
	pricing  cost.ModelCost
	logger   *slog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithHistory stores every answered question in store.
func WithHistory(store history.Store) Option {
	return func(s *Solver) {
		s.store = store
	}
}

// WithModelCost enables the cost estimate of each result.
func WithModelCost(pricing cost.ModelCost) Option {
	return func(s *Solver) {
		s.pricing = pricing
	}
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Solver sending questions through sender and recovering the
// replies with pipeline.
func New(sender Sender, pipeline *recovery.Pipeline, opts ...Option) (*Solver, error) {
	if sender == nil {
		return nil, errors.New("studyhelper: solver needs a sender")
	}
	if pipeline == nil {
		return nil, errors.New("studyhelper: solver needs a recovery pipeline")
	}
	s := &Solver{
		sender:   sender,
		pipeline: pipeline,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Solve asks the LLM and recovers the answer. An LLM failure is returned as an
// error. Once a reply exists Solve always returns a Result, falling back when
// recovery fails.
func (s *Solver) Solve(ctx context.Context, q Question) (*Result, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, ErrEmptyQuestion
	}

	overview := ai.OverviewFromContext(ctx)
	if overview == nil {
		overview = &ai.Overview{}
		ctx = overview.ToContext(ctx)
	}

	response, err := s.sender.SendMessage(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("solve: llm request: %w", err)
	}

	outcome := s.pipeline.Recover(ctx, response.Content)
	result := &Result{
		Answer:     outcome.Answer(),
		Confidence: outcome.Confidence,
		Fallback:   outcome.Fallback,
		Model:      response.Model,
		Usage:      overview.TotalUsage(),
		Truncated:  response.Truncated(),
	}
	if !s.pricing.IsZero() {
		result.Cost = s.pricing.Calculate(result.Usage)
	}

	if outcome.Fallback {
		s.logger.WarnContext(ctx, "answer could not be recovered",
			slog.String("model", response.Model),
			slog.String("reply", utils.TruncateString(response.Content, 200)),
		)
	}

	s.save(ctx, q.UserID, text, result)
	return result, nil
}

func (s *Solver) save(ctx context.Context, userID, question string, result *Result) {
	if s.store == nil || userID == "" {
		return
	}

	entry := history.NewEntry(userID, question)
	entry.Answer = result.Answer
	entry.Confidence = result.Confidence
	entry.Fallback = result.Fallback
	entry.Model = result.Model

	if err := s.store.Save(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to save history entry",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}
	result.HistoryID = entry.ID
}
