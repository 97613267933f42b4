// Package app wires configuration into the provider, recovery pipeline,
// solver and history store shared by the studyhelper binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geegl/studyhelper/core/client"
	"github.com/geegl/studyhelper/core/client/middleware"
	"github.com/geegl/studyhelper/core/cost"
	"github.com/geegl/studyhelper/core/recovery"
	"github.com/geegl/studyhelper/core/solve"
	"github.com/geegl/studyhelper/internal/config"
	"github.com/geegl/studyhelper/providers/ai"
	"github.com/geegl/studyhelper/providers/ai/gemini"
	"github.com/geegl/studyhelper/providers/ai/openai"
	"github.com/geegl/studyhelper/providers/history"
	"github.com/geegl/studyhelper/providers/history/inmemory"
	"github.com/geegl/studyhelper/providers/history/pghistory"
)

// App holds the wired components. Close releases them.
type App struct {
	Provider ai.Provider
	Pipeline *recovery.Pipeline
	Solver   *solve.Solver
	Store    history.Store

	closers []func()
}

// Build creates every component described by cfg.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{}

	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Provider = provider
	if c, ok := provider.(io.Closer); ok {
		a.closers = append(a.closers, func() { _ = c.Close() })
	}

	if a.Pipeline, err = NewPipeline(cfg, provider, logger); err != nil {
		a.Close()
		return nil, err
	}

	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store
	a.closers = append(a.closers, closeStore)

	primary, err := client.New(provider, PrimaryClientOptions(cfg, logger)...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: primary client: %w", err)
	}

	a.Solver, err = solve.New(primary, a.Pipeline,
		solve.WithHistory(store),
		solve.WithModelCost(cost.ModelCost{
			InputCostPerMillion:  cfg.LLMInputPrice,
			OutputCostPerMillion: cfg.LLMOutputPrice,
		}),
		solve.WithLogger(logger),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: solver: %w", err)
	}
	return a, nil
}

// Close releases the components in reverse creation order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// NewProvider returns the LLM provider named by cfg.LLMProvider.
func NewProvider(ctx context.Context, cfg config.Config) (ai.Provider, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		p, err := openai.New(openai.Config{
			APIKey:       cfg.LLMAPIKey,
			BaseURL:      cfg.LLMBaseURL,
			DefaultModel: cfg.LLMModel,
		})
		if err != nil {
			return nil, fmt.Errorf("app: openai provider: %w", err)
		}
		return p, nil
	case config.ProviderGemini:
		p, err := gemini.New(ctx, gemini.Config{
			APIKey:       cfg.LLMAPIKey,
			DefaultModel: cfg.LLMModel,
		})
		if err != nil {
			return nil, fmt.Errorf("app: gemini provider: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("app: unknown provider %q", cfg.LLMProvider)
	}
}

// PrimaryClientOptions returns the options of the question client: the exam
// prompt, the configured temperature and the logging, retry and timeout
// middlewares, outermost first.
func PrimaryClientOptions(cfg config.Config, logger *slog.Logger) []func(*client.ClientOptions) {
	maxRetries := cfg.LLMMaxRetries
	if maxRetries == 0 {
		maxRetries = -1
	}

	opts := solve.DefaultClientOptions()
	opts = append(opts,
		client.WithGenerationConfig(ai.GenerationConfig{Temperature: ai.Temperature(cfg.LLMTemperature)}),
		client.WithMiddleware(
			middleware.NewLoggingMiddleware(logger, middleware.LogLevelStandard),
			middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: maxRetries}),
			middleware.NewTimeoutMiddleware(cfg.LLMTimeout),
		),
	)
	if cfg.LLMModel != "" {
		opts = append(opts, client.WithDefaultModel(cfg.LLMModel))
	}
	return opts
}

// RepairClientOptions returns the options of the repair client. It has no
// retry middleware: one reply gets at most one repair call.
func RepairClientOptions(cfg config.Config, logger *slog.Logger) []func(*client.ClientOptions) {
	opts := []func(*client.ClientOptions){
		client.WithGenerationConfig(ai.GenerationConfig{Temperature: ai.Temperature(cfg.RepairTemperature)}),
		client.WithMiddleware(
			middleware.NewLoggingMiddleware(logger, middleware.LogLevelMinimal),
			middleware.NewTimeoutMiddleware(cfg.LLMTimeout),
		),
	}
	model := cfg.RepairModel
	if model == "" {
		model = cfg.LLMModel
	}
	if model != "" {
		opts = append(opts, client.WithDefaultModel(model))
	}
	return opts
}

// NewPipeline returns the recovery pipeline for cfg. A nil provider or
// cfg.RepairEnabled=false leaves out the secondary repair stage.
func NewPipeline(cfg config.Config, provider ai.Provider, logger *slog.Logger) (*recovery.Pipeline, error) {
	opts := []recovery.Option{
		recovery.WithHTMLToMarkdown(cfg.HTMLToMarkdown),
		recovery.WithLogger(logger),
	}

	if cfg.RepairEnabled && provider != nil {
		repairer, err := recovery.NewProviderRepairer(provider, recovery.DefaultSchema(), RepairClientOptions(cfg, logger)...)
		if err != nil {
			return nil, fmt.Errorf("app: repairer: %w", err)
		}
		opts = append(opts, recovery.WithRepairer(repairer))
	}

	pipeline, err := recovery.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("app: pipeline: %w", err)
	}
	return pipeline, nil
}

// OpenStore connects to PostgreSQL when cfg.DatabaseURL is set and falls back
// to an in-memory store otherwise. The returned func releases the store.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (history.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.WarnContext(ctx, "DATABASE_URL not set, history is kept in memory")
		return inmemory.New(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("app: connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("app: ping database: %w", err)
	}

	store := pghistory.New(pool, pghistory.WithTableName(cfg.HistoryTable))
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("app: prepare history table: %w", err)
	}
	return store, pool.Close, nil
}
