package client

import (
	"context"
	"errors"
	"strings"

	"github.com/geegl/studyhelper/providers/ai"
)

var (
	// ErrNilProvider is returned by New when no provider is given.
	ErrNilProvider = errors.New("client: provider is nil")

	// ErrEmptyPrompt is returned by SendMessage for a blank prompt.
	ErrEmptyPrompt = errors.New("client: prompt is empty")
)

// ClientOptions holds the settings applied to every request of a Client.
type ClientOptions struct {
	// DefaultModel is sent when a call does not name a model. Empty leaves
	// the choice to the provider.
	DefaultModel string

	// SystemPrompt is sent with every request.
	SystemPrompt string

	// GenerationConfig holds the default sampling parameters.
	GenerationConfig *ai.GenerationConfig

	// ResponseFormat asks the provider for a specific output format.
	ResponseFormat *ai.ResponseFormat

	// Middlewares wrap the provider call, outermost first.
	Middlewares []Middleware
}

// WithDefaultModel sets the model used when a call does not override it.
func WithDefaultModel(model string) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.DefaultModel = model
	}
}

// WithSystemPrompt sets the system prompt sent with every request.
func WithSystemPrompt(prompt string) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.SystemPrompt = prompt
	}
}

// WithGenerationConfig sets the default sampling parameters.
func WithGenerationConfig(config ai.GenerationConfig) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.GenerationConfig = &config
	}
}

// WithResponseFormat sets the requested output format.
func WithResponseFormat(format *ai.ResponseFormat) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.ResponseFormat = format
	}
}

// WithMiddleware appends middlewares to the chain. Nil entries are skipped.
func WithMiddleware(middlewares ...Middleware) func(*ClientOptions) {
	return func(o *ClientOptions) {
		for _, m := range middlewares {
			if m != nil {
				o.Middlewares = append(o.Middlewares, m)
			}
		}
	}
}

// Client sends single-turn prompts to a provider.
type Client struct {
	provider ai.Provider
	options  ClientOptions
	send     SendFunc
}

// New builds a Client for provider.
func New(provider ai.Provider, opts ...func(*ClientOptions)) (*Client, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}

	var options ClientOptions
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		provider: provider,
		options:  options,
		send:     buildSendChain(provider, options.Middlewares),
	}, nil
}

// Provider returns the underlying provider.
func (c *Client) Provider() ai.Provider {
	return c.provider
}

// DefaultModel returns the model sent when a call does not override it.
func (c *Client) DefaultModel() string {
	return c.options.DefaultModel
}

// SendMessageOption overrides client settings for one call.
type SendMessageOption func(*sendMessageOptions)

type sendMessageOptions struct {
	model       string
	temperature *float32
	maxTokens   int
}

// WithModel overrides the model for one call.
func WithModel(model string) SendMessageOption {
	return func(o *sendMessageOptions) {
		o.model = model
	}
}

// WithTemperature overrides the sampling temperature for one call.
func WithTemperature(t float32) SendMessageOption {
	return func(o *sendMessageOptions) {
		o.temperature = ai.Temperature(t)
	}
}

// WithMaxTokens overrides the response token limit for one call.
func WithMaxTokens(n int) SendMessageOption {
	return func(o *sendMessageOptions) {
		o.maxTokens = n
	}
}

// SendMessage sends prompt as a user message and returns the reply. When ctx
// carries an [ai.Overview] the request and response are recorded in it.
func (c *Client) SendMessage(ctx context.Context, prompt string, opts ...SendMessageOption) (*ai.ChatResponse, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	var callOptions sendMessageOptions
	for _, opt := range opts {
		opt(&callOptions)
	}

	request := c.buildRequest(prompt, callOptions)

	overview := ai.OverviewFromContext(ctx)
	if overview != nil {
		overview.AddRequest(request)
	}

	response, err := c.send(ctx, request)
	if err != nil {
		return nil, err
	}

	if overview != nil {
		overview.AddResponse(response)
	}

	return response, nil
}

func (c *Client) buildRequest(prompt string, callOptions sendMessageOptions) ai.ChatRequest {
	request := ai.ChatRequest{
		Model:          c.options.DefaultModel,
		SystemPrompt:   c.options.SystemPrompt,
		ResponseFormat: c.options.ResponseFormat,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: prompt},
		},
	}
	if callOptions.model != "" {
		request.Model = callOptions.model
	}

	var config ai.GenerationConfig
	if c.options.GenerationConfig != nil {
		config = *c.options.GenerationConfig
	}
	if callOptions.temperature != nil {
		config.Temperature = callOptions.temperature
	}
	if callOptions.maxTokens > 0 {
		config.MaxTokens = callOptions.maxTokens
	}
	if config != (ai.GenerationConfig{}) {
		request.GenerationConfig = &config
	}

	return request
}
