package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/geegl/studyhelper/providers/ai"
)

const (
	// DefaultBaseURL is the SiliconFlow gateway the service was first deployed on.
	DefaultBaseURL = "https://api.siliconflow.cn/v1"

	// DefaultModel is used when neither the provider nor the request names one.
	DefaultModel = "deepseek-ai/DeepSeek-V3"

	providerName = "openai"
)

// ErrMissingAPIKey is returned by New without an API key.
var ErrMissingAPIKey = errors.New("openai: api key is required")

// Config configures a Provider.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string

	// HTTPClient replaces the SDK's default client.
	HTTPClient *http.Client
}

// Provider sends chat completions through the openai-go SDK. SDK-level
// retries are disabled: retries belong to the client middleware chain.
type Provider struct {
	client       openai.Client
	defaultModel string
}

// New builds a Provider from cfg, applying DefaultBaseURL and DefaultModel
// to empty fields.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Provider{
		client:       openai.NewClient(opts...),
		defaultModel: cfg.DefaultModel,
	}, nil
}

// Name implements ai.Provider.
func (p *Provider) Name() string {
	return providerName
}

// SendMessage implements ai.Provider.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	params := buildParams(request, p.defaultModel)

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, convertError(err)
	}

	return toChatResponse(resp)
}

func buildParams(request ai.ChatRequest, defaultModel string) openai.ChatCompletionNewParams {
	model := request.Model
	if model == "" {
		model = defaultModel
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(request.Messages)+1)
	if request.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(request.SystemPrompt))
	}
	for _, m := range request.Messages {
		switch m.Role {
		case ai.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case ai.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}

	if config := request.GenerationConfig; config != nil {
		if config.Temperature != nil {
			params.Temperature = openai.Float(float64(*config.Temperature))
		}
		if config.TopP > 0 {
			params.TopP = openai.Float(float64(config.TopP))
		}
		if config.MaxTokens > 0 {
			params.MaxTokens = openai.Int(int64(config.MaxTokens))
		}
	}

	if request.ResponseFormat != nil && request.ResponseFormat.Type == ai.ResponseFormatJSONObject {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		}
	}

	return params
}

func toChatResponse(resp *openai.ChatCompletion) (*ai.ChatResponse, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: response has no choices", providerName)
	}

	choice := resp.Choices[0]
	return &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		Created:      resp.Created,
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Refusal:      choice.Message.Refusal,
		Usage: &ai.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// convertError maps SDK status errors to ai.ProviderError so the retry
// middleware can classify them.
func convertError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ai.ProviderError{
			Provider:   providerName,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return fmt.Errorf("%s: %w", providerName, err)
}
