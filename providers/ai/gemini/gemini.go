package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/geegl/studyhelper/providers/ai"
)

const (
	// DefaultModel is used when neither the provider nor the request names one.
	DefaultModel = "gemini-2.0-flash"

	providerName = "gemini"
	jsonMIMEType = "application/json"
)

// ErrMissingAPIKey is returned by New without an API key.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// Config configures a Provider.
type Config struct {
	APIKey       string
	DefaultModel string

	// ClientOptions are appended to the API key option, e.g. a custom
	// endpoint or HTTP client.
	ClientOptions []option.ClientOption
}

// Provider sends prompts to Gemini. Close releases the underlying client.
type Provider struct {
	client       *genai.Client
	defaultModel string
}

// New connects a Provider.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	model := strings.TrimSpace(cfg.DefaultModel)
	if model == "" {
		model = DefaultModel
	}

	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, cfg.ClientOptions...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Provider{client: client, defaultModel: model}, nil
}

// Name implements ai.Provider.
func (p *Provider) Name() string {
	return providerName
}

// Close releases the client connection.
func (p *Provider) Close() error {
	return p.client.Close()
}

// SendMessage implements ai.Provider. All messages but the last become chat
// history; the last one is sent as the new user turn.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if len(request.Messages) == 0 {
		return nil, fmt.Errorf("%s: request has no messages", providerName)
	}

	modelName := request.Model
	if modelName == "" {
		modelName = p.defaultModel
	}

	model := p.client.GenerativeModel(modelName)
	configureModel(model, request)

	session := model.StartChat()
	last := len(request.Messages) - 1
	session.History = toContents(request.Messages[:last])

	resp, err := session.SendMessage(ctx, genai.Text(request.Messages[last].Content))
	if err != nil {
		return nil, convertError(err)
	}

	return toChatResponse(resp, modelName)
}

// configureModel applies the system prompt and generation settings.
func configureModel(model *genai.GenerativeModel, request ai.ChatRequest) {
	if request.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(request.SystemPrompt)},
		}
	}

	if config := request.GenerationConfig; config != nil {
		if config.Temperature != nil {
			model.SetTemperature(*config.Temperature)
		}
		if config.TopP > 0 {
			model.SetTopP(config.TopP)
		}
		if config.MaxTokens > 0 {
			model.SetMaxOutputTokens(int32(config.MaxTokens))
		}
	}

	if request.ResponseFormat != nil && request.ResponseFormat.Type == ai.ResponseFormatJSONObject {
		model.ResponseMIMEType = jsonMIMEType
	}
}

func toContents(messages []ai.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == ai.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return contents
}

func toChatResponse(resp *genai.GenerateContentResponse, model string) (*ai.ChatResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%s: response has no candidates", providerName)
	}

	out := &ai.ChatResponse{
		Model:        model,
		Content:      firstText(resp),
		FinishReason: resp.Candidates[0].FinishReason.String(),
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &ai.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// firstText returns the text parts of the first candidate that has any,
// concatenated.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

// convertError maps HTTP status errors to ai.ProviderError.
func convertError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ai.ProviderError{
			Provider:   providerName,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return fmt.Errorf("%s: %w", providerName, err)
}
