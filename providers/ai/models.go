package ai

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // Contains all messages in the conversation except system prompt
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`   // Optional response format
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`
}

type GenerationConfig struct {
	MaxTokens   int      `json:"max_tokens,omitempty"`  // Optional max tokens for the response
	Temperature *float32 `json:"temperature,omitempty"` // Sampling temperature [0..2]. nil keeps the provider default; 0 is a valid value.
	TopP        float32  `json:"top_p,omitempty"`       // Nucleus (top-p) sampling [0..1]. Alternative to temperature.
}

type ResponseFormat struct {
	Type string `json:"type,omitempty"` // "text" or "json_object"
}

// JSONObjectFormat asks the provider for a single JSON object, when supported.
var JSONObjectFormat = &ResponseFormat{Type: ResponseFormatJSONObject}

const (
	ResponseFormatText       = "text"
	ResponseFormatJSONObject = "json_object"
)

// Temperature returns a pointer to t, for use in GenerationConfig.
func Temperature(t float32) *float32 {
	return &t
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// Add accumulates other into u. A nil other is ignored.
func (u *Usage) Add(other *Usage) {
	if other == nil {
		return
	}
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Created      int64  `json:"created"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`

	Refusal string `json:"refusal,omitempty"` // If model refuses to respond (safety/policy)
}

// Truncated reports whether the provider stopped because of the token limit.
// Truncated replies are still handed to the recovery pipeline.
func (r *ChatResponse) Truncated() bool {
	if r == nil {
		return false
	}
	switch r.FinishReason {
	case "length", "max_tokens", "MAX_TOKENS", "FinishReasonMaxTokens":
		return true
	}
	return false
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Middle llm response
)
