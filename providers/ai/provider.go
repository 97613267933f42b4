package ai

import (
	"context"
)

// Provider is the core interface that every LLM backend must satisfy. It
// covers a single request/response exchange; retries, timeouts and logging
// are layered on top by core/client middleware.
type Provider interface {
	// SendMessage sends a chat request to the provider and returns the
	// completed response. Returns an error if the provider call fails,
	// the context is cancelled, or the response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// Name returns a short identifier of the backend ("openai", "gemini").
	Name() string
}
