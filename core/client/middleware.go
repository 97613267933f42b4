package client

import (
	"context"

	"github.com/geegl/studyhelper/providers/ai"
)

// SendFunc sends a chat request to the LLM provider and returns the completed
// response. It is the unit threaded through the middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware intercepts and optionally transforms provider requests and
// responses. It receives the next SendFunc in the chain and returns a new
// SendFunc that wraps it.
type Middleware func(next SendFunc) SendFunc

// buildSendChain constructs the send chain. The base function calls the
// provider directly; middlewares[0] becomes the outermost wrapper.
func buildSendChain(provider ai.Provider, middlewares []Middleware) SendFunc {
	var chain SendFunc = func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
		return provider.SendMessage(ctx, request)
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i](chain)
	}

	return chain
}
