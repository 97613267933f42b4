package middleware

import (
	"context"
	"time"

	"github.com/geegl/studyhelper/core/client"
	"github.com/geegl/studyhelper/providers/ai"
)

// NewTimeoutMiddleware returns a middleware that cancels the provider call
// once timeout has elapsed. A shorter deadline already present on the caller
// context still wins. A non-positive timeout disables the middleware.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
