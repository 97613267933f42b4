package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net"
	"time"

	"github.com/geegl/studyhelper/core/client"
	"github.com/geegl/studyhelper/providers/ai"
)

// RetryConfig holds the tuning parameters for the retry middleware. Zero
// values are replaced with the defaults documented below.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first failure.
	// Default: 2.
	MaxRetries int

	// InitialBackoff is the wait before the first retry.
	// Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff.
	// Default: 20s.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the backoff after every attempt.
	// Default: 2.0.
	BackoffFactor float64

	// JitterFraction adds up to JitterFraction*backoff of random delay.
	// Default: 0.1.
	JitterFraction float64

	// RetryableFunc reports whether err should trigger a retry. The default
	// retries temporary provider statuses and network timeouts.
	RetryableFunc func(error) bool
}

// IsRetryable is the default RetryableFunc. Context cancellation is never
// retried.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ai.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Temporary()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

func applyRetryDefaults(config *RetryConfig) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 2
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 20 * time.Second
	}
	if config.BackoffFactor == 0 {
		config.BackoffFactor = 2.0
	}
	if config.JitterFraction == 0 {
		config.JitterFraction = 0.1
	}
	if config.RetryableFunc == nil {
		config.RetryableFunc = IsRetryable
	}
}

// computeBackoff returns the wait before retry number attempt (0-indexed):
// min(InitialBackoff * BackoffFactor^attempt, MaxBackoff) plus jitter.
func computeBackoff(config RetryConfig, attempt int) time.Duration {
	base := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt))
	if base > float64(config.MaxBackoff) {
		base = float64(config.MaxBackoff)
	}

	jitter := base * config.JitterFraction * rand.Float64() //nolint:gosec // jitter needs no crypto randomness
	return time.Duration(base + jitter)
}

// NewRetryMiddleware returns a middleware that retries failed provider calls.
// A negative MaxRetries disables retries. On exhaustion the error wraps both
// [ErrRetryExhausted] and the last provider error.
func NewRetryMiddleware(config RetryConfig) client.Middleware {
	applyRetryDefaults(&config)

	return func(next client.SendFunc) client.SendFunc {
		if config.MaxRetries < 0 {
			return next
		}
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			var lastErr error

			for attempt := 0; attempt <= config.MaxRetries; attempt++ {
				if attempt > 0 {
					timer := time.NewTimer(computeBackoff(config, attempt-1))
					select {
					case <-ctx.Done():
						timer.Stop()
						return nil, ctx.Err()
					case <-timer.C:
					}
				}

				response, err := next(ctx, request)
				if err == nil {
					return response, nil
				}

				lastErr = err
				if ctx.Err() != nil {
					return nil, err
				}
				// A deadline hit while ctx is still live came from a
				// per-attempt timeout further down the chain.
				attemptTimedOut := errors.Is(err, context.DeadlineExceeded)
				if !attemptTimedOut && !config.RetryableFunc(err) {
					return nil, err
				}
			}

			return nil, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.MaxRetries, lastErr)
		}
	}
}
