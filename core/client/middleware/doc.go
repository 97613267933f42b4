// Package middleware provides the provider-call wrappers used by
// [client.Client]. Each constructor returns a [client.Middleware] ready to
// be passed to [client.WithMiddleware].
//
//   - [NewTimeoutMiddleware] bounds each provider call with a deadline.
//   - [NewRetryMiddleware] retries rate limits and server errors with
//     exponential backoff and jitter.
//   - [NewLoggingMiddleware] writes slog entries before and after each call.
//
// Middlewares execute outermost-first:
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(60*time.Second),
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 2}),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Here the timeout covers all retries together and every attempt is logged.
// The client used for secondary JSON repair gets no retry middleware.
package middleware
