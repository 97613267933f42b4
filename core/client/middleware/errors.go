package middleware

import "errors"

// ErrRetryExhausted is returned by the retry middleware when every attempt
// failed with a retryable error. It wraps the last provider error, so both
// can be matched with [errors.Is]:
//
//	if errors.Is(err, middleware.ErrRetryExhausted) {
//	    // the model is unavailable, answer 503
//	}
var ErrRetryExhausted = errors.New("studyhelper: all retry attempts exhausted")
