// Package client sits between raw provider calls and the services that use
// them. A [Client] holds the settings shared by every request to one model
// (system prompt, model name, generation parameters, response format) and
// routes each call through a chain of [Middleware].
//
// The primary entry point is [New], which accepts an [ai.Provider] and a set
// of functional options such as [WithSystemPrompt] and [WithMiddleware].
// Clients are immutable after New and safe for concurrent use.
package client
