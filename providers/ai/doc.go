// Package ai defines the provider-agnostic request, response and interface
// types shared by every LLM backend (OpenAI-compatible endpoints, Gemini).
// Each provider maps these types onto its own SDK, keeping the solver and the
// recovery pipeline independent from vendor wire formats.
//
// The central interface is [Provider]. Request data flows through
// [ChatRequest] and responses come back as [ChatResponse]. [Overview]
// accumulates the requests, responses and token usage of every call made on
// behalf of one user request.
package ai
