// Package gemini implements [ai.Provider] for Google Gemini models through
// the generative-ai-go SDK.
package gemini
