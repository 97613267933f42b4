// Package openai implements [ai.Provider] for OpenAI-compatible chat
// completion endpoints (OpenAI, SiliconFlow, DeepSeek and similar gateways)
// using the official openai-go SDK.
package openai
