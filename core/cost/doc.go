// Package cost estimates the monetary cost of LLM calls from their token
// usage and per-million-token prices.
package cost
