package cost

import (
	"fmt"

	"github.com/geegl/studyhelper/providers/ai"
)

// ModelCost holds the per-token pricing of one model.
//
// Example:
//
//	modelCost := cost.ModelCost{
//	    InputCostPerMillion:  0.27,
//	    OutputCostPerMillion: 1.10,
//	}
type ModelCost struct {
	// InputCostPerMillion is the cost in USD per 1 million prompt tokens
	InputCostPerMillion float64 `json:"input_cost_per_million"`

	// OutputCostPerMillion is the cost in USD per 1 million completion tokens
	OutputCostPerMillion float64 `json:"output_cost_per_million"`
}

// IsZero reports whether no price is set.
func (mc ModelCost) IsZero() bool {
	return mc.InputCostPerMillion == 0 && mc.OutputCostPerMillion == 0
}

// CalculateInputCost calculates the cost for the given number of input tokens.
func (mc ModelCost) CalculateInputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.InputCostPerMillion
}

// CalculateOutputCost calculates the cost for the given number of output tokens.
func (mc ModelCost) CalculateOutputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.OutputCostPerMillion
}

// Calculate returns the cost of usage.
func (mc ModelCost) Calculate(usage ai.Usage) float64 {
	return mc.CalculateInputCost(usage.PromptTokens) + mc.CalculateOutputCost(usage.CompletionTokens)
}

// String returns a formatted string representation of the model costs.
func (mc ModelCost) String() string {
	return fmt.Sprintf("Input: $%.6f/M, Output: $%.6f/M",
		mc.InputCostPerMillion, mc.OutputCostPerMillion)
}
