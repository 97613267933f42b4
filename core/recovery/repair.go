package recovery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geegl/studyhelper/core/client"
	"github.com/geegl/studyhelper/providers/ai"
)

// repairTemperature keeps the repair call close to deterministic.
const repairTemperature float32 = 0.1

const repairPromptPrefix = "Extract the information from the broken text below, merge nested mappings into strings, and return valid JSON:\n\n"

// ErrEmptyRepair is returned by ProviderRepairer when the model sends no text.
var ErrEmptyRepair = errors.New("recovery: repair model returned empty content")

// Repairer re-derives a clean JSON object from a reply the local stages could
// not parse. Its output is fed back through extraction and parsing.
type Repairer interface {
	Repair(ctx context.Context, raw string) (string, error)
}

// RepairFunc adapts a plain function to the Repairer interface.
type RepairFunc func(ctx context.Context, raw string) (string, error)

// Repair calls f(ctx, raw).
func (f RepairFunc) Repair(ctx context.Context, raw string) (string, error) {
	return f(ctx, raw)
}

// ProviderRepairer asks a language model to clean up a broken reply.
type ProviderRepairer struct {
	client *client.Client
}

// NewProviderRepairer builds a Repairer on top of provider. The system prompt
// lists the schema fields, the call runs at low temperature and requests a
// JSON object. opts are applied after these defaults and may override them.
// Do not install a retry middleware here: the pipeline makes at most one
// repair call per reply.
func NewProviderRepairer(provider ai.Provider, schema Schema, opts ...func(*client.ClientOptions)) (*ProviderRepairer, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	base := []func(*client.ClientOptions){
		client.WithSystemPrompt(RepairSystemPrompt(schema)),
		client.WithGenerationConfig(ai.GenerationConfig{Temperature: ai.Temperature(repairTemperature)}),
		client.WithResponseFormat(ai.JSONObjectFormat),
	}

	c, err := client.New(provider, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create repair client: %w", err)
	}

	return &ProviderRepairer{client: c}, nil
}

// Repair sends raw to the model and returns its reply text.
func (r *ProviderRepairer) Repair(ctx context.Context, raw string) (string, error) {
	resp, err := r.client.SendMessage(ctx, repairPromptPrefix+raw)
	if err != nil {
		return "", fmt.Errorf("repair request failed: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyRepair
	}
	return resp.Content, nil
}

// RepairSystemPrompt returns the data-cleaning instruction sent with every
// repair request for schema.
func RepairSystemPrompt(schema Schema) string {
	quoted := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		quoted[i] = `"` + f + `"`
	}

	var b strings.Builder
	b.WriteString("You are a JSON data cleaning tool. You receive the broken output of another model and return one valid JSON object.\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Output only the JSON object. No explanations, no Markdown code fences.\n")
	b.WriteString("2. The object has exactly these keys: ")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(". Every value is a single string.\n")
	b.WriteString("3. If a value is a nested object such as {\"1\": \"...\", \"2\": \"...\"}, merge it into one string formatted as \"1: ...\\n\\n2: ...\".\n")
	b.WriteString("4. Escape every line break inside a string as \\n and every backslash as \\\\.\n")
	b.WriteString("5. If the text is too damaged to recover a field, infer its content from the rest of the text, or leave it as an empty string.\n")
	return b.String()
}
