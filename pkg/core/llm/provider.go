// Package llm abstracts the chat-completion providers used for filing
// analysis behind a single interface.
package llm

import "context"

// Provider is the interface all LLM backends implement. Recognized options:
// "model" (string override) and "response_format" (map with type
// "json_object" for strict JSON output).
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// JSONResponseFormat builds the options entry requesting strict JSON output.
func JSONResponseFormat() map[string]interface{} {
	return map[string]interface{}{"type": "json_object"}
}
