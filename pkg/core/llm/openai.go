package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	APIKey        string
	Model         string
	FallbackModel string
}

var _ Provider = (*OpenAIProvider)(nil)

// GenerateResponse sends a chat completion request. When the primary model
// is rejected the fallback model gets one try.
func (p *OpenAIProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("openai: API key not configured")
	}

	model := p.Model
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}
	if model == "" {
		model = "gpt-4o"
	}

	client := openai.NewClient(p.APIKey)
	text, err := p.complete(ctx, client, model, prompt, systemPrompt, options)
	if err != nil && p.FallbackModel != "" && p.FallbackModel != model {
		text, err = p.complete(ctx, client, p.FallbackModel, prompt, systemPrompt, options)
	}
	return text, err
}

func (p *OpenAIProvider) complete(ctx context.Context, client *openai.Client, model, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if val, ok := options["response_format"].(map[string]interface{}); ok {
		if val["type"] == "json_object" {
			req.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: completion with %s failed: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: completion with %s returned no choices", model)
	}
	return resp.Choices[0].Message.Content, nil
}
