package infrastructure

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIResponder generates replies with a real model. The widget's ai
// config section picks the model and sampling settings per request.
type OpenAIResponder struct {
	client *openai.Client
}

func NewOpenAIResponder(apiKey string) *OpenAIResponder {
	return &OpenAIResponder{client: openai.NewClient(apiKey)}
}

func (r *OpenAIResponder) GenerateResponse(ctx context.Context, message string, aiConfig map[string]any) (string, error) {
	model := openai.GPT3Dot5Turbo
	maxTokens := 500
	temperature := float32(0.7)

	if m, ok := aiConfig["model"].(string); ok && m != "" {
		model = m
	}
	switch v := aiConfig["maxTokens"].(type) {
	case int:
		maxTokens = v
	case float64:
		maxTokens = int(v)
	}
	if t, ok := aiConfig["temperature"].(float64); ok {
		temperature = float32(t)
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
