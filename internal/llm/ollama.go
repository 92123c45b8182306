package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ollamaProvider talks to a local Ollama server through its
// OpenAI-compatible endpoint.
type ollamaProvider struct {
	client *openai.Client
	model  string
}

func newOllamaProvider(host, model string) *ollamaProvider {
	cfg := openai.DefaultConfig("ollama") // the server ignores the key
	cfg.BaseURL = strings.TrimRight(host, "/") + "/v1"
	return &ollamaProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *ollamaProvider) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed (is the server running and the model pulled?): %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *ollamaProvider) Close() {}
