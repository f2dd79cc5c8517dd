// local.go
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultLocalEndpoint = "http://localhost:1234/v1"

// LocalBackend is the secondary backend: any OpenAI-compatible chat endpoint,
// typically an LM Studio or ollama server on the LAN. The loaded model
// answers regardless of the name sent, so "local-model" is fine as a default.
type LocalBackend struct {
	client *openai.Client
	model  string
}

func NewLocalBackend(endpoint, model string) *LocalBackend {
	if endpoint == "" {
		endpoint = defaultLocalEndpoint
	}
	if model == "" {
		model = "local-model"
	}

	config := openai.DefaultConfig("lm-studio")
	config.BaseURL = endpoint

	return &LocalBackend{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (b *LocalBackend) Name() string {
	return "local:" + b.model
}

// Call sends the persona instruction as the system message and the
// background material, if any, as the user turn.
func (b *LocalBackend) Call(ctx context.Context, instruction, background string) (string, error) {
	user := background
	if user == "" {
		// Some local servers return nothing for an empty user turn.
		user = "Write the piece now."
	}
	req := openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
	}

	resp, err := b.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("local completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("local backend: empty choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
