// gemini.go
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiBackend is the primary (cloud) backend.
type GeminiBackend struct {
	client *genai.Client
	model  string
	system string
}

// NewGeminiBackend creates the cloud backend. The API key is required; the
// router treats a missing key as "primary not configured" and skips this
// constructor entirely. system is the publication-wide framing instruction
// sent with every call.
func NewGeminiBackend(ctx context.Context, apiKey, model, system string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: model, system: system}, nil
}

func (b *GeminiBackend) Name() string {
	return "gemini:" + b.model
}

// Call generates text for one persona instruction, with any background
// material folded into the user content. A prompt-feedback block or a safety
// finish is surfaced as errCensored so the router can report it as a
// distinct failure rather than a generic outage.
func (b *GeminiBackend) Call(ctx context.Context, instruction, background string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	}
	if b.system != "" {
		config.SystemInstruction = genai.NewContentFromText(b.system, genai.RoleUser)
	}

	content := instruction
	if background != "" {
		content = fmt.Sprintf("INSTRUCTION: %s\n\nBACKGROUND INFO (Use only if relevant): %s", instruction, background)
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(content), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		return "", fmt.Errorf("%w (%s)", errCensored, resp.PromptFeedback.BlockReason)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		for _, cand := range resp.Candidates {
			if cand.FinishReason == genai.FinishReasonSafety {
				return "", fmt.Errorf("%w (finish reason safety)", errCensored)
			}
		}
		return "", errors.New("gemini: empty response")
	}

	return text, nil
}
