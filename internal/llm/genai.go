package llm

import (
	"context"
	"fmt"
	"strings"

	googlegenai "google.golang.org/genai"
)

// GenAIClient implements Client with the unified google.golang.org/genai SDK.
type GenAIClient struct {
	client *googlegenai.Client
	config *Config
}

// NewGenAIClient creates a client for the Gemini API backend.
func NewGenAIClient(ctx context.Context, config *Config, apiKey string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := googlegenai.NewClient(ctx, &googlegenai.ClientConfig{
		APIKey:  apiKey,
		Backend: googlegenai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GenAIClient{client: client, config: config}, nil
}

// Generate implements Client.
func (c *GenAIClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	modelName := c.config.ModelName()

	cfg := &googlegenai.GenerateContentConfig{
		Temperature: googlegenai.Ptr(c.config.Temperature),
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelName, googlegenai.Text(prompt), cfg)
	if err != nil {
		return "", &APICallError{Provider: ProviderGenAI, Model: modelName, Err: err}
	}

	text := responseText(resp)
	if text == "" {
		return "", &APICallError{Provider: ProviderGenAI, Model: modelName, Err: ErrEmptyResponse}
	}
	return CleanText(text), nil
}

// Close is a no-op; the genai client holds no closable resources.
func (c *GenAIClient) Close() error {
	return nil
}

func responseText(resp *googlegenai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		// First candidate with content wins.
		if sb.Len() > 0 {
			break
		}
	}
	return sb.String()
}
