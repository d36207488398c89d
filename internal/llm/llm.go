// Package llm wraps the Gemini API for reply drafting. The client is
// optional everywhere it is consumed: callers fall back to template
// generation when construction or a call fails.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/spf13/viper"
	"google.golang.org/api/option"

	"capturekit/internal/logger"
)

const defaultModel = "gemini-2.0-flash"

// Client is a thin wrapper over the Gemini SDK scoped to one model.
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient creates a Gemini client. The API key is read from the
// GEMINI_API_KEY environment variable, falling back to the ai.api_key
// config entry. An empty model name selects the default model.
func NewClient(ctx context.Context, modelName string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = viper.GetString("ai.api_key")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set GEMINI_API_KEY or ai.api_key in config")
	}

	if modelName == "" {
		modelName = viper.GetString("ai.model")
	}
	if modelName == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Debug("Gemini client ready", "model", modelName)
	return &Client{client: client, modelName: modelName}, nil
}

// Draft sends a drafting prompt and returns the generated text.
func (c *Client) Draft(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(0.8)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model %s", c.modelName)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("model %s returned no text parts", c.modelName)
	}
	return text, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error {
	return c.client.Close()
}
