package generativeAI

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const healthProbePrompt = "Respond with 'OK' if working."

// Client abstracts the Gemini calls so services can be tested with mocks.
type Client interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
	GenerateContentWithParts(ctx context.Context, parts []*genai.Part, config *genai.GenerateContentConfig) (string, error)
	Ping(ctx context.Context) error
}

var _ Client = (*AIClient)(nil)

type AIClient struct {
	client *genai.Client
	model  string
}

func NewAIClient(ctx context.Context, model string) (*AIClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client: client,
		model:  model,
	}, nil
}

// GenerateContent sends a single text prompt and returns the flattened
// response text.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return result.Text(), nil
}

// GenerateContentWithParts sends a multimodal request, e.g. a transcription
// prompt plus inline audio bytes.
func (ai *AIClient) GenerateContentWithParts(ctx context.Context, parts []*genai.Part, config *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{{Parts: parts, Role: genai.RoleUser}}
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content with parts: %w", err)
	}
	return result.Text(), nil
}

// Ping sends the health probe prompt. The model is considered reachable
// when the reply contains "OK" in any casing.
func (ai *AIClient) Ping(ctx context.Context) error {
	resp, err := ai.GenerateContent(ctx, healthProbePrompt, nil)
	if err != nil {
		return fmt.Errorf("health probe failed: %w", err)
	}
	if !strings.Contains(strings.ToUpper(resp), "OK") {
		return fmt.Errorf("unexpected health probe response: %q", resp)
	}
	return nil
}
