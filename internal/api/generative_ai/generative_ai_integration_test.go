//go:build integration

package generativeAI

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestMain(m *testing.M) {
	// Skip the whole package when no API key is provided
	if os.Getenv("GEMINI_API_KEY") == "" {
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func newIntegrationClient(t *testing.T) *AIClient {
	t.Helper()
	client, err := NewAIClient(context.Background(), "gemini-2.0-flash")
	require.NoError(t, err)
	require.NotNil(t, client)
	return client
}

func TestNewAIClient_Integration(t *testing.T) {
	client := newIntegrationClient(t)
	assert.NotNil(t, client.client)
	assert.Equal(t, "gemini-2.0-flash", client.model)
}

func TestAIClient_GenerateContent_Integration(t *testing.T) {
	ctx := context.Background()
	client := newIntegrationClient(t)

	t.Run("simple prompt", func(t *testing.T) {
		config := &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.1),
		}
		response, err := client.GenerateContent(ctx, "Name three common pasta ingredients. Keep it brief.", config)
		require.NoError(t, err)
		assert.NotEmpty(t, response)
	})

	t.Run("recipe prompt returns JSON shaped text", func(t *testing.T) {
		prompt := `Return a JSON object with keys "title", "ingredients" and "instructions" for a simple tomato soup. JSON only, no prose.`
		config := &genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.2),
		}
		response, err := client.GenerateContent(ctx, prompt, config)
		require.NoError(t, err)
		assert.Contains(t, response, "{")
		assert.Contains(t, strings.ToLower(response), "title")
	})
}

func TestAIClient_Ping_Integration(t *testing.T) {
	client := newIntegrationClient(t)
	err := client.Ping(context.Background())
	assert.NoError(t, err)
}

func TestAIClient_ContextCancellation_Integration(t *testing.T) {
	client := newIntegrationClient(t)

	cancelCtx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
	defer cancel()
	time.Sleep(2 * time.Millisecond)

	_, err := client.GenerateContent(cancelCtx, "This should be cancelled", nil)
	assert.Error(t, err)
}
