package integration

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"ai-docqa-be/pkg/embedding"
	"ai-docqa-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
)

// These tests talk to a live Ollama instance; set OLLAMA_BASE_URL to run them.

func TestOllamaEmbeddingIntegration(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}

	provider := embedding.NewOllamaProvider(baseURL, "nomic-embed-text", 768)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	vec, err := provider.Embed(ctx, "Paris is the capital of France.", embedding.TaskDocument)
	assert.NoError(t, err)
	assert.Len(t, vec, 768)

	// The provider normalizes to unit length for cosine search.
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-3)
}

func TestOllamaChatIntegration(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "llama3"
	}

	provider := ollama.NewOllamaProvider(baseURL, model, 120*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	reply, err := provider.Generate(ctx, "Reply with the single word: pong")
	assert.NoError(t, err)
	assert.NotEmpty(t, reply)
}
