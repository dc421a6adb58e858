package embedding

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryingProvider wraps a provider with bounded exponential backoff. Network
// hiccups against Gemini/Ollama are common enough that ingestion should not
// fail a whole document over one flaky call.
type RetryingProvider struct {
	inner    EmbeddingProvider
	attempts uint
}

func NewRetryingProvider(inner EmbeddingProvider, attempts int) EmbeddingProvider {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryingProvider{inner: inner, attempts: uint(attempts)}
}

func (p *RetryingProvider) Dimension() int {
	return p.inner.Dimension()
}

func (p *RetryingProvider) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return retry.DoWithData(
		func() ([]float32, error) {
			return p.inner.Embed(ctx, text, taskType)
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(5*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}
