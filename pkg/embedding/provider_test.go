package embedding

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ai-docqa-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

type scriptedProvider struct {
	calls    int
	failures int // fail this many leading calls
	failFor  map[string]bool
}

func (p *scriptedProvider) Embed(_ context.Context, text string, _ string) ([]float32, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, fmt.Errorf("%w: transient failure", entity.ErrEmbedding)
	}
	if p.failFor[text] {
		return nil, fmt.Errorf("%w: bad input", entity.ErrEmbedding)
	}
	return []float32{1, 2, 3}, nil
}

func (p *scriptedProvider) Dimension() int { return 3 }

func TestEmbedBatchPreservesOrder(t *testing.T) {
	provider := &scriptedProvider{}

	vectors, err := EmbedBatch(context.Background(), provider, []string{"a", "b", "c"}, TaskDocument)
	assert.NoError(t, err)
	assert.Len(t, vectors, 3)
	for i, vec := range vectors {
		assert.NotNil(t, vec, "vector %d", i)
	}
	assert.Equal(t, 3, provider.calls)
}

func TestEmbedBatchReportsFailedIndices(t *testing.T) {
	provider := &scriptedProvider{failFor: map[string]bool{"b": true}}

	vectors, err := EmbedBatch(context.Background(), provider, []string{"a", "b", "c"}, TaskDocument)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrEmbedding))

	var batchErr *BatchError
	assert.True(t, errors.As(err, &batchErr))
	assert.Len(t, batchErr.Failed, 1)
	assert.Contains(t, batchErr.Error(), "[1]")

	// Survivors keep their slots; the failed slot is nil.
	assert.NotNil(t, vectors[0])
	assert.Nil(t, vectors[1])
	assert.NotNil(t, vectors[2])
}

func TestRetryingProviderRecoversFromTransientFailure(t *testing.T) {
	inner := &scriptedProvider{failures: 2}
	p := NewRetryingProvider(inner, 3)

	vec, err := p.Embed(context.Background(), "text", TaskDocument)
	assert.NoError(t, err)
	assert.Len(t, vec, 3)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryingProviderGivesUpAfterAttempts(t *testing.T) {
	inner := &scriptedProvider{failures: 10}
	p := NewRetryingProvider(inner, 3)

	_, err := p.Embed(context.Background(), "text", TaskDocument)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrEmbedding))
	assert.Equal(t, 3, inner.calls)
}

func TestRetryingProviderKeepsDimension(t *testing.T) {
	p := NewRetryingProvider(&scriptedProvider{}, 2)
	assert.Equal(t, 3, p.Dimension())
}

func TestNormalizeVector(t *testing.T) {
	normalized := normalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, normalized[0], 1e-6)
	assert.InDelta(t, 0.8, normalized[1], 1e-6)

	zero := normalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
