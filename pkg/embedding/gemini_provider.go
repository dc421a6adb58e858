package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-docqa-be/internal/entity"
)

type GeminiProvider struct {
	ApiKey    string
	Model     string
	dimension int
	client    *http.Client
}

type geminiEmbeddingRequest struct {
	Model    string                `json:"model"`
	Content  geminiRequestContent  `json:"content"`
	TaskType string                `json:"taskType,omitempty"`
}

type geminiRequestContent struct {
	Parts []geminiRequestContentPart `json:"parts"`
}

type geminiRequestContentPart struct {
	Text string `json:"text"`
}

type geminiEmbeddingResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func NewGeminiProvider(apiKey string, dimension int) EmbeddingProvider {
	return &GeminiProvider{
		ApiKey:    apiKey,
		Model:     "text-embedding-004",
		dimension: dimension,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *GeminiProvider) Dimension() int {
	return p.dimension
}

func (p *GeminiProvider) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty input text", entity.ErrEmbedding)
	}

	geminiReq := geminiEmbeddingRequest{
		Model: p.Model,
		Content: geminiRequestContent{
			Parts: []geminiRequestContentPart{
				{Text: text},
			},
		},
		TaskType: taskType,
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrEmbedding, err)
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		p.Model,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(geminiReqJson))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrEmbedding, err)
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrEmbedding, err)
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrEmbedding, err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gemini response code %d, body %s", entity.ErrEmbedding, res.StatusCode, string(resByte))
	}

	var resEmbedding geminiEmbeddingResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrEmbedding, err)
	}

	values := resEmbedding.Embedding.Values
	if len(values) != p.dimension {
		return nil, fmt.Errorf("%w: model returned %d dimensions, expected %d", entity.ErrEmbedding, len(values), p.dimension)
	}
	return values, nil
}
