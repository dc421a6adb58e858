package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves a raw document payload from wherever it lives. The
// ingestion consumer uses it to pull uploads referenced by URL.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// HTTPFetcher downloads payloads over HTTP(S).
type HTTPFetcher struct {
	client  *http.Client
	maxSize int64
}

var _ Fetcher = &HTTPFetcher{}

func NewHTTPFetcher(maxSize int64) *HTTPFetcher {
	if maxSize <= 0 {
		maxSize = 50 << 20 // 50 MiB
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: 60 * time.Second},
		maxSize: maxSize,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", location, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > f.maxSize {
		return nil, fmt.Errorf("fetch %s: payload exceeds %d bytes", location, f.maxSize)
	}
	return raw, nil
}
