package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Task types understood by providers that distinguish documents from queries.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider turns text into a unit-length vector.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
}

// Option customizes a provider built by NewProvider.
type Option func(*options)

type options struct {
	client  *http.Client
	baseURL string
}

// WithHTTPClient replaces the default 30s-timeout client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithBaseURL overrides the provider's API root.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// NewProvider picks an embedding backend by name ("ollama", "jina" or "gemini").
func NewProvider(name, model, apiKey string, opts ...Option) (EmbeddingProvider, error) {
	o := options{client: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(&o)
	}
	switch name {
	case "ollama":
		return newOllamaProvider(o, model), nil
	case "jina":
		return newJinaProvider(o, model, apiKey), nil
	case "gemini":
		return newGeminiProvider(o, model, apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", name)
	}
}

// normalizeVector scales vec to unit length so cosine scores are comparable
// across providers.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}

// postJSON sends in as JSON and decodes a 200 response into out.
func postJSON(ctx context.Context, client *http.Client, provider, endpoint string, headers map[string]string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s embedding request failed: %w", provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", provider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s embedding error (status %d): %s", provider, resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	return nil
}
