package embedding

import (
	"context"
	"errors"
)

type ollamaProvider struct {
	opts  options
	model string
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

func newOllamaProvider(o options, model string) *ollamaProvider {
	if o.baseURL == "" {
		o.baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "all-minilm"
	}
	return &ollamaProvider{opts: o, model: model}
}

// Embed ignores taskType; Ollama models embed documents and queries alike.
func (p *ollamaProvider) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	var res ollamaEmbeddingResponse
	req := ollamaEmbeddingRequest{Model: p.model, Prompt: text}
	if err := postJSON(ctx, p.opts.client, "ollama", p.opts.baseURL+"/api/embeddings", nil, req, &res); err != nil {
		return nil, err
	}
	if len(res.Embedding) == 0 {
		return nil, errors.New("empty embedding from ollama")
	}

	values := make([]float32, len(res.Embedding))
	for i, v := range res.Embedding {
		values[i] = float32(v)
	}
	return normalizeVector(values), nil
}
