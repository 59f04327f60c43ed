package embedding

import (
	"context"
	"errors"
	"fmt"
)

type geminiProvider struct {
	opts   options
	model  string
	apiKey string
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiEmbeddingRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"task_type,omitempty"`
}

type geminiEmbeddingResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

func newGeminiProvider(o options, model, apiKey string) *geminiProvider {
	if o.baseURL == "" {
		o.baseURL = "https://generativelanguage.googleapis.com/v1"
	}
	if model == "" {
		model = "text-embedding-004"
	}
	return &geminiProvider{opts: o, model: model, apiKey: apiKey}
}

func (p *geminiProvider) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	req := geminiEmbeddingRequest{
		Model:    p.model,
		Content:  geminiContent{Parts: []geminiPart{{Text: text}}},
		TaskType: taskType,
	}
	endpoint := fmt.Sprintf("%s/models/%s:embedContent", p.opts.baseURL, p.model)
	headers := map[string]string{"x-goog-api-key": p.apiKey}

	var res geminiEmbeddingResponse
	if err := postJSON(ctx, p.opts.client, "gemini", endpoint, headers, req, &res); err != nil {
		return nil, err
	}
	if len(res.Embedding.Values) == 0 {
		return nil, errors.New("empty embedding from gemini")
	}
	return normalizeVector(res.Embedding.Values), nil
}
