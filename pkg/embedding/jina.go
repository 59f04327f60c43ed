package embedding

import (
	"context"
	"errors"
	"fmt"
)

type jinaProvider struct {
	opts   options
	model  string
	apiKey string
}

type jinaEmbeddingRequest struct {
	Model string   `json:"model"`
	Task  string   `json:"task,omitempty"`
	Input []string `json:"input"`
}

type jinaEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newJinaProvider(o options, model, apiKey string) *jinaProvider {
	if o.baseURL == "" {
		o.baseURL = "https://api.jina.ai/v1"
	}
	if model == "" {
		model = "jina-embeddings-v3"
	}
	return &jinaProvider{opts: o, model: model, apiKey: apiKey}
}

func (p *jinaProvider) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	req := jinaEmbeddingRequest{Model: p.model, Input: []string{text}}
	switch taskType {
	case TaskRetrievalDocument:
		req.Task = "retrieval.passage"
	case TaskRetrievalQuery:
		req.Task = "retrieval.query"
	}

	var res jinaEmbeddingResponse
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	if err := postJSON(ctx, p.opts.client, "jina", p.opts.baseURL+"/embeddings", headers, req, &res); err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, fmt.Errorf("jina api returned error: %s", res.Error.Message)
	}
	if len(res.Data) == 0 || len(res.Data[0].Embedding) == 0 {
		return nil, errors.New("empty embedding from jina")
	}
	return normalizeVector(res.Data[0].Embedding), nil
}
