package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dimensa-be/pkg/pipeline"
)

// maxResponseBytes caps a single upstream response (GLB models can be large).
const maxResponseBytes = 256 << 20

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	Result *string `json:"result"`
}

type modelRequest struct {
	InputImage string `json:"input_image"`
}

type modelResponse struct {
	GeneratedObject *string `json:"generated_object"`
}

// ImageClient calls the text-to-image service.
type ImageClient struct {
	endpoint string
	client   *http.Client
}

func NewImageClient(endpoint string, client *http.Client) *ImageClient {
	if client == nil {
		client = NewHTTPClient(DefaultTimeouts())
	}
	return &ImageClient{endpoint: endpoint, client: client}
}

// GenerateImage sends the expanded prompt and returns the image bytes found
// under the "result" key.
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	var res imageResponse
	if err := postJSON(ctx, c.client, c.endpoint, pipeline.StageImage, imageRequest{Prompt: prompt}, &res); err != nil {
		return nil, err
	}
	return decodeResult(pipeline.StageImage, "result", res.Result)
}

// ModelClient calls the image-to-3D service.
type ModelClient struct {
	endpoint string
	client   *http.Client
}

func NewModelClient(endpoint string, client *http.Client) *ModelClient {
	if client == nil {
		client = NewHTTPClient(DefaultTimeouts())
	}
	return &ModelClient{endpoint: endpoint, client: client}
}

// GenerateModel sends the base64 image and returns the model bytes found under
// the "generated_object" key.
func (c *ModelClient) GenerateModel(ctx context.Context, image []byte) ([]byte, error) {
	var res modelResponse
	req := modelRequest{InputImage: EncodeArtifact(image)}
	if err := postJSON(ctx, c.client, c.endpoint, pipeline.StageModel3D, req, &res); err != nil {
		return nil, err
	}
	return decodeResult(pipeline.StageModel3D, "generated_object", res.GeneratedObject)
}

func decodeResult(stage pipeline.Stage, key string, value *string) ([]byte, error) {
	if value == nil || *value == "" {
		return nil, pipeline.NewError(pipeline.KindEmptyUpstreamResult, stage, fmt.Errorf("response has no %q", key))
	}
	b, err := DecodeArtifact(*value)
	if err != nil {
		return nil, pipeline.NewError(pipeline.KindMalformedResponse, stage, fmt.Errorf("decode %q: %w", key, err))
	}
	if len(b) == 0 {
		return nil, pipeline.NewError(pipeline.KindEmptyUpstreamResult, stage, fmt.Errorf("%q is empty", key))
	}
	return b, nil
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, stage pipeline.Stage, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pipeline.NewError(pipeline.KindGenerationFailure, stage, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return pipeline.NewError(pipeline.KindGenerationFailure, stage, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return pipeline.Classify(stage, fmt.Errorf("%s request failed: %w", stage, err), pipeline.KindUpstreamTransport)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return pipeline.Classify(stage, fmt.Errorf("read response: %w", err), pipeline.KindUpstreamTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pipeline.NewError(pipeline.KindGenerationFailure, stage,
			fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(string(respBody), 200)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return pipeline.NewError(pipeline.KindMalformedResponse, stage, fmt.Errorf("unmarshal response: %w", err))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
