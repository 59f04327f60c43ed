package factory

import (
	"fmt"
	"net/http"

	"dimensa-be/pkg/llm"
	"dimensa-be/pkg/llm/ollama"
	"dimensa-be/pkg/llm/openai"
)

// NewLLMProvider picks a chat backend by name. "ai21" is an alias of the
// OpenAI-compatible client.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string, client *http.Client) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		return ollama.NewProvider(baseURL, modelName, client), nil
	case "openai", "ai21":
		return openai.NewProvider(apiKey, baseURL, modelName, client), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
