package factory

import (
	"fmt"

	"b2b-catalog-be/pkg/llm"
	"b2b-catalog-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured chat backend. "none" is a valid
// choice: the response generator falls back to its templates.
func NewLLMProvider(providerType, modelName, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
