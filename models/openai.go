package models

import (
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIDefaultModel is used when no model is configured for the openai provider.
const OpenAIDefaultModel = "gpt-4.1-mini"

// NewOpenAIModel creates a model for the OpenAI API or any OpenAI-compatible endpoint
// (xAI, Ollama, vLLM, ...). An empty baseURL uses the OpenAI default; an empty token lets the
// client fall back to OPENAI_API_KEY.
func NewOpenAIModel(baseURL, model, token string, opts ...openai.Option) (*LCGWrapper, error) {
	if model == "" {
		model = OpenAIDefaultModel
	}

	base := []openai.Option{openai.WithModel(model)}
	if baseURL != "" {
		base = append(base, openai.WithBaseURL(baseURL))
	}
	if token != "" {
		base = append(base, openai.WithToken(token))
	}

	llm, err := openai.New(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewLCGWrapper(llm).WithModelName(model), nil
}
