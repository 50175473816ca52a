package models

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// GitHubModelsBaseURL is the base URL for the GitHub Models API.
	GitHubModelsBaseURL = "https://models.github.ai/inference"

	// GitHubDefaultModel is used when no model is configured for the github provider.
	GitHubDefaultModel = "openai/gpt-4.1-mini"
)

// ErrMissingGitHubToken is returned when no token is given for GitHub Models.
var ErrMissingGitHubToken = errors.New(
	"github token is required: create a fine-grained PAT with models:read " +
		"at https://github.com/settings/personal-access-tokens/new")

// githubHeaderTransport injects GitHub-specific headers into every request.
type githubHeaderTransport struct {
	base http.RoundTripper
}

func (t *githubHeaderTransport) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	return t.base.RoundTrip(req)
}

// NewGitHubModel creates a model backed by the GitHub Models API.
//
// The token must be a fine-grained GitHub Personal Access Token with the models:read
// permission. Model names use the publisher/model format, for example "openai/gpt-4.1" or
// "meta/llama-4-scout". An empty model selects [GitHubDefaultModel].
//
// Additional openai.Option values are applied after the defaults, so they can override them.
func NewGitHubModel(model, token string, opts ...openai.Option) (*LCGWrapper, error) {
	if token == "" {
		return nil, ErrMissingGitHubToken
	}
	if model == "" {
		model = GitHubDefaultModel
	}

	allOpts := append([]openai.Option{
		openai.WithBaseURL(GitHubModelsBaseURL),
		openai.WithToken(token),
		openai.WithModel(model),
		openai.WithHTTPClient(&githubHeaderTransport{base: http.DefaultTransport}),
	}, opts...)

	llm, err := openai.New(allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub Models client: %w", err)
	}
	return NewLCGWrapper(llm).WithModelName(model), nil
}
