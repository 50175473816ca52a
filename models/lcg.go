package models

import (
	"context"
	"time"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/hooks"
	"github.com/tmc/langchaingo/llms"
)

// LCGWrapper wraps an llms.Model and fires model call hooks around every call.
// It is itself an llms.Model, so planners use it like any other langchaingo model.
//
// Example usage:
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	registry := hooks.NewRegistry().Register(loggers.NewSlogHook(logger))
//	model := models.NewLCGWrapper(llm).WithModelName("gpt-4.1-mini").WithHooks(registry)
//
// Run ID and iteration on the events come from the context, set by the executor before each
// planning round.
type LCGWrapper struct {
	model     llms.Model
	modelName string
	hooks     *hooks.Registry
}

// NewLCGWrapper creates a new LCGWrapper wrapping the given llms.Model.
func NewLCGWrapper(model llms.Model) *LCGWrapper {
	return &LCGWrapper{model: model}
}

// WithModelName sets the model name reported in events.
// Returns the model for chaining.
func (m *LCGWrapper) WithModelName(name string) *LCGWrapper {
	m.modelName = name
	return m
}

// WithHooks sets the registry that receives model call events. Sharing the executor's registry
// puts model calls and loop events in one stream.
func (m *LCGWrapper) WithHooks(h *hooks.Registry) *LCGWrapper {
	m.hooks = h
	return m
}

// Unwrap returns the underlying llms.Model.
func (m *LCGWrapper) Unwrap() llms.Model {
	return m.model
}

// ModelName returns the configured model name.
func (m *LCGWrapper) ModelName() string {
	return m.modelName
}

// GenerateContent implements llms.Model.
func (m *LCGWrapper) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	info, _ := agentexec.RunInfoFromContext(ctx)

	m.hooks.FireBeforeModelCall(ctx, agentexec.BeforeModelCallEvent{
		RunID:     info.RunID,
		Iteration: info.Iteration,
		Model:     m.modelName,
		Messages:  messages,
	})

	start := time.Now()
	response, err := m.model.GenerateContent(ctx, messages, options...)
	duration := time.Since(start)

	m.hooks.FireAfterModelCall(ctx, agentexec.AfterModelCallEvent{
		RunID:     info.RunID,
		Iteration: info.Iteration,
		Model:     m.modelName,
		Messages:  messages,
		Response:  response,
		Usage:     Usage(response),
		Duration:  duration,
		Err:       err,
	})

	return response, err
}

// Call implements llms.Model.
func (m *LCGWrapper) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// Compile-time check that LCGWrapper implements llms.Model.
var _ llms.Model = (*LCGWrapper)(nil)
