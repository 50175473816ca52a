package hooks

import (
	"context"
	"sync"

	"github.com/rickchristie/agentexec"
)

// Registry manages a collection of hooks and dispatches events to them.
//
// # Overview
//
// Registry is the central coordination point for hooks. It:
//   - Stores registered hooks in order
//   - Dispatches events to hooks that implement the relevant interface
//
// Hooks can implement any combination of hook interfaces - they only receive
// events for the interfaces they implement.
//
// # Creating and Using
//
//	registry := hooks.NewRegistry()
//	registry.Register(loggers.NewSlogHook(slog.Default()))
//	registry.Register(&MetricsHook{})
//
//	exec, err := executor.New(planner, tools, executor.DefaultConfig())
//	exec.WithHooks(registry)
//
// # Nil Registry
//
// All Fire methods are no-ops on a nil *Registry, so callers never need to guard against an
// absent observer.
//
// # Thread Safety
//
// Register and Fire may be called concurrently. Hooks registered while a Fire call is in
// progress are not seen by that call.
type Registry struct {
	mu    sync.RWMutex
	hooks []any
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make([]any, 0),
	}
}

// Register adds a hook to the registry. The hook can implement any combination
// of hook interfaces (RunStartedHook, ToolFinishedHook, etc.).
//
// Hooks are called in the order they are registered.
func (r *Registry) Register(hook any) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
	return r
}

// snapshot returns the registered hooks; safe on a nil receiver.
func (r *Registry) snapshot() []any {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hooks
}

// FireRunStarted dispatches a RunStartedEvent to all registered
// RunStartedHook implementations.
func (r *Registry) FireRunStarted(ctx context.Context, event agentexec.RunStartedEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(agentexec.RunStartedHook); ok {
			hook.OnRunStarted(ctx, event)
		}
	}
}

// FireRunFinished dispatches a RunFinishedEvent to all registered
// RunFinishedHook implementations.
func (r *Registry) FireRunFinished(ctx context.Context, event agentexec.RunFinishedEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(agentexec.RunFinishedHook); ok {
			hook.OnRunFinished(ctx, event)
		}
	}
}

// FireRunFailed dispatches a RunFailedEvent to all registered RunFailedHook implementations.
func (r *Registry) FireRunFailed(ctx context.Context, event agentexec.RunFailedEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(agentexec.RunFailedHook); ok {
			hook.OnRunFailed(ctx, event)
		}
	}
}

// FireBeforeIteration dispatches a BeforeIterationEvent to all registered
// BeforeIterationHook implementations.
func (r *Registry) FireBeforeIteration(ctx context.Context, event agentexec.BeforeIterationEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(agentexec.BeforeIterationHook); ok {
			hook.OnBeforeIteration(ctx, event)
		}
	}
}

// FireAfterIteration dispatches an AfterIterationEvent to all registered
// AfterIterationHook implementations.
func (r *Registry) FireAfterIteration(ctx context.Context, event agentexec.AfterIterationEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(agentexec.AfterIterationHook); ok {
			hook.OnAfterIteration(ctx, event)
		}
	}
}

// FireActionChosen dispatches an ActionChosenEvent to all registered
// ActionChosenHook implementations.
func (r *Registry) FireActionChosen(ctx context.Context, event agentexec.ActionChosenEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(agentexec.ActionChosenHook); ok {
			hook.OnActionChosen(ctx, event)
		}
	}
}

// FireToolFinished dispatches a ToolFinishedEvent to all registered
// ToolFinishedHook implementations.
func (r *Registry) FireToolFinished(ctx context.Context, event agentexec.ToolFinishedEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(agentexec.ToolFinishedHook); ok {
			hook.OnToolFinished(ctx, event)
		}
	}
}

// FireParseError dispatches a ParseErrorEvent to all registered ParseErrorHook implementations.
func (r *Registry) FireParseError(ctx context.Context, event agentexec.ParseErrorEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(agentexec.ParseErrorHook); ok {
			hook.OnParseError(ctx, event)
		}
	}
}

// FireBeforeModelCall dispatches a BeforeModelCallEvent to all registered
// BeforeModelCallHook implementations.
func (r *Registry) FireBeforeModelCall(ctx context.Context, event agentexec.BeforeModelCallEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(agentexec.BeforeModelCallHook); ok {
			hook.OnBeforeModelCall(ctx, event)
		}
	}
}

// FireAfterModelCall dispatches an AfterModelCallEvent to all registered
// AfterModelCallHook implementations.
func (r *Registry) FireAfterModelCall(ctx context.Context, event agentexec.AfterModelCallEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(agentexec.AfterModelCallHook); ok {
			hook.OnAfterModelCall(ctx, event)
		}
	}
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	return len(r.snapshot())
}

// Clear removes all registered hooks.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = make([]any, 0)
}
