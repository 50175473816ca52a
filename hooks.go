package agentexec

import (
	"context"
)

// -----------------------------------------------------------------------------
// Hook Interfaces
// -----------------------------------------------------------------------------
//
// Hooks observe a run at defined points. To use hooks:
//
//  1. Implement the desired hook interface(s)
//  2. Register with hooks.Registry
//  3. Attach the registry with executor.WithHooks or executor.RegisterHook
//
// Example:
//
//	type ToolTimer struct{ logger *slog.Logger }
//
//	func (h *ToolTimer) OnToolFinished(ctx context.Context, e agentexec.ToolFinishedEvent) {
//	    h.logger.Info("tool finished", "tool", e.Action.Tool, "duration", e.Duration)
//	}
//
//	exec.RegisterHook(&ToolTimer{logger: slog.Default()})
//
// Hooks are called synchronously in registration order. They cannot change the run's outcome;
// a run without hooks behaves exactly like a run with them. When a round dispatches tool calls
// concurrently, tool hooks may be called from several goroutines.

// RunStartedHook is notified once before the first planning round.
type RunStartedHook interface {
	OnRunStarted(ctx context.Context, event RunStartedEvent)
}

// RunFinishedHook is notified once when the run produced its output.
type RunFinishedHook interface {
	OnRunFinished(ctx context.Context, event RunFinishedEvent)
}

// RunFailedHook is notified when the run fails.
type RunFailedHook interface {
	OnRunFailed(ctx context.Context, event RunFailedEvent)
}

// BeforeIterationHook is notified before each planning round.
type BeforeIterationHook interface {
	OnBeforeIteration(ctx context.Context, event BeforeIterationEvent)
}

// AfterIterationHook is notified after each round that produced steps.
type AfterIterationHook interface {
	OnAfterIteration(ctx context.Context, event AfterIterationEvent)
}

// ActionChosenHook is notified before each action is executed.
type ActionChosenHook interface {
	OnActionChosen(ctx context.Context, event ActionChosenEvent)
}

// ToolFinishedHook is notified after each action produced its observation.
type ToolFinishedHook interface {
	OnToolFinished(ctx context.Context, event ToolFinishedEvent)
}

// ParseErrorHook is notified when a parsing failure is converted into an observation.
type ParseErrorHook interface {
	OnParseError(ctx context.Context, event ParseErrorEvent)
}

// BeforeModelCallHook is notified before each model API call.
type BeforeModelCallHook interface {
	OnBeforeModelCall(ctx context.Context, event BeforeModelCallEvent)
}

// AfterModelCallHook is notified after each model API call.
type AfterModelCallHook interface {
	OnAfterModelCall(ctx context.Context, event AfterModelCallEvent)
}
