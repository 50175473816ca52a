// Package hooks provides a registry for observing agent runs.
//
// Each hook interface in the agentexec package corresponds to a specific event type -
// implement only the interfaces you need and register the hook once.
//
// # Hook Interfaces
//
// Run lifecycle hooks:
//   - [agentexec.RunStartedHook] - Called once before the first planning round
//   - [agentexec.RunFinishedHook] - Called once when the final output is assembled
//   - [agentexec.RunFailedHook] - Called when the run fails
//
// Iteration hooks:
//   - [agentexec.BeforeIterationHook] - Called before each planning round
//   - [agentexec.AfterIterationHook] - Called after each round that produced steps
//
// Action and tool hooks:
//   - [agentexec.ActionChosenHook] - Called before each action executes
//   - [agentexec.ToolFinishedHook] - Called after each action produced its observation
//   - [agentexec.ParseErrorHook] - Called when a parse failure becomes an observation
//
// Model call hooks (fired by models.LCGWrapper):
//   - [agentexec.BeforeModelCallHook]
//   - [agentexec.AfterModelCallHook]
//
// # Creating a Hook
//
//	type ToolCounter struct{ calls map[string]int }
//
//	func (h *ToolCounter) OnToolFinished(ctx context.Context, e agentexec.ToolFinishedEvent) {
//	    h.calls[e.Action.Tool]++
//	}
//
//	registry := hooks.NewRegistry().Register(&ToolCounter{calls: map[string]int{}})
//
// Ready-made hooks live in the loggers package.
package hooks
