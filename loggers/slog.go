package loggers

import (
	"context"
	"log/slog"

	"github.com/rickchristie/agentexec"
)

// SlogHook writes one structured record per event.
//
// Run, iteration and tool events are logged at Info, handled parse errors at Warn, failures at
// Error and model calls at Debug. Every record carries run_id and, where it applies, iteration.
type SlogHook struct {
	logger *slog.Logger
}

// NewSlogHook creates a SlogHook. A nil logger uses slog.Default().
func NewSlogHook(logger *slog.Logger) *SlogHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogHook{logger: logger.With("component", "agentexec")}
}

func (h *SlogHook) OnRunStarted(ctx context.Context, event agentexec.RunStartedEvent) {
	h.logger.InfoContext(ctx, "run started",
		"run_id", event.RunID,
		"inputs", len(event.Inputs))
}

func (h *SlogHook) OnRunFinished(ctx context.Context, event agentexec.RunFinishedEvent) {
	h.logger.InfoContext(ctx, "run finished",
		"run_id", event.RunID,
		"iterations", event.Iterations,
		"stopped", event.Stopped,
		"duration", event.Duration)
}

func (h *SlogHook) OnRunFailed(ctx context.Context, event agentexec.RunFailedEvent) {
	h.logger.ErrorContext(ctx, "run failed",
		"run_id", event.RunID,
		"iteration", event.Iteration,
		"error", event.Err)
}

func (h *SlogHook) OnBeforeIteration(ctx context.Context, event agentexec.BeforeIterationEvent) {
	h.logger.DebugContext(ctx, "iteration started",
		"run_id", event.RunID,
		"iteration", event.Iteration)
}

func (h *SlogHook) OnAfterIteration(ctx context.Context, event agentexec.AfterIterationEvent) {
	h.logger.InfoContext(ctx, "iteration finished",
		"run_id", event.RunID,
		"iteration", event.Iteration,
		"steps", len(event.Steps),
		"duration", event.Duration)
}

func (h *SlogHook) OnActionChosen(ctx context.Context, event agentexec.ActionChosenEvent) {
	h.logger.InfoContext(ctx, "action chosen",
		"run_id", event.RunID,
		"iteration", event.Iteration,
		"tool", event.Action.Tool,
		"input", event.Action.InputText())
}

func (h *SlogHook) OnToolFinished(ctx context.Context, event agentexec.ToolFinishedEvent) {
	attrs := []any{
		"run_id", event.RunID,
		"iteration", event.Iteration,
		"tool", event.Action.Tool,
		"observation_len", len(event.Observation),
		"duration", event.Duration,
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err)
		h.logger.WarnContext(ctx, "tool failed", attrs...)
		return
	}
	h.logger.InfoContext(ctx, "tool finished", attrs...)
}

func (h *SlogHook) OnParseError(ctx context.Context, event agentexec.ParseErrorEvent) {
	h.logger.WarnContext(ctx, "parse error handled",
		"run_id", event.RunID,
		"iteration", event.Iteration,
		"source", string(event.Source),
		"error", event.Err)
}

func (h *SlogHook) OnBeforeModelCall(ctx context.Context, event agentexec.BeforeModelCallEvent) {
	h.logger.DebugContext(ctx, "model call",
		"run_id", event.RunID,
		"iteration", event.Iteration,
		"model", event.Model,
		"messages", len(event.Messages))
}

func (h *SlogHook) OnAfterModelCall(ctx context.Context, event agentexec.AfterModelCallEvent) {
	attrs := []any{
		"run_id", event.RunID,
		"iteration", event.Iteration,
		"model", event.Model,
		"duration", event.Duration,
		"input_tokens", event.Usage.InputTokens,
		"output_tokens", event.Usage.OutputTokens,
	}
	if event.Err != nil {
		h.logger.ErrorContext(ctx, "model call failed", append(attrs, "error", event.Err)...)
		return
	}
	h.logger.DebugContext(ctx, "model call finished", attrs...)
}

var (
	_ agentexec.RunStartedHook      = (*SlogHook)(nil)
	_ agentexec.RunFinishedHook     = (*SlogHook)(nil)
	_ agentexec.RunFailedHook       = (*SlogHook)(nil)
	_ agentexec.BeforeIterationHook = (*SlogHook)(nil)
	_ agentexec.AfterIterationHook  = (*SlogHook)(nil)
	_ agentexec.ActionChosenHook    = (*SlogHook)(nil)
	_ agentexec.ToolFinishedHook    = (*SlogHook)(nil)
	_ agentexec.ParseErrorHook      = (*SlogHook)(nil)
	_ agentexec.BeforeModelCallHook = (*SlogHook)(nil)
	_ agentexec.AfterModelCallHook  = (*SlogHook)(nil)
)
