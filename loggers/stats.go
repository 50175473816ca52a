package loggers

import (
	"context"
	"sync"

	"github.com/rickchristie/agentexec"
)

// Counter keys recorded by [StatsHook]. Keys ending in ":" take a suffix.
const (
	KeyRuns             = "agentexec:runs"
	KeyRunsFailed       = "agentexec:runs_failed"
	KeyRunsStopped      = "agentexec:runs_stopped"
	KeyIterations       = "agentexec:iterations"
	KeyModelCalls       = "agentexec:model_calls"
	KeyModelCallErrors  = "agentexec:model_call_errors"
	KeyInputTokens      = "agentexec:input_tokens"
	KeyInputTokensFor   = "agentexec:input_tokens:" // + model name
	KeyOutputTokens     = "agentexec:output_tokens"
	KeyOutputTokensFor  = "agentexec:output_tokens:" // + model name
	KeyToolCalls        = "agentexec:tool_calls"
	KeyToolCallsFor     = "agentexec:tool_calls:" // + tool name
	KeyToolErrors       = "agentexec:tool_errors"
	KeyParseErrors      = "agentexec:parse_errors"
	KeyParseErrorsFor   = "agentexec:parse_errors:" // + source
	KeyParseConsecutive = "agentexec:parse_errors_consecutive"
)

// StatsHook counts what runs do. Counters only go up, except KeyParseConsecutive which resets
// when a round produces a real tool call.
//
// A single StatsHook may observe many runs; counters accumulate across them until Reset.
// Safe for concurrent use.
type StatsHook struct {
	mu       sync.RWMutex
	counters map[string]int64
}

// NewStatsHook creates an empty StatsHook.
func NewStatsHook() *StatsHook {
	return &StatsHook{counters: make(map[string]int64)}
}

func (h *StatsHook) incr(key string, delta int64) {
	if delta == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counters[key] += delta
}

// Counter returns the value of key, or 0 if it was never incremented.
func (h *StatsHook) Counter(key string) int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.counters[key]
}

// Counters returns a snapshot of every counter.
func (h *StatsHook) Counters() map[string]int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]int64, len(h.counters))
	for k, v := range h.counters {
		out[k] = v
	}
	return out
}

// Reset clears every counter.
func (h *StatsHook) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counters = make(map[string]int64)
}

// TotalTokens returns input plus output tokens.
func (h *StatsHook) TotalTokens() int64 {
	return h.Counter(KeyInputTokens) + h.Counter(KeyOutputTokens)
}

func (h *StatsHook) OnRunStarted(_ context.Context, _ agentexec.RunStartedEvent) {
	h.incr(KeyRuns, 1)
}

func (h *StatsHook) OnRunFinished(_ context.Context, event agentexec.RunFinishedEvent) {
	if event.Stopped {
		h.incr(KeyRunsStopped, 1)
	}
}

func (h *StatsHook) OnRunFailed(_ context.Context, _ agentexec.RunFailedEvent) {
	h.incr(KeyRunsFailed, 1)
}

func (h *StatsHook) OnAfterIteration(_ context.Context, _ agentexec.AfterIterationEvent) {
	h.incr(KeyIterations, 1)
}

func (h *StatsHook) OnToolFinished(_ context.Context, event agentexec.ToolFinishedEvent) {
	if event.Action.Tool == agentexec.ExceptionToolName {
		return
	}
	h.incr(KeyToolCalls, 1)
	h.incr(KeyToolCallsFor+event.Action.Tool, 1)
	if event.Err != nil {
		h.incr(KeyToolErrors, 1)
	}

	h.mu.Lock()
	delete(h.counters, KeyParseConsecutive)
	h.mu.Unlock()
}

func (h *StatsHook) OnParseError(_ context.Context, event agentexec.ParseErrorEvent) {
	h.incr(KeyParseErrors, 1)
	h.incr(KeyParseErrorsFor+string(event.Source), 1)
	if event.Source == agentexec.ParseErrorSourceOutput {
		h.incr(KeyParseConsecutive, 1)
	}
}

func (h *StatsHook) OnAfterModelCall(_ context.Context, event agentexec.AfterModelCallEvent) {
	h.incr(KeyModelCalls, 1)
	if event.Err != nil {
		h.incr(KeyModelCallErrors, 1)
		return
	}
	h.incr(KeyInputTokens, int64(event.Usage.InputTokens))
	h.incr(KeyOutputTokens, int64(event.Usage.OutputTokens))
	if event.Model != "" {
		h.incr(KeyInputTokensFor+event.Model, int64(event.Usage.InputTokens))
		h.incr(KeyOutputTokensFor+event.Model, int64(event.Usage.OutputTokens))
	}
}

var (
	_ agentexec.RunStartedHook     = (*StatsHook)(nil)
	_ agentexec.RunFinishedHook    = (*StatsHook)(nil)
	_ agentexec.RunFailedHook      = (*StatsHook)(nil)
	_ agentexec.AfterIterationHook = (*StatsHook)(nil)
	_ agentexec.ToolFinishedHook   = (*StatsHook)(nil)
	_ agentexec.ParseErrorHook     = (*StatsHook)(nil)
	_ agentexec.AfterModelCallHook = (*StatsHook)(nil)
)
