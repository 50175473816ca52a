package tt

import (
	"context"
	"sync"

	"github.com/rickchristie/agentexec"
)

// RecordingHook implements every hook interface and records events in order.
type RecordingHook struct {
	mu     sync.Mutex
	events []agentexec.Event
}

// NewRecordingHook creates an empty RecordingHook.
func NewRecordingHook() *RecordingHook {
	return &RecordingHook{}
}

func (h *RecordingHook) record(e agentexec.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

// Events returns a copy of the recorded events.
func (h *RecordingHook) Events() []agentexec.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]agentexec.Event, len(h.events))
	copy(out, h.events)
	return out
}

// Names returns the recorded event names in order.
func (h *RecordingHook) Names() []string {
	events := h.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name()
	}
	return names
}

// CountByName counts recorded events by name.
func (h *RecordingHook) CountByName() map[string]int {
	counts := make(map[string]int)
	for _, name := range h.Names() {
		counts[name]++
	}
	return counts
}

func (h *RecordingHook) OnRunStarted(_ context.Context, e agentexec.RunStartedEvent) {
	h.record(e)
}

func (h *RecordingHook) OnRunFinished(_ context.Context, e agentexec.RunFinishedEvent) {
	h.record(e)
}

func (h *RecordingHook) OnRunFailed(_ context.Context, e agentexec.RunFailedEvent) {
	h.record(e)
}

func (h *RecordingHook) OnBeforeIteration(_ context.Context, e agentexec.BeforeIterationEvent) {
	h.record(e)
}

func (h *RecordingHook) OnAfterIteration(_ context.Context, e agentexec.AfterIterationEvent) {
	h.record(e)
}

func (h *RecordingHook) OnActionChosen(_ context.Context, e agentexec.ActionChosenEvent) {
	h.record(e)
}

func (h *RecordingHook) OnToolFinished(_ context.Context, e agentexec.ToolFinishedEvent) {
	h.record(e)
}

func (h *RecordingHook) OnParseError(_ context.Context, e agentexec.ParseErrorEvent) {
	h.record(e)
}

func (h *RecordingHook) OnBeforeModelCall(_ context.Context, e agentexec.BeforeModelCallEvent) {
	h.record(e)
}

func (h *RecordingHook) OnAfterModelCall(_ context.Context, e agentexec.AfterModelCallEvent) {
	h.record(e)
}

// Compile-time checks that RecordingHook implements every hook interface.
var (
	_ agentexec.RunStartedHook      = (*RecordingHook)(nil)
	_ agentexec.RunFinishedHook     = (*RecordingHook)(nil)
	_ agentexec.RunFailedHook       = (*RecordingHook)(nil)
	_ agentexec.BeforeIterationHook = (*RecordingHook)(nil)
	_ agentexec.AfterIterationHook  = (*RecordingHook)(nil)
	_ agentexec.ActionChosenHook    = (*RecordingHook)(nil)
	_ agentexec.ToolFinishedHook    = (*RecordingHook)(nil)
	_ agentexec.ParseErrorHook      = (*RecordingHook)(nil)
	_ agentexec.BeforeModelCallHook = (*RecordingHook)(nil)
	_ agentexec.AfterModelCallHook  = (*RecordingHook)(nil)
)
