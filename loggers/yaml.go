package loggers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rickchristie/agentexec"
	"github.com/tmc/langchaingo/llms"
	"gopkg.in/yaml.v3"
)

// YAMLHook implements every hook interface and writes a transcript of the run.
// Safe for concurrent use; events fired by parallel tool calls are written whole.
type YAMLHook struct {
	mu   sync.Mutex
	out  io.Writer
	time agentexec.TimeProvider
}

// NewYAMLHook creates a YAMLHook that writes to stdout.
func NewYAMLHook() *YAMLHook {
	return NewYAMLHookWithWriter(os.Stdout)
}

// NewYAMLHookWithWriter creates a YAMLHook that writes to w.
func NewYAMLHookWithWriter(w io.Writer) *YAMLHook {
	return &YAMLHook{out: w, time: agentexec.NewDefaultTimeProvider()}
}

// WithTimeProvider sets the clock used for event timestamps.
func (h *YAMLHook) WithTimeProvider(tp agentexec.TimeProvider) *YAMLHook {
	h.time = tp
	return h
}

// entry buffers one event so concurrent events never interleave.
type entry struct {
	sb strings.Builder
}

func (e *entry) log(format string, args ...any) {
	fmt.Fprintf(&e.sb, format+"\n", args...)
}

func (e *entry) logYAML(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		e.log("(failed to marshal: %v)", err)
		return
	}
	e.sb.Write(data)
}

func (e *entry) logBlock(indent, text string) {
	for _, line := range strings.Split(text, "\n") {
		e.log("%s%s", indent, line)
	}
}

func (h *YAMLHook) begin(name string) *entry {
	e := &entry{}
	e.log("\n>>> [%s]: %s", name, h.time.Format("2006-01-02 15:04:05.000"))
	return e
}

func (h *YAMLHook) flush(e *entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = io.WriteString(h.out, e.sb.String())
}

// OnRunStarted logs the run inputs.
func (h *YAMLHook) OnRunStarted(_ context.Context, event agentexec.RunStartedEvent) {
	e := h.begin("RunStarted")
	e.log("================================================================================")
	e.log("RUN STARTED")
	e.log("================================================================================")
	e.logYAML(map[string]any{
		"run_id": event.RunID,
		"inputs": event.Inputs,
	})
	h.flush(e)
}

// OnRunFinished logs the final output.
func (h *YAMLHook) OnRunFinished(_ context.Context, event agentexec.RunFinishedEvent) {
	e := h.begin("RunFinished")
	e.log("================================================================================")
	e.log("RUN FINISHED")
	e.log("================================================================================")
	output := make(map[string]any, len(event.Output))
	for k, v := range event.Output {
		if steps, ok := v.([]agentexec.Step); ok {
			output[k] = stepsData(steps)
			continue
		}
		output[k] = v
	}
	e.logYAML(map[string]any{
		"run_id":     event.RunID,
		"iterations": event.Iterations,
		"stopped":    event.Stopped,
		"duration":   event.Duration.String(),
		"output":     output,
	})
	h.flush(e)
}

// OnRunFailed logs the failure.
func (h *YAMLHook) OnRunFailed(_ context.Context, event agentexec.RunFailedEvent) {
	e := h.begin("RunFailed")
	data := map[string]any{
		"run_id":    event.RunID,
		"iteration": event.Iteration,
	}
	if event.Err != nil {
		data["error"] = event.Err.Error()
	}
	e.logYAML(data)
	h.flush(e)
}

// OnBeforeIteration logs the start of a round.
func (h *YAMLHook) OnBeforeIteration(_ context.Context, event agentexec.BeforeIterationEvent) {
	e := h.begin(fmt.Sprintf("BeforeIteration %d", event.Iteration))
	e.log("--------------------------------------------------------------------------------")
	e.log("ITERATION %d START", event.Iteration)
	e.log("--------------------------------------------------------------------------------")
	h.flush(e)
}

// OnAfterIteration logs the steps produced by a round.
func (h *YAMLHook) OnAfterIteration(_ context.Context, event agentexec.AfterIterationEvent) {
	e := h.begin(fmt.Sprintf("AfterIteration %d", event.Iteration))
	e.log("--------------------------------------------------------------------------------")
	e.log("ITERATION %d END", event.Iteration)
	e.log("--------------------------------------------------------------------------------")
	e.log("Duration: %s", event.Duration)
	e.log("")
	e.log("Steps:")
	e.logYAML(stepsData(event.Steps))
	h.flush(e)
}

// OnActionChosen logs the tool about to run and its input.
func (h *YAMLHook) OnActionChosen(_ context.Context, event agentexec.ActionChosenEvent) {
	e := h.begin(fmt.Sprintf("ActionChosen: %s", event.Action.Tool))
	e.log("Input:")
	e.logYAML(event.Action.ToolInput)
	h.flush(e)
}

// OnToolFinished logs the observation.
func (h *YAMLHook) OnToolFinished(_ context.Context, event agentexec.ToolFinishedEvent) {
	e := h.begin(fmt.Sprintf("ToolFinished: %s (duration: %s)", event.Action.Tool, event.Duration))
	if event.Err != nil {
		e.log("Error: %v", event.Err)
	}
	e.log("Observation:")
	e.logYAML(event.Observation)
	h.flush(e)
}

// OnParseError logs a handled parsing failure.
func (h *YAMLHook) OnParseError(_ context.Context, event agentexec.ParseErrorEvent) {
	e := h.begin(fmt.Sprintf("ParseError: %s", event.Source))
	data := map[string]any{
		"iteration":   event.Iteration,
		"observation": event.Observation,
	}
	if event.Err != nil {
		data["error"] = event.Err.Error()
	}
	e.logYAML(data)
	h.flush(e)
}

// OnBeforeModelCall logs the request messages.
func (h *YAMLHook) OnBeforeModelCall(_ context.Context, event agentexec.BeforeModelCallEvent) {
	e := h.begin(fmt.Sprintf("BeforeModelCall: %s", event.Model))
	e.log("Request:")
	for i, msg := range event.Messages {
		e.log("  [%d] Role: %s", i, msg.Role)
		for _, part := range msg.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				e.log("      Content:")
				e.logBlock("        ", tc.Text)
			}
		}
	}
	h.flush(e)
}

// OnAfterModelCall logs the response and token usage.
func (h *YAMLHook) OnAfterModelCall(_ context.Context, event agentexec.AfterModelCallEvent) {
	e := h.begin(fmt.Sprintf("AfterModelCall: %s (duration: %s)", event.Model, event.Duration))
	defer h.flush(e)

	if event.Err != nil {
		e.log("Error: %v", event.Err)
		return
	}
	if event.Response != nil {
		for i, choice := range event.Response.Choices {
			e.log("Choice[%d]:", i)
			if choice.Content != "" {
				e.log("  Content:")
				e.logBlock("    ", choice.Content)
			}
			if choice.StopReason != "" {
				e.log("  StopReason: %s", choice.StopReason)
			}
		}
	}
	e.log("Tokens: input=%d, output=%d, total=%d",
		event.Usage.InputTokens, event.Usage.OutputTokens, event.Usage.TotalTokens)
}

func stepsData(steps []agentexec.Step) []map[string]any {
	data := make([]map[string]any, 0, len(steps))
	for _, step := range steps {
		data = append(data, map[string]any{
			"tool":        step.Action.Tool,
			"input":       step.Action.ToolInput,
			"observation": step.Observation,
		})
	}
	return data
}

// Compile-time checks that YAMLHook implements all hook interfaces.
var (
	_ agentexec.RunStartedHook      = (*YAMLHook)(nil)
	_ agentexec.RunFinishedHook     = (*YAMLHook)(nil)
	_ agentexec.RunFailedHook       = (*YAMLHook)(nil)
	_ agentexec.BeforeIterationHook = (*YAMLHook)(nil)
	_ agentexec.AfterIterationHook  = (*YAMLHook)(nil)
	_ agentexec.ActionChosenHook    = (*YAMLHook)(nil)
	_ agentexec.ToolFinishedHook    = (*YAMLHook)(nil)
	_ agentexec.ParseErrorHook      = (*YAMLHook)(nil)
	_ agentexec.BeforeModelCallHook = (*YAMLHook)(nil)
	_ agentexec.AfterModelCallHook  = (*YAMLHook)(nil)
)
