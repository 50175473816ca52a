package agentexec

import "context"

// ExceptionToolName is the tool name recorded on steps synthesized from parsing failures.
const ExceptionToolName = "_Exception"

// ExceptionTool echoes back whatever text it is given.
//
// Parsing failure observations are routed through it so they reach the planner through the same
// action/observation channel as ordinary tool calls. It is never looked up in the tool registry.
type ExceptionTool struct{}

// Name returns [ExceptionToolName].
func (ExceptionTool) Name() string { return ExceptionToolName }

// Description describes the pseudo-tool.
func (ExceptionTool) Description() string {
	return "Exception tool. Echoes back the parsing error observation."
}

// ReturnDirect is always false.
func (ExceptionTool) ReturnDirect() bool { return false }

// Call returns the input text unchanged.
func (ExceptionTool) Call(_ context.Context, input any) (string, error) {
	return Action{ToolInput: input}.InputText(), nil
}

var _ Tool = ExceptionTool{}
