package agentexec

// Event name constants identify framework events in logs and transcripts.
//
// # Naming Convention
//
// Event names follow the pattern: "namespace:category:timing"
//   - namespace: "agentexec" for framework events
//   - category: what the event is about (run, iteration, action, tool, model_call, ...)
//   - timing: when in the lifecycle - omitted for single events
const (
	// Run lifecycle
	EventNameRunStarted  = "agentexec:run:started"
	EventNameRunFinished = "agentexec:run:finished"
	EventNameRunFailed   = "agentexec:run:failed"

	// Iteration lifecycle
	EventNameIterationBefore = "agentexec:iteration:before"
	EventNameIterationAfter  = "agentexec:iteration:after"

	// Actions and tools
	EventNameActionChosen = "agentexec:action:chosen"
	EventNameToolFinished = "agentexec:tool:finished"
	EventNameParseError   = "agentexec:parse_error"

	// Model calls
	EventNameModelCallBefore = "agentexec:model_call:before"
	EventNameModelCallAfter  = "agentexec:model_call:after"
)

// ParseErrorSource tells which parser failed.
type ParseErrorSource string

const (
	// ParseErrorSourceOutput indicates the planner's output could not be parsed.
	ParseErrorSourceOutput ParseErrorSource = "output"

	// ParseErrorSourceToolInput indicates a tool could not interpret its input.
	ParseErrorSourceToolInput ParseErrorSource = "tool_input"

	// ParseErrorSourceTool indicates a tool failed at runtime and the tool error policy handled it.
	ParseErrorSourceTool ParseErrorSource = "tool"
)
