package agentexec

import (
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Event is implemented by all hook events.
type Event interface {
	// Name returns one of the EventName constants.
	Name() string
}

// -----------------------------------------------------------------------------
// Run Events
// -----------------------------------------------------------------------------

// RunStartedEvent is emitted once, before the first planning round.
type RunStartedEvent struct {
	RunID  string
	Inputs map[string]any
}

func (RunStartedEvent) Name() string { return EventNameRunStarted }

// RunFinishedEvent is emitted once when a finish has been assembled.
type RunFinishedEvent struct {
	RunID string

	// Output is the final output mapping returned to the caller.
	Output map[string]any

	// Iterations is the number of completed planning rounds.
	Iterations int

	// Stopped is true when the finish came from the early stopping method.
	Stopped bool

	// Duration is measured from RunStartedEvent.
	Duration time.Duration
}

func (RunFinishedEvent) Name() string { return EventNameRunFinished }

// RunFailedEvent is emitted when a run fails with an error that is returned to the caller.
type RunFailedEvent struct {
	RunID string

	// Iteration is the round in which the failure happened (1-indexed).
	Iteration int

	Err error
}

func (RunFailedEvent) Name() string { return EventNameRunFailed }

// -----------------------------------------------------------------------------
// Iteration Events
// -----------------------------------------------------------------------------

// BeforeIterationEvent is emitted before each planning round.
type BeforeIterationEvent struct {
	RunID string

	// Iteration is the round about to run (1-indexed).
	Iteration int
}

func (BeforeIterationEvent) Name() string { return EventNameIterationBefore }

// AfterIterationEvent is emitted after a planning round that produced steps.
type AfterIterationEvent struct {
	RunID     string
	Iteration int

	// Steps are the steps appended in this round, in action order.
	Steps []Step

	Duration time.Duration
}

func (AfterIterationEvent) Name() string { return EventNameIterationAfter }

// -----------------------------------------------------------------------------
// Action and Tool Events
// -----------------------------------------------------------------------------

// ActionChosenEvent is emitted before each action is executed, including unknown tools.
type ActionChosenEvent struct {
	RunID     string
	Iteration int
	Action    Action
}

func (ActionChosenEvent) Name() string { return EventNameActionChosen }

// ToolFinishedEvent is emitted after each action produced its observation.
type ToolFinishedEvent struct {
	RunID       string
	Iteration   int
	Action      Action
	Observation string
	Duration    time.Duration

	// Err is the tool error that was converted to Observation by a policy, if any.
	Err error
}

func (ToolFinishedEvent) Name() string { return EventNameToolFinished }

// ParseErrorEvent is emitted when a parsing failure is converted into an observation.
type ParseErrorEvent struct {
	RunID       string
	Iteration   int
	Source      ParseErrorSource
	Err         error
	Observation string
}

func (ParseErrorEvent) Name() string { return EventNameParseError }

// -----------------------------------------------------------------------------
// Model Call Events
// -----------------------------------------------------------------------------

// BeforeModelCallEvent is emitted before each model API call.
type BeforeModelCallEvent struct {
	RunID     string
	Iteration int
	Model     string
	Messages  []llms.MessageContent
}

func (BeforeModelCallEvent) Name() string { return EventNameModelCallBefore }

// AfterModelCallEvent is emitted after each model API call completes.
type AfterModelCallEvent struct {
	RunID     string
	Iteration int
	Model     string
	Messages  []llms.MessageContent
	Response  *llms.ContentResponse
	Usage     TokenUsage
	Duration  time.Duration
	Err       error
}

// TokenUsage is token accounting normalized across providers. Zero means the provider did not
// report that count.
type TokenUsage struct {
	InputTokens       int
	OutputTokens      int
	TotalTokens       int
	CachedInputTokens int
	ReasoningTokens   int
}

func (AfterModelCallEvent) Name() string { return EventNameModelCallAfter }
