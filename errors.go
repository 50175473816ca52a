package agentexec

import (
	"errors"
	"fmt"
	"strings"
)

// Errors are matched with errors.Is; typed errors below unwrap to them.
var (
	ErrMissingInputKey          = errors.New("agentexec: missing required input key")
	ErrToolInputParsing         = errors.New("agentexec: tool input parsing failed")
	ErrOutputParsing            = errors.New("agentexec: planner output parsing failed")
	ErrUnsupportedEarlyStopping = errors.New("agentexec: unsupported early stopping method")
	ErrReturnDirectMultiAction  = errors.New(
		"agentexec: return-direct tools are not allowed with multi-action planners")
	ErrDuplicateTool       = errors.New("agentexec: duplicate tool name")
	ErrNilTool             = errors.New("agentexec: nil tool")
	ErrNilPlanner          = errors.New("agentexec: nil planner")
	ErrFinalOutputReached  = errors.New("agentexec: final output already reached")
	ErrInvalidPlanResult   = errors.New("agentexec: invalid plan result")
	ErrEmptyActionSequence = errors.New("agentexec: planner returned no actions")
)

// MissingInputKeyError lists the required input keys absent from a run's inputs.
type MissingInputKeyError struct {
	Keys []string
}

func (e *MissingInputKeyError) Error() string {
	return fmt.Sprintf("agentexec: missing required input keys: %s", strings.Join(e.Keys, ", "))
}

func (e *MissingInputKeyError) Unwrap() error {
	return ErrMissingInputKey
}

// OutputParseError describes planner output that could not be parsed into actions or a finish.
//
// It is carried inside a [PlanResult] rather than returned as an error. When the executor's
// parsing error policy is to propagate, it is returned to the caller as-is.
type OutputParseError struct {
	// Err is the underlying parser failure.
	Err error

	// Observation is the parser's suggested feedback for the planner. Used by the "handle"
	// policy when SendToPlanner is true.
	Observation string

	// PlannerOutput is the raw planner output that failed to parse. It becomes the Log of the
	// synthesized exception action.
	PlannerOutput string

	// SendToPlanner reports whether Observation is suitable to show the planner verbatim.
	SendToPlanner bool
}

func (e *OutputParseError) Error() string {
	if e.Err == nil {
		return ErrOutputParsing.Error()
	}
	return fmt.Sprintf("%v: %v", ErrOutputParsing, e.Err)
}

// Is reports whether target is [ErrOutputParsing].
func (e *OutputParseError) Is(target error) bool {
	return target == ErrOutputParsing
}

func (e *OutputParseError) Unwrap() error {
	return e.Err
}

// ToolInputError is returned by tools that cannot interpret the input they were given.
type ToolInputError struct {
	Tool  string
	Input any
	Err   error
}

// NewToolInputError wraps err as an input parsing failure of the named tool.
func NewToolInputError(tool string, input any, err error) *ToolInputError {
	return &ToolInputError{Tool: tool, Input: input, Err: err}
}

func (e *ToolInputError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: tool %q", ErrToolInputParsing, e.Tool)
	}
	return fmt.Sprintf("%v: tool %q: %v", ErrToolInputParsing, e.Tool, e.Err)
}

// Is reports whether target is [ErrToolInputParsing].
func (e *ToolInputError) Is(target error) bool {
	return target == ErrToolInputParsing
}

func (e *ToolInputError) Unwrap() error {
	return e.Err
}

// UnsupportedEarlyStoppingError names an early stopping method the planner does not implement.
type UnsupportedEarlyStoppingError struct {
	Method EarlyStoppingMethod
}

func (e *UnsupportedEarlyStoppingError) Error() string {
	return fmt.Sprintf("agentexec: invalid early stopping method %q", string(e.Method))
}

func (e *UnsupportedEarlyStoppingError) Unwrap() error {
	return ErrUnsupportedEarlyStopping
}
