package agentexec

import (
	"encoding/json"
	"fmt"
)

// Action is a planner-issued instruction naming a tool and its input.
//
// ToolInput is either a string or a structured value (typically map[string]any decoded from the
// planner's output). Log carries the planner's raw rationale for this action and is what the
// planner sees again in its scratchpad.
type Action struct {
	Tool      string
	ToolInput any
	Log       string
}

// InputText returns the tool input as text. Structured inputs are rendered as JSON.
func (a Action) InputText() string {
	switch v := a.ToolInput.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// Step is one (action, observation) pair recorded in a run's history.
type Step struct {
	Action      Action
	Observation string

	// Iteration is the planning round that produced the step, starting at 1. Steps of the same
	// round share it. Zero means unknown.
	Iteration int
}

// Finish is a planner-issued terminal result.
type Finish struct {
	// ReturnValues maps output keys to values. These become the run's output.
	ReturnValues map[string]any

	// Log is the planner's raw output that produced this finish.
	Log string
}

// PlanKind tags the variant held by a [PlanResult].
type PlanKind int

const (
	// PlanActions means the planner wants one or more tools executed.
	PlanActions PlanKind = iota

	// PlanFinish means the planner reached a final answer.
	PlanFinish

	// PlanParseError means the planner's raw output could not be parsed into either of the above.
	PlanParseError
)

func (k PlanKind) String() string {
	switch k {
	case PlanActions:
		return "actions"
	case PlanFinish:
		return "finish"
	case PlanParseError:
		return "parse_error"
	default:
		return fmt.Sprintf("PlanKind(%d)", int(k))
	}
}

// PlanResult is the tagged result of a single [Planner.Plan] call.
//
// Exactly one of Actions, Finish or ParseError is meaningful, selected by Kind. Planners report
// unparseable model output through PlanParseError instead of returning a Go error, so the loop
// can apply its parsing-error policy with a plain switch. Go errors returned from Plan are reserved
// for real failures (network, cancellation) and always propagate.
type PlanResult struct {
	Kind       PlanKind
	Actions    []Action
	Finish     *Finish
	ParseError *OutputParseError
}

// PlanAct returns a PlanResult requesting the given actions.
func PlanAct(actions ...Action) *PlanResult {
	return &PlanResult{Kind: PlanActions, Actions: actions}
}

// PlanDone returns a PlanResult carrying the final answer.
func PlanDone(finish *Finish) *PlanResult {
	return &PlanResult{Kind: PlanFinish, Finish: finish}
}

// PlanFailedParse returns a PlanResult reporting an output parsing failure.
func PlanFailedParse(err *OutputParseError) *PlanResult {
	return &PlanResult{Kind: PlanParseError, ParseError: err}
}
