package agentexec

import "context"

// Planner decides the next thing the agent should do.
//
// Given the accumulated steps and the original inputs, Plan returns either one or more actions, a
// finish, or an output parsing failure (see [PlanResult]). A Planner is usually an LLM call plus
// output parsing, but the loop treats it as opaque.
//
// # Implementing a Planner
//
//	type MyPlanner struct{ model llms.Model }
//
//	func (p *MyPlanner) Plan(
//	    ctx context.Context, steps []agentexec.Step, inputs map[string]any,
//	) (*agentexec.PlanResult, error) {
//	    out, err := p.callModel(ctx, steps, inputs)
//	    if err != nil {
//	        return nil, err // propagates, fails the run
//	    }
//	    action, finish, perr := p.parse(out)
//	    switch {
//	    case perr != nil:
//	        return agentexec.PlanFailedParse(perr), nil // recoverable
//	    case finish != nil:
//	        return agentexec.PlanDone(finish), nil
//	    default:
//	        return agentexec.PlanAct(action), nil
//	    }
//	}
//
//	func (p *MyPlanner) ReturnStoppedResponse(
//	    ctx context.Context, method agentexec.EarlyStoppingMethod,
//	    steps []agentexec.Step, inputs map[string]any,
//	) (*agentexec.Finish, error) {
//	    return agentexec.ForceStoppedResponse(method, p.ReturnValues())
//	}
//
//	func (p *MyPlanner) InputKeys() []string    { return []string{"input"} }
//	func (p *MyPlanner) ReturnValues() []string { return []string{"output"} }
type Planner interface {
	// Plan returns the next actions, a finish, or a parse failure. The shape of the result must be
	// stable across calls even though its content comes from a nondeterministic model.
	Plan(ctx context.Context, steps []Step, inputs map[string]any) (*PlanResult, error)

	// ReturnStoppedResponse produces a finish when the iteration or time budget is exhausted.
	// Unknown methods must return an error matching [ErrUnsupportedEarlyStopping].
	ReturnStoppedResponse(
		ctx context.Context,
		method EarlyStoppingMethod,
		steps []Step,
		inputs map[string]any,
	) (*Finish, error)

	// InputKeys returns the input keys that must be present when a run starts.
	InputKeys() []string

	// ReturnValues returns the output keys this planner produces. The first key is used for
	// return-direct tool output and for forced stops.
	ReturnValues() []string
}

// MultiActionPlanner is implemented by planners that may return several actions per round.
//
// When MultiAction reports true, the executor refuses return-direct tools at construction time and
// may dispatch a round's tool calls concurrently.
type MultiActionPlanner interface {
	Planner
	MultiAction() bool
}

// IsMultiAction reports whether p plans multiple actions per round.
func IsMultiAction(p Planner) bool {
	if mp, ok := p.(MultiActionPlanner); ok {
		return mp.MultiAction()
	}
	return false
}

// DefaultOutputKey is the output key used when a planner declares no return values.
const DefaultOutputKey = "output"

// PrimaryOutputKey returns the first declared return value of p, or [DefaultOutputKey].
func PrimaryOutputKey(p Planner) string {
	if keys := p.ReturnValues(); len(keys) > 0 && keys[0] != "" {
		return keys[0]
	}
	return DefaultOutputKey
}
