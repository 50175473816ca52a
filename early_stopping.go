package agentexec

// EarlyStoppingMethod names the strategy used to produce a finish when the iteration or time
// budget runs out before the planner finishes on its own.
type EarlyStoppingMethod string

const (
	// EarlyStoppingForce returns a fixed "stopped" message without calling the planner again.
	EarlyStoppingForce EarlyStoppingMethod = "force"

	// EarlyStoppingGenerate asks the planner for one final answer based on the steps so far.
	// Only planners that implement it accept this method.
	EarlyStoppingGenerate EarlyStoppingMethod = "generate"
)

// StoppedMessage is the output of a forced stop.
const StoppedMessage = "Agent stopped due to iteration limit or time limit."

// ForceStoppedResponse implements the "force" method for planners that support nothing else.
//
// Returns a finish mapping the first of returnValues (or [DefaultOutputKey]) to
// [StoppedMessage]. Any other method yields an [UnsupportedEarlyStoppingError].
func ForceStoppedResponse(method EarlyStoppingMethod, returnValues []string) (*Finish, error) {
	if method != EarlyStoppingForce {
		return nil, &UnsupportedEarlyStoppingError{Method: method}
	}
	key := DefaultOutputKey
	if len(returnValues) > 0 && returnValues[0] != "" {
		key = returnValues[0]
	}
	return &Finish{
		ReturnValues: map[string]any{key: StoppedMessage},
		Log:          "",
	}, nil
}
