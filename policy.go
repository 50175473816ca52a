package agentexec

import "errors"

// Default observations used by [HandleParsingErrors].
const (
	InvalidResponseObservation  = "Invalid or incomplete response"
	InvalidToolInputObservation = "Invalid or incomplete tool input. Please try again."
)

type policyMode int

const (
	policyPropagate policyMode = iota
	policyDefault
	policyLiteral
	policyFunc
)

// ParsingErrorPolicy decides how a recoverable failure becomes an observation.
//
// The zero value propagates the failure. Build other policies with [HandleParsingErrors],
// [ParsingErrorMessage] and [ParsingErrorFunc].
type ParsingErrorPolicy struct {
	mode    policyMode
	message string
	fn      func(err error) string
}

// PropagateParsingErrors returns the policy that fails the run with the original error.
func PropagateParsingErrors() ParsingErrorPolicy {
	return ParsingErrorPolicy{mode: policyPropagate}
}

// HandleParsingErrors returns the policy that feeds a default observation back to the planner.
// For planner output failures the parser's own observation is preferred when it offers one.
func HandleParsingErrors() ParsingErrorPolicy {
	return ParsingErrorPolicy{mode: policyDefault}
}

// ParsingErrorMessage returns the policy that always uses msg as the observation.
func ParsingErrorMessage(msg string) ParsingErrorPolicy {
	return ParsingErrorPolicy{mode: policyLiteral, message: msg}
}

// ParsingErrorFunc returns the policy that computes the observation from the failure.
// A nil fn yields the propagate policy.
func ParsingErrorFunc(fn func(err error) string) ParsingErrorPolicy {
	if fn == nil {
		return PropagateParsingErrors()
	}
	return ParsingErrorPolicy{mode: policyFunc, fn: fn}
}

// Propagates reports whether failures are returned to the caller instead of handled.
func (p ParsingErrorPolicy) Propagates() bool {
	return p.mode == policyPropagate
}

// String describes the policy for logs and config dumps.
func (p ParsingErrorPolicy) String() string {
	switch p.mode {
	case policyDefault:
		return "handle"
	case policyLiteral:
		return "message"
	case policyFunc:
		return "func"
	default:
		return "propagate"
	}
}

// OutputObservation returns the observation for a planner output parsing failure.
// ok is false when the policy propagates.
func (p ParsingErrorPolicy) OutputObservation(err *OutputParseError) (observation string, ok bool) {
	switch p.mode {
	case policyDefault:
		if err != nil && err.SendToPlanner && err.Observation != "" {
			return err.Observation, true
		}
		return InvalidResponseObservation, true
	case policyLiteral:
		return p.message, true
	case policyFunc:
		return p.fn(err), true
	default:
		return "", false
	}
}

// ToolObservation returns the observation for a failed tool call. fallback is used by the
// default policy. ok is false when the policy propagates.
func (p ParsingErrorPolicy) ToolObservation(err error, fallback string) (observation string, ok bool) {
	switch p.mode {
	case policyDefault:
		return fallback, true
	case policyLiteral:
		return p.message, true
	case policyFunc:
		return p.fn(err), true
	default:
		return "", false
	}
}

// IsToolInputError reports whether err is a tool input parsing failure.
func IsToolInputError(err error) bool {
	return errors.Is(err, ErrToolInputParsing)
}
