package executor

import (
	"time"

	"github.com/rickchristie/agentexec"
)

// DefaultMaxIterations is the iteration bound applied by [DefaultConfig].
const DefaultMaxIterations = 15

// IntermediateStepsKey is the output key holding []agentexec.Step when
// Config.ReturnIntermediateSteps is set.
const IntermediateStepsKey = "intermediate_steps"

// Config holds configuration options for the Executor.
type Config struct {
	// MaxIterations bounds the number of completed planning rounds.
	// Set to 0 (or any negative value) for unlimited iterations; termination then depends entirely
	// on the planner eventually returning a finish.
	MaxIterations int

	// MaxExecutionTime bounds the wall-clock duration of a run, measured from the first advance.
	// Set to 0 for no time bound.
	MaxExecutionTime time.Duration

	// EarlyStoppingMethod is passed to Planner.ReturnStoppedResponse when a bound is reached.
	// Empty means agentexec.EarlyStoppingForce. The name is only checked when a bound is hit.
	EarlyStoppingMethod agentexec.EarlyStoppingMethod

	// ReturnIntermediateSteps adds the full step sequence to the output under
	// IntermediateStepsKey.
	ReturnIntermediateSteps bool

	// ParsingErrors governs planner output parsing failures and tool input parsing failures.
	// The zero value propagates them.
	ParsingErrors agentexec.ParsingErrorPolicy

	// ToolErrors governs tool failures that are not input parsing failures.
	// The zero value propagates them. Cancellation always propagates.
	ToolErrors agentexec.ParsingErrorPolicy

	// ConcurrentActions dispatches the tool calls of a multi-action round concurrently.
	// Steps are still recorded in action order.
	ConcurrentActions bool
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations:       DefaultMaxIterations,
		EarlyStoppingMethod: agentexec.EarlyStoppingForce,
		ParsingErrors:       agentexec.PropagateParsingErrors(),
		ToolErrors:          agentexec.PropagateParsingErrors(),
	}
}

// earlyStoppingMethod returns the configured method, defaulting to force.
func (c Config) earlyStoppingMethod() agentexec.EarlyStoppingMethod {
	if c.EarlyStoppingMethod == "" {
		return agentexec.EarlyStoppingForce
	}
	return c.EarlyStoppingMethod
}

// shouldContinue is the continuation predicate evaluated before each planning round.
func (c Config) shouldContinue(iterations int, elapsed time.Duration) bool {
	if c.MaxIterations > 0 && iterations >= c.MaxIterations {
		return false
	}
	if c.MaxExecutionTime > 0 && elapsed >= c.MaxExecutionTime {
		return false
	}
	return true
}
