package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rickchristie/agentexec"
)

// IterKind tags the variant held by an [IterResult].
type IterKind int

const (
	// IterSteps means one round ran and produced new steps; the run continues.
	IterSteps IterKind = iota

	// IterFinished means this advance produced the final output.
	IterFinished

	// IterAlreadyFinished means the final output had been produced by an earlier advance.
	IterAlreadyFinished
)

func (k IterKind) String() string {
	switch k {
	case IterSteps:
		return "steps"
	case IterFinished:
		return "finished"
	case IterAlreadyFinished:
		return "already_finished"
	default:
		return fmt.Sprintf("IterKind(%d)", int(k))
	}
}

// IterResult is the result of one [Iterator.Next] call.
type IterResult struct {
	Kind IterKind

	// Steps are the steps produced by this advance, in action order. Set for IterSteps, and for
	// IterFinished when a return-direct tool ended the run.
	Steps []agentexec.Step

	// Output is the final output. Set for IterFinished and IterAlreadyFinished.
	Output map[string]any
}

// Iterator runs a single run one planning round at a time.
//
// Each Next call either executes exactly one round or produces the final output. Consumers that
// need to react after every tool call (streaming progress, human approval) drive the Iterator
// themselves; [Executor.Run] drives the same Iterator to completion.
//
//	it, err := exec.Iter(map[string]any{"input": "What is 2+2?"})
//	for {
//	    res, err := it.Next(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    if res.Kind == executor.IterFinished {
//	        fmt.Println(res.Output["output"])
//	        break
//	    }
//	    for _, step := range res.Steps {
//	        fmt.Println(step.Action.Tool, "=>", step.Observation)
//	    }
//	}
//
// An Iterator is owned by a single driver and is not safe for concurrent use.
type Iterator struct {
	exec   *Executor
	inputs map[string]any

	runID       string
	started     bool
	startTime   time.Time
	steps       []agentexec.Step
	iterations  int
	finished    bool
	finalOutput map[string]any
}

// Reset returns the iterator to its initial state: no steps, no iterations, no final output.
// The next call to Next starts a fresh run with a new run ID.
func (it *Iterator) Reset() {
	it.runID = ""
	it.started = false
	it.startTime = time.Time{}
	it.steps = nil
	it.iterations = 0
	it.finished = false
	it.finalOutput = nil
}

// Next advances the run by one round.
//
// If the run already finished, Next returns an IterAlreadyFinished result holding the stored
// output together with [agentexec.ErrFinalOutputReached], without calling the planner. If the
// iteration or time bound is reached, the early stopping method produces the final output.
// Otherwise one round runs and its steps, or the final output, are returned.
//
// Errors from the planner, from tools whose failures propagate, and context cancellation fail
// the run; the iterator stays unfinished and RunFailedEvent is fired.
func (it *Iterator) Next(ctx context.Context) (*IterResult, error) {
	if it.finished {
		return &IterResult{Kind: IterAlreadyFinished, Output: it.finalOutput},
			agentexec.ErrFinalOutputReached
	}

	e := it.exec
	if !it.started {
		it.started = true
		it.runID = uuid.NewString()
		it.startTime = e.timeProvider.Now()
		e.hooks.FireRunStarted(ctx, agentexec.RunStartedEvent{
			RunID:  it.runID,
			Inputs: it.inputs,
		})
	}

	iteration := it.iterations + 1
	if err := ctx.Err(); err != nil {
		return nil, it.fail(ctx, iteration, err)
	}

	if !e.config.shouldContinue(it.iterations, it.elapsed()) {
		return it.stop(ctx, iteration)
	}

	e.hooks.FireBeforeIteration(ctx, agentexec.BeforeIterationEvent{
		RunID:     it.runID,
		Iteration: iteration,
	})

	roundStart := e.timeProvider.Now()
	outcome, err := e.takeNextStep(ctx, it.runInfo(iteration), it.Steps(), it.inputs)
	if err != nil {
		return nil, it.fail(ctx, iteration, err)
	}
	if outcome.finish != nil {
		return it.finalize(ctx, outcome.finish, nil, false), nil
	}

	it.steps = append(it.steps, outcome.steps...)
	it.iterations++
	e.hooks.FireAfterIteration(ctx, agentexec.AfterIterationEvent{
		RunID:     it.runID,
		Iteration: iteration,
		Steps:     outcome.steps,
		Duration:  e.timeProvider.Now().Sub(roundStart),
	})

	if step, ok := e.returnDirectStep(outcome.steps); ok {
		finish := &agentexec.Finish{
			ReturnValues: map[string]any{
				agentexec.PrimaryOutputKey(e.planner): step.Observation,
			},
		}
		return it.finalize(ctx, finish, outcome.steps, false), nil
	}

	return &IterResult{Kind: IterSteps, Steps: outcome.steps}, nil
}

// stop runs the early stopping method once a bound is reached.
func (it *Iterator) stop(ctx context.Context, iteration int) (*IterResult, error) {
	e := it.exec
	finish, err := e.planner.ReturnStoppedResponse(
		agentexec.WithRunInfo(ctx, it.runInfo(iteration)),
		e.config.earlyStoppingMethod(),
		it.Steps(),
		it.inputs,
	)
	if err != nil {
		return nil, it.fail(ctx, iteration, fmt.Errorf("early stopping: %w", err))
	}
	if finish == nil {
		return nil, it.fail(ctx, iteration,
			fmt.Errorf("%w: early stopping returned no finish", agentexec.ErrInvalidPlanResult))
	}
	return it.finalize(ctx, finish, nil, true), nil
}

// finalize builds and stores the output mapping.
func (it *Iterator) finalize(
	ctx context.Context,
	finish *agentexec.Finish,
	steps []agentexec.Step,
	stopped bool,
) *IterResult {
	e := it.exec
	output := make(map[string]any, len(finish.ReturnValues)+1)
	for k, v := range finish.ReturnValues {
		output[k] = v
	}
	if e.config.ReturnIntermediateSteps {
		output[IntermediateStepsKey] = it.Steps()
	}

	it.finished = true
	it.finalOutput = output

	e.hooks.FireRunFinished(ctx, agentexec.RunFinishedEvent{
		RunID:      it.runID,
		Output:     output,
		Iterations: it.iterations,
		Stopped:    stopped,
		Duration:   it.elapsed(),
	})

	return &IterResult{Kind: IterFinished, Steps: steps, Output: output}
}

// fail notifies hooks and returns err annotated with the iteration.
func (it *Iterator) fail(ctx context.Context, iteration int, err error) error {
	wrapped := fmt.Errorf("iteration %d: %w", iteration, err)
	it.exec.hooks.FireRunFailed(ctx, agentexec.RunFailedEvent{
		RunID:     it.runID,
		Iteration: iteration,
		Err:       wrapped,
	})
	return wrapped
}

func (it *Iterator) runInfo(iteration int) agentexec.RunInfo {
	return agentexec.RunInfo{RunID: it.runID, Iteration: iteration}
}

func (it *Iterator) elapsed() time.Duration {
	if !it.started {
		return 0
	}
	return it.exec.timeProvider.Now().Sub(it.startTime)
}

// Steps returns a copy of the steps recorded so far.
func (it *Iterator) Steps() []agentexec.Step {
	steps := make([]agentexec.Step, len(it.steps))
	copy(steps, it.steps)
	return steps
}

// Iterations returns the number of completed planning rounds.
func (it *Iterator) Iterations() int {
	return it.iterations
}

// FinalOutput returns the stored output once the run finished.
func (it *Iterator) FinalOutput() (map[string]any, bool) {
	return it.finalOutput, it.finished
}

// RunID returns the current run's identifier, empty before the first advance.
func (it *Iterator) RunID() string {
	return it.runID
}
