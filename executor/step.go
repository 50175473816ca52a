package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rickchristie/agentexec"
	"golang.org/x/sync/errgroup"
)

// roundOutcome is the result of one planning round: either steps to record or a finish.
type roundOutcome struct {
	steps  []agentexec.Step
	finish *agentexec.Finish
}

// takeNextStep asks the planner for the next move and executes it.
//
// Planner output parsing failures are turned into a single exception step unless the parsing
// policy propagates them. Every other planner failure propagates.
func (e *Executor) takeNextStep(
	ctx context.Context,
	info agentexec.RunInfo,
	steps []agentexec.Step,
	inputs map[string]any,
) (*roundOutcome, error) {
	ctx = agentexec.WithRunInfo(ctx, info)

	result, err := e.planner.Plan(ctx, steps, inputs)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: nil result", agentexec.ErrInvalidPlanResult)
	}

	switch result.Kind {
	case agentexec.PlanFinish:
		if result.Finish == nil {
			return nil, fmt.Errorf("%w: finish without value", agentexec.ErrInvalidPlanResult)
		}
		return &roundOutcome{finish: result.Finish}, nil

	case agentexec.PlanParseError:
		perr := result.ParseError
		if perr == nil {
			perr = &agentexec.OutputParseError{}
		}
		observation, ok := e.config.ParsingErrors.OutputObservation(perr)
		if !ok {
			return nil, perr
		}
		e.hooks.FireParseError(ctx, agentexec.ParseErrorEvent{
			RunID:       info.RunID,
			Iteration:   info.Iteration,
			Source:      agentexec.ParseErrorSourceOutput,
			Err:         perr,
			Observation: observation,
		})
		action := agentexec.Action{
			Tool:      agentexec.ExceptionToolName,
			ToolInput: observation,
			Log:       perr.PlannerOutput,
		}
		newSteps, err := e.executeActions(ctx, info, []agentexec.Action{action})
		if err != nil {
			return nil, err
		}
		return &roundOutcome{steps: newSteps}, nil

	case agentexec.PlanActions:
		if len(result.Actions) == 0 {
			return nil, agentexec.ErrEmptyActionSequence
		}
		newSteps, err := e.executeActions(ctx, info, result.Actions)
		if err != nil {
			return nil, err
		}
		return &roundOutcome{steps: newSteps}, nil

	default:
		return nil, fmt.Errorf("%w: kind %v", agentexec.ErrInvalidPlanResult, result.Kind)
	}
}

// executeActions runs each action and returns steps in the same order as actions.
func (e *Executor) executeActions(
	ctx context.Context,
	info agentexec.RunInfo,
	actions []agentexec.Action,
) ([]agentexec.Step, error) {
	steps := make([]agentexec.Step, len(actions))

	if !e.config.ConcurrentActions || len(actions) == 1 {
		for i, action := range actions {
			step, err := e.executeAction(ctx, info, action)
			if err != nil {
				return nil, err
			}
			steps[i] = step
		}
		return steps, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, action := range actions {
		g.Go(func() error {
			step, err := e.executeAction(gctx, info, action)
			if err != nil {
				return err
			}
			steps[i] = step
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return steps, nil
}

// executeAction resolves the action's tool, calls it and converts recoverable failures into an
// observation.
func (e *Executor) executeAction(
	ctx context.Context,
	info agentexec.RunInfo,
	action agentexec.Action,
) (agentexec.Step, error) {
	e.hooks.FireActionChosen(ctx, agentexec.ActionChosenEvent{
		RunID:     info.RunID,
		Iteration: info.Iteration,
		Action:    action,
	})

	start := e.timeProvider.Now()
	observation, toolErr, err := e.callTool(ctx, info, action)
	if err != nil {
		return agentexec.Step{}, err
	}

	e.hooks.FireToolFinished(ctx, agentexec.ToolFinishedEvent{
		RunID:       info.RunID,
		Iteration:   info.Iteration,
		Action:      action,
		Observation: observation,
		Duration:    e.timeProvider.Now().Sub(start),
		Err:         toolErr,
	})

	return agentexec.Step{Action: action, Observation: observation, Iteration: info.Iteration}, nil
}

// callTool returns the observation for action. toolErr is a tool failure that a policy converted
// into the observation; err is a failure that must propagate.
func (e *Executor) callTool(
	ctx context.Context,
	info agentexec.RunInfo,
	action agentexec.Action,
) (observation string, toolErr error, err error) {
	var tool agentexec.Tool
	if action.Tool == agentexec.ExceptionToolName {
		tool = agentexec.ExceptionTool{}
	} else {
		var ok bool
		tool, ok = e.Tool(action.Tool)
		if !ok {
			return e.invalidToolObservation(action.Tool), nil, nil
		}
	}

	observation, callErr := tool.Call(ctx, action.ToolInput)
	if callErr == nil {
		return observation, nil, nil
	}

	if ctx.Err() != nil || errors.Is(callErr, context.Canceled) ||
		errors.Is(callErr, context.DeadlineExceeded) {
		return "", nil, fmt.Errorf("tool %q: %w", action.Tool, callErr)
	}

	source := agentexec.ParseErrorSourceTool
	var ok bool
	if agentexec.IsToolInputError(callErr) {
		source = agentexec.ParseErrorSourceToolInput
		observation, ok = e.config.ParsingErrors.ToolObservation(
			callErr, agentexec.InvalidToolInputObservation)
	} else {
		observation, ok = e.config.ToolErrors.ToolObservation(callErr, callErr.Error())
	}
	if !ok {
		return "", nil, fmt.Errorf("tool %q: %w", action.Tool, callErr)
	}

	observation, _ = agentexec.ExceptionTool{}.Call(ctx, observation)
	e.hooks.FireParseError(ctx, agentexec.ParseErrorEvent{
		RunID:       info.RunID,
		Iteration:   info.Iteration,
		Source:      source,
		Err:         callErr,
		Observation: observation,
	})
	return observation, callErr, nil
}

// invalidToolObservation tells the planner the tool does not exist and lists the alternatives.
func (e *Executor) invalidToolObservation(name string) string {
	return fmt.Sprintf(
		"%s is not a valid tool, try another available tool: %s",
		name,
		strings.Join(e.names, ", "),
	)
}

// returnDirectStep returns the first step whose tool is registered as return-direct.
func (e *Executor) returnDirectStep(steps []agentexec.Step) (agentexec.Step, bool) {
	for _, step := range steps {
		if step.Action.Tool == agentexec.ExceptionToolName {
			continue
		}
		if tool, ok := e.Tool(step.Action.Tool); ok && tool.ReturnDirect() {
			return step, true
		}
	}
	return agentexec.Step{}, false
}
