// Package agentexec runs a planner-driven agent loop: plan, act, observe, repeat.
//
// A [Planner] looks at the steps taken so far and either asks for tool calls or returns a final
// answer. The executor package owns the loop. It resolves tools by name, records every
// (action, observation) pair as a [Step], enforces the iteration and time budgets, and converts
// recoverable parsing failures into observations according to a [ParsingErrorPolicy].
//
// # Quick Start
//
//	planner := react.New(model).RegisterTool(search, calculator)
//
//	exec, err := executor.New(planner, []agentexec.Tool{search, calculator}, executor.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	output, err := exec.Run(ctx, map[string]any{"input": "What is 3 * (4 + 5)?"})
//
// # Stepping Through a Run
//
// Iter returns an [executor.Iterator] that yields each round's steps before the next round is
// planned, so a caller can inspect or stop a run between rounds:
//
//	it, err := exec.Iter(inputs)
//	for {
//	    res, err := it.Next(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    if res.Kind != executor.IterSteps {
//	        break
//	    }
//	    for _, step := range res.Steps {
//	        fmt.Println(step.Action.Tool, step.Observation)
//	    }
//	}
//
// # Parsing Failures
//
// Planner output that cannot be parsed is reported as a [PlanResult] of kind [PlanParseError].
// With a handling policy the loop records a step whose tool is [ExceptionToolName] and whose
// observation tells the planner what went wrong. The same policy type controls tool input failures
// ([ToolInputError]), and a separate one can handle runtime tool failures.
//
// # Hooks
//
// Hooks observe a run without changing it. Implement any of the *Hook interfaces and register
// the value with a hooks.Registry; the loggers package has slog, YAML transcript and counter hooks.
package agentexec
