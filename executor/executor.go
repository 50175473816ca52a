package executor

import (
	"context"
	"fmt"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/hooks"
)

// Executor drives the plan-act-observe cycle of a Planner over a fixed set of tools.
//
// The Executor is responsible for:
//   - Validating the run's inputs against the planner's declared input keys
//   - Asking the planner for the next actions and executing them against the tool registry
//   - Converting recoverable failures into observations according to the configured policies
//   - Enforcing iteration and time bounds, and running the early stopping method
//   - Notifying hooks at each point of the run
//
// The tool registry is built once by [New] and is read-only afterwards, so one Executor may serve
// concurrent runs. Run state lives in the [Iterator] of each run.
type Executor struct {
	planner  agentexec.Planner
	registry map[string]agentexec.Tool
	names    []string

	config       Config
	hooks        *hooks.Registry
	timeProvider agentexec.TimeProvider
}

// New creates a new Executor.
//
// Returns an error if planner or any tool is nil, if two tools share a name (case-insensitive),
// or if the planner is multi-action and any tool is return-direct.
func New(planner agentexec.Planner, tools []agentexec.Tool, config Config) (*Executor, error) {
	if planner == nil {
		return nil, agentexec.ErrNilPlanner
	}

	multiAction := agentexec.IsMultiAction(planner)
	registry := make(map[string]agentexec.Tool, len(tools))
	names := make([]string, 0, len(tools))
	for i, tool := range tools {
		if tool == nil {
			return nil, fmt.Errorf("%w at index %d", agentexec.ErrNilTool, i)
		}
		key := agentexec.ToolKey(tool.Name())
		if _, exists := registry[key]; exists {
			return nil, fmt.Errorf("%w: %q", agentexec.ErrDuplicateTool, tool.Name())
		}
		if multiAction && tool.ReturnDirect() {
			return nil, fmt.Errorf("%w: %q", agentexec.ErrReturnDirectMultiAction, tool.Name())
		}
		registry[key] = tool
		names = append(names, tool.Name())
	}

	return &Executor{
		planner:      planner,
		registry:     registry,
		names:        names,
		config:       config,
		hooks:        hooks.NewRegistry(),
		timeProvider: agentexec.NewDefaultTimeProvider(),
	}, nil
}

// WithHooks replaces the executor's hook registry with the provided one.
// Use this when you need to share a registry across multiple executors.
// Returns the executor for chaining.
func (e *Executor) WithHooks(h *hooks.Registry) *Executor {
	e.hooks = h
	return e
}

// RegisterHook adds a hook to the executor's existing hook registry.
// The hook can implement any combination of hook interfaces.
// Returns the executor for chaining.
func (e *Executor) RegisterHook(hook any) *Executor {
	if e.hooks == nil {
		e.hooks = hooks.NewRegistry()
	}
	e.hooks.Register(hook)
	return e
}

// WithTimeProvider sets the clock used for MaxExecutionTime.
// Use this to inject a mock time provider for testing.
func (e *Executor) WithTimeProvider(tp agentexec.TimeProvider) *Executor {
	e.timeProvider = tp
	return e
}

// Config returns the executor's configuration.
func (e *Executor) Config() Config {
	return e.config
}

// ToolNames returns the registered tool names in registration order.
func (e *Executor) ToolNames() []string {
	names := make([]string, len(e.names))
	copy(names, e.names)
	return names
}

// Tool returns the tool registered under name, matched case-insensitively.
func (e *Executor) Tool(name string) (agentexec.Tool, bool) {
	tool, ok := e.registry[agentexec.ToolKey(name)]
	return tool, ok
}

// Run drives a run to completion and returns its output.
//
// The execution flow:
//  1. Validate inputs (fails before any planning call)
//  2. Repeatedly plan and execute one round until:
//     - The planner returns a finish
//     - A return-direct tool produced an observation
//     - The iteration or time bound is reached (early stopping method produces the finish)
//     - The context is canceled or an unrecoverable error occurs
//  3. Assemble the output from the finish's return values, plus the intermediate steps when
//     configured.
//
// Exhausting the iteration budget is not an error: with the default "force" method the
// output states that the agent stopped.
func (e *Executor) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	it, err := e.Iter(inputs)
	if err != nil {
		return nil, err
	}
	for {
		result, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if result.Kind == IterFinished {
			return result.Output, nil
		}
	}
}

// Iter validates inputs and returns an Iterator positioned before the first round.
func (e *Executor) Iter(inputs map[string]any) (*Iterator, error) {
	if err := e.validateInputs(inputs); err != nil {
		return nil, err
	}
	it := &Iterator{exec: e, inputs: inputs}
	it.Reset()
	return it, nil
}

// validateInputs checks that every declared planner input key is present.
func (e *Executor) validateInputs(inputs map[string]any) error {
	var missing []string
	for _, key := range e.planner.InputKeys() {
		if _, ok := inputs[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &agentexec.MissingInputKeyError{Keys: missing}
	}
	return nil
}
