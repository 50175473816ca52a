package agentexec

import (
	"context"
	"strings"
)

// Tool is a named callable the planner can ask the loop to invoke.
//
// Call receives the action's input unchanged: a string for text tools, or a structured value for
// tools that accept arguments. A tool that cannot interpret its input must return an error
// matching [ErrToolInputParsing] (use [NewToolInputError]); the loop then applies its parsing
// error policy. Any other error fails the run unless a tool error policy says otherwise.
type Tool interface {
	// Name returns the identifier planners use to select the tool. Lookup is case-insensitive.
	Name() string

	// Description returns a human readable description for the planner's tool catalog.
	Description() string

	// ReturnDirect reports whether this tool's output becomes the final answer without another
	// planning round.
	ReturnDirect() bool

	// Call executes the tool. Implementations must honor ctx cancellation.
	Call(ctx context.Context, input any) (string, error)
}

// SchemaTool is implemented by tools that take structured arguments described by a JSON Schema.
// Tool catalogs render the schema so the planner knows the argument shape.
type SchemaTool interface {
	Tool
	Schema() map[string]any
}

// ToolFunc is a convenience Tool backed by a function with text input.
type ToolFunc struct {
	name         string
	description  string
	returnDirect bool
	fn           func(ctx context.Context, input string) (string, error)
}

// NewToolFunc creates a ToolFunc. Structured inputs are passed to fn as JSON text.
func NewToolFunc(
	name, description string,
	fn func(ctx context.Context, input string) (string, error),
) *ToolFunc {
	return &ToolFunc{
		name:        name,
		description: description,
		fn:          fn,
	}
}

// WithReturnDirect marks the tool as return-direct. Returns the tool for chaining.
func (t *ToolFunc) WithReturnDirect(returnDirect bool) *ToolFunc {
	t.returnDirect = returnDirect
	return t
}

// Name returns the tool's identifier.
func (t *ToolFunc) Name() string {
	return t.name
}

// Description returns a human-readable description for the planner.
func (t *ToolFunc) Description() string {
	return t.description
}

// ReturnDirect reports whether the tool short-circuits the loop.
func (t *ToolFunc) ReturnDirect() bool {
	return t.returnDirect
}

// Call executes the function with the input rendered as text.
func (t *ToolFunc) Call(ctx context.Context, input any) (string, error) {
	return t.fn(ctx, Action{ToolInput: input}.InputText())
}

// ToolKey normalizes a tool name for registry lookup.
func ToolKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Compile-time check that ToolFunc implements Tool.
var _ Tool = (*ToolFunc)(nil)
