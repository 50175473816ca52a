package tools

import (
	"context"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/schema"
)

// SchemaTool is a tool taking structured arguments validated against a JSON Schema.
type SchemaTool struct {
	name         string
	description  string
	returnDirect bool
	schema       *schema.Schema
	fn           func(ctx context.Context, args map[string]any) (string, error)
}

// NewSchemaTool creates a SchemaTool.
//
// The tool accepts a map or a JSON object string. Input that is not an object or does not match
// s is rejected with a *agentexec.ToolInputError before fn runs. A nil s accepts any object.
func NewSchemaTool(
	name, description string,
	s *schema.Schema,
	fn func(ctx context.Context, args map[string]any) (string, error),
) *SchemaTool {
	return &SchemaTool{
		name:        name,
		description: description,
		schema:      s,
		fn:          fn,
	}
}

// WithReturnDirect marks the tool as return-direct. Returns the tool for chaining.
func (t *SchemaTool) WithReturnDirect(returnDirect bool) *SchemaTool {
	t.returnDirect = returnDirect
	return t
}

func (t *SchemaTool) Name() string        { return t.name }
func (t *SchemaTool) Description() string { return t.description }
func (t *SchemaTool) ReturnDirect() bool  { return t.returnDirect }

// Schema returns the raw parameter schema for tool catalogs.
func (t *SchemaTool) Schema() map[string]any {
	return t.schema.Raw()
}

// Call validates input and runs the tool function.
func (t *SchemaTool) Call(ctx context.Context, input any) (string, error) {
	args, err := t.schema.Decode(input)
	if err != nil {
		return "", agentexec.NewToolInputError(t.name, input, err)
	}
	return t.fn(ctx, args)
}

// Compile-time check that SchemaTool implements agentexec.SchemaTool.
var _ agentexec.SchemaTool = (*SchemaTool)(nil)
