package tools

import (
	"context"

	"github.com/rickchristie/agentexec"
)

// New creates a tool whose input is passed to fn as text. Structured inputs arrive as JSON.
func New(
	name, description string,
	fn func(ctx context.Context, input string) (string, error),
) *agentexec.ToolFunc {
	return agentexec.NewToolFunc(name, description, fn)
}
