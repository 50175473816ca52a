package tools

import (
	"context"

	"github.com/rickchristie/agentexec"
	lctools "github.com/tmc/langchaingo/tools"
)

// LangChainTool adapts a langchaingo tool.
type LangChainTool struct {
	tool         lctools.Tool
	returnDirect bool
}

// FromLangChain wraps t. Structured input is passed to t as JSON text.
func FromLangChain(t lctools.Tool) *LangChainTool {
	return &LangChainTool{tool: t}
}

// WithReturnDirect marks the tool as return-direct. Returns the tool for chaining.
func (t *LangChainTool) WithReturnDirect(returnDirect bool) *LangChainTool {
	t.returnDirect = returnDirect
	return t
}

func (t *LangChainTool) Name() string        { return t.tool.Name() }
func (t *LangChainTool) Description() string { return t.tool.Description() }
func (t *LangChainTool) ReturnDirect() bool  { return t.returnDirect }

// Call forwards the input text to the wrapped tool.
func (t *LangChainTool) Call(ctx context.Context, input any) (string, error) {
	return t.tool.Call(ctx, agentexec.Action{ToolInput: input}.InputText())
}

var _ agentexec.Tool = (*LangChainTool)(nil)
