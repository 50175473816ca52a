package toolchain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/schema"
)

var (
	ErrInvalidYAML     = errors.New("toolchain: invalid YAML tool call")
	ErrInvalidJSON     = errors.New("toolchain: invalid JSON tool call")
	ErrMissingToolName = errors.New("toolchain: tool call has no tool name")
	ErrNoToolCalls     = errors.New("toolchain: no tool calls found")
)

// ToolChain explains the available tools to a model and parses the model's tool calls back
// into actions. It never executes tools; the executor does.
type ToolChain interface {
	// Name returns the output section holding tool calls.
	Name() string

	// RegisterTool adds a tool to the catalog.
	RegisterTool(tool agentexec.Tool) ToolChain

	// Prompt returns the call syntax followed by the tool catalog.
	Prompt() string

	// Parse extracts the tool calls of one section. Each call becomes an [agentexec.Action]
	// whose ToolInput is a map for structured arguments or a string for text arguments.
	Parse(content string) ([]agentexec.Action, error)
}

// catalog holds the registered tools shared by every toolchain implementation.
type catalog struct {
	tools   []agentexec.Tool
	schemas map[string]*schema.Schema
}

func newCatalog() catalog {
	return catalog{schemas: make(map[string]*schema.Schema)}
}

func (c *catalog) add(tool agentexec.Tool) {
	if tool == nil {
		return
	}
	c.tools = append(c.tools, tool)
	st, ok := tool.(agentexec.SchemaTool)
	if !ok {
		return
	}
	if compiled, err := schema.Compile(st.Schema()); err == nil && compiled != nil {
		c.schemas[agentexec.ToolKey(tool.Name())] = compiled
	}
}

// propertyTypes returns the declared argument types of the named tool, if known.
func (c *catalog) propertyTypes(name string) map[string]string {
	return c.schemas[agentexec.ToolKey(name)].PropertyTypes()
}

// describe renders "Available tools:" with each tool's description and, for schema tools,
// its parameters rendered by render.
func (c *catalog) describe(render func(map[string]any) (string, error)) string {
	var sb strings.Builder
	sb.WriteString("Available tools:\n")
	for _, tool := range c.tools {
		fmt.Fprintf(&sb, "\n- %s: %s\n", tool.Name(), tool.Description())
		st, ok := tool.(agentexec.SchemaTool)
		if !ok || st.Schema() == nil {
			continue
		}
		params, err := render(st.Schema())
		if err != nil {
			continue
		}
		sb.WriteString(params)
	}
	return sb.String()
}

// newAction builds an action from a parsed call. Scalar arguments stay text.
func newAction(tool string, args any) agentexec.Action {
	switch v := args.(type) {
	case nil:
		return agentexec.Action{Tool: tool, ToolInput: ""}
	case map[string]any, string:
		return agentexec.Action{Tool: tool, ToolInput: v}
	default:
		return agentexec.Action{Tool: tool, ToolInput: fmt.Sprintf("%v", v)}
	}
}
