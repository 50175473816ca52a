package toolchain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rickchristie/agentexec"
)

// JSON expects tool calls in JSON format.
//
// Single tool call:
//
//	{"tool": "search", "args": {"query": "weather"}}
//
// Multiple tool calls:
//
//	[
//	  {"tool": "search", "args": {"query": "weather"}},
//	  {"tool": "echo", "args": "hello"}
//	]
type JSON struct {
	catalog
	sectionName string
}

// NewJSON creates a new JSON toolchain with default section name "action".
func NewJSON() *JSON {
	return &JSON{catalog: newCatalog(), sectionName: "action"}
}

// WithSectionName sets the section name for this tool chain.
func (c *JSON) WithSectionName(name string) *JSON {
	c.sectionName = name
	return c
}

// Name returns the section identifier.
func (c *JSON) Name() string {
	return c.sectionName
}

// RegisterTool adds a tool to the chain.
func (c *JSON) RegisterTool(tool agentexec.Tool) ToolChain {
	c.add(tool)
	return c
}

// Prompt returns format instructions followed by the tool catalog.
func (c *JSON) Prompt() string {
	var sb strings.Builder
	sb.WriteString("Call tools using JSON format:\n")
	sb.WriteString(`{"tool": "tool_name", "args": {...}}`)
	sb.WriteString("\n\nTools without parameters take their input as a string:\n")
	sb.WriteString(`{"tool": "tool_name", "args": "input text"}`)
	sb.WriteString("\n\nFor multiple calls, use an array:\n")
	sb.WriteString(`[{"tool": "tool1", "args": {...}}, {"tool": "tool2", "args": {...}}]`)
	sb.WriteString("\n\n")
	sb.WriteString(c.describe(func(raw map[string]any) (string, error) {
		data, err := json.MarshalIndent(raw, "  ", "  ")
		if err != nil {
			return "", err
		}
		return "  Parameters: " + string(data) + "\n", nil
	}))
	return sb.String()
}

type jsonCall struct {
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args"`
}

// Parse parses the section content into actions.
func (c *JSON) Parse(content string) ([]agentexec.Action, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrNoToolCalls
	}

	var calls []jsonCall
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &calls); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	} else {
		var call jsonCall
		if err := json.Unmarshal([]byte(content), &call); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		calls = append(calls, call)
	}
	if len(calls) == 0 {
		return nil, ErrNoToolCalls
	}

	actions := make([]agentexec.Action, 0, len(calls))
	for _, call := range calls {
		name := strings.TrimSpace(call.Tool)
		if name == "" {
			return nil, ErrMissingToolName
		}
		var args any
		if len(call.Args) > 0 {
			if err := json.Unmarshal(call.Args, &args); err != nil {
				return nil, fmt.Errorf("%w: args: %v", ErrInvalidJSON, err)
			}
		}
		actions = append(actions, newAction(name, args))
	}
	return actions, nil
}

// Compile-time check that JSON implements ToolChain.
var _ ToolChain = (*JSON)(nil)
