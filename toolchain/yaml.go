package toolchain

import (
	"fmt"
	"strings"

	"github.com/rickchristie/agentexec"
	"gopkg.in/yaml.v3"
)

// YAML expects tool calls in YAML format.
//
// Single tool call:
//
//	tool: search
//	args:
//	  query: weather in tokyo
//
// Text argument:
//
//	tool: echo
//	args: hello there
//
// Multiple tool calls:
//
//	- tool: search
//	  args:
//	    query: weather
//	- tool: calendar
//	  args:
//	    date: today
type YAML struct {
	catalog
	sectionName string
}

// NewYAML creates a new YAML toolchain with default section name "action".
func NewYAML() *YAML {
	return &YAML{catalog: newCatalog(), sectionName: "action"}
}

// WithSectionName sets the section name for this tool chain.
func (c *YAML) WithSectionName(name string) *YAML {
	c.sectionName = name
	return c
}

// Name returns the section identifier.
func (c *YAML) Name() string {
	return c.sectionName
}

// RegisterTool adds a tool to the chain.
func (c *YAML) RegisterTool(tool agentexec.Tool) ToolChain {
	c.add(tool)
	return c
}

// Prompt returns instructions for how to write tool calls in this section.
func (c *YAML) Prompt() string {
	var sb strings.Builder
	sb.WriteString("Call tools using YAML format:\n")
	sb.WriteString("tool: tool_name\n")
	sb.WriteString("args:\n")
	sb.WriteString("  param: value\n")
	sb.WriteString("\nTools without parameters take their input as text:\n")
	sb.WriteString("tool: tool_name\n")
	sb.WriteString("args: input text\n")
	sb.WriteString("\nFor multiple calls, use a list:\n")
	sb.WriteString("- tool: tool1\n")
	sb.WriteString("  args:\n")
	sb.WriteString("    param: value\n")
	sb.WriteString("- tool: tool2\n")
	sb.WriteString("  args: input text\n")
	sb.WriteString("\nFor strings with special characters (colons, quotes) or multiple lines, ")
	sb.WriteString("use double quotes:\n")
	sb.WriteString("tool: send_email\n")
	sb.WriteString("args:\n")
	sb.WriteString("  subject: \"Re: your order\"\n")
	sb.WriteString("\n")
	sb.WriteString(c.describe(func(raw map[string]any) (string, error) {
		data, err := yaml.Marshal(raw)
		if err != nil {
			return "", err
		}
		var out strings.Builder
		out.WriteString("  Parameters:\n")
		for _, line := range strings.Split(string(data), "\n") {
			if line != "" {
				out.WriteString("    ")
				out.WriteString(line)
				out.WriteString("\n")
			}
		}
		return out.String(), nil
	}))
	return sb.String()
}

// Parse parses the section content into actions.
// Arguments declared as strings in a tool's schema keep their raw text, so "007" or "yes" are
// not turned into numbers or booleans.
func (c *YAML) Parse(content string) ([]agentexec.Action, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrNoToolCalls
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(content), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: unexpected YAML structure", ErrInvalidYAML)
	}
	node := root.Content[0]

	var actions []agentexec.Action
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			action, err := c.parseCall(item)
			if err != nil {
				return nil, err
			}
			actions = append(actions, action)
		}
	case yaml.MappingNode:
		action, err := c.parseCall(node)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	default:
		return nil, fmt.Errorf("%w: expected mapping or sequence", ErrInvalidYAML)
	}

	if len(actions) == 0 {
		return nil, ErrNoToolCalls
	}
	return actions, nil
}

func (c *YAML) parseCall(node *yaml.Node) (agentexec.Action, error) {
	if node.Kind != yaml.MappingNode {
		return agentexec.Action{}, fmt.Errorf("%w: tool call must be a mapping", ErrInvalidYAML)
	}

	var name string
	var argsNode *yaml.Node
	for i := 0; i+1 < len(node.Content); i += 2 {
		switch node.Content[i].Value {
		case "tool":
			name = strings.TrimSpace(node.Content[i+1].Value)
		case "args":
			argsNode = node.Content[i+1]
		}
	}
	if name == "" {
		return agentexec.Action{}, ErrMissingToolName
	}
	if argsNode == nil {
		return newAction(name, nil), nil
	}

	switch argsNode.Kind {
	case yaml.MappingNode:
		return newAction(name, c.decodeArgs(argsNode, c.propertyTypes(name))), nil
	case yaml.ScalarNode:
		return newAction(name, argsNode.Value), nil
	default:
		var value any
		if err := argsNode.Decode(&value); err != nil {
			return agentexec.Action{}, fmt.Errorf("%w: args: %v", ErrInvalidYAML, err)
		}
		return newAction(name, value), nil
	}
}

// decodeArgs decodes a mapping node, keeping raw scalars for string-typed properties.
func (c *YAML) decodeArgs(node *yaml.Node, propTypes map[string]string) map[string]any {
	result := make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]
		if propTypes[key] == "string" && value.Kind == yaml.ScalarNode {
			result[key] = value.Value
			continue
		}
		var decoded any
		if err := value.Decode(&decoded); err != nil {
			result[key] = value.Value
			continue
		}
		result[key] = decoded
	}
	return result
}

// Compile-time check that YAML implements ToolChain.
var _ ToolChain = (*YAML)(nil)
