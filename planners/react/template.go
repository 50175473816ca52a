package react

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/format"
)

//go:embed system.tmpl
var systemTemplateContent string

//go:embed task.tmpl
var taskTemplateContent string

// ReActExplanation is the default description of the think-act-observe loop given to the model.
const ReActExplanation = `You are an AI assistant that solves problems using the ReAct (Reasoning and Acting) pattern.

## How ReAct Works

You will solve problems through a cycle of:
1. **Think**: Analyze the current situation, reason about what you know, and decide what to do next.
2. **Act**: Take an action by calling one of the available tools.
3. **Observe**: Review the results of your action.

Repeat this cycle until you have enough information to provide a final answer.

## Important Guidelines

- Always think before acting. Explain your reasoning clearly.
- Use tools to gather information. Don't make up facts.
- If a tool call fails, analyze the error and try a different approach.
- When you have sufficient information to answer, provide your final response.
- Be concise but thorough in your reasoning.`

// SystemPromptData contains the data passed to the system template.
type SystemPromptData struct {
	// Format renders named sections, {{.Format.Wrap "name" .Content}}.
	Format format.TextFormat

	// BehaviorAndContext contains behavior instructions and context provided by the user.
	BehaviorAndContext string

	// ReActExplanation describes the loop. Defaults to [ReActExplanation].
	ReActExplanation string

	// CriticalRules contains critical rules that the agent must follow.
	CriticalRules string

	// OutputPrompt explains how to lay out the response sections.
	OutputPrompt string

	// ToolsPrompt describes the available tools and how to call them.
	ToolsPrompt string

	// Time provides {{.Time.Today}}, {{.Time.Weekday}} and {{.Time.Format "layout"}}.
	Time agentexec.TimeProvider
}

// TaskPromptData contains the data passed to the task template.
type TaskPromptData struct {
	// Input is the primary input of the run.
	Input string

	// Inputs holds every run input, {{index .Inputs "key"}}.
	Inputs map[string]any

	// ScratchPad renders the previous steps and their observations.
	ScratchPad string

	Time agentexec.TimeProvider
}

// DefaultSystemTemplate is the default template for the system message.
var DefaultSystemTemplate = template.Must(
	template.New("react_system").Parse(systemTemplateContent),
)

// DefaultTaskTemplate is the default template for the human message.
var DefaultTaskTemplate = template.Must(
	template.New("react_task").Parse(taskTemplateContent),
)

// ExecuteTemplate executes a template with the given data and returns the trimmed result.
func ExecuteTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// expandString runs s as a template with access to the time provider. Strings without template
// syntax, or that fail to parse or execute, are returned unchanged.
func expandString(s string, tp agentexec.TimeProvider) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	tmpl, err := template.New("inline").Parse(s)
	if err != nil {
		return s
	}
	out, err := ExecuteTemplate(tmpl, struct{ Time agentexec.TimeProvider }{Time: tp})
	if err != nil {
		return s
	}
	return out
}
