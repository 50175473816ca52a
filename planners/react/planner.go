package react

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/format"
	"github.com/rickchristie/agentexec/toolchain"
	"github.com/tmc/langchaingo/llms"
)

// Section names used in the model's response.
const (
	SectionThinking = "thinking"
	SectionAnswer   = "answer"
)

// GenerateSuffix is appended to the task when the "generate" early stopping method asks the
// model for one last answer.
const GenerateSuffix = "I now need to return a final answer based on the previous steps:"

// ErrNoChoices is returned when the model response carries no choices.
var ErrNoChoices = errors.New("react: model returned no choices")

// Planner is an LLM-backed ReAct planner.
//
// Every round it sends a system message (loop explanation, tool catalog and output layout) and a
// human message (task plus scratchpad) to the model, then parses the thinking, action and answer
// sections of the reply.
type Planner struct {
	model        llms.Model
	format       format.TextFormat
	toolChain    toolchain.ToolChain
	timeProvider agentexec.TimeProvider
	callOptions  []llms.CallOption

	behaviorAndContext string
	criticalRules      string
	explanation        string
	systemTemplate     *template.Template
	taskTemplate       *template.Template

	inputKeys     []string
	returnValues  []string
	multiAction   bool
	scratchWindow int
}

// New creates a ReAct planner calling model.
//
// Defaults:
//   - Format: format.NewXML()
//   - ToolChain: toolchain.NewYAML()
//   - SystemTemplate: DefaultSystemTemplate
//   - TaskTemplate: DefaultTaskTemplate
//   - TimeProvider: agentexec.NewDefaultTimeProvider()
//   - InputKeys: ["input"], ReturnValues: ["output"]
func New(model llms.Model) *Planner {
	p := &Planner{
		model:          model,
		format:         format.NewXML(),
		toolChain:      toolchain.NewYAML(),
		timeProvider:   agentexec.NewDefaultTimeProvider(),
		explanation:    ReActExplanation,
		systemTemplate: DefaultSystemTemplate,
		taskTemplate:   DefaultTaskTemplate,
		inputKeys:      []string{"input"},
		returnValues:   []string{agentexec.DefaultOutputKey},
	}
	p.registerSections()
	return p
}

// WithBehaviorAndContext sets behavior instructions shown before the loop explanation.
// The text may use {{.Time.*}} template fields.
func (p *Planner) WithBehaviorAndContext(behavior string) *Planner {
	p.behaviorAndContext = behavior
	return p
}

// WithCriticalRules sets rules shown after the loop explanation.
func (p *Planner) WithCriticalRules(rules string) *Planner {
	p.criticalRules = rules
	return p
}

// WithExplanation replaces [ReActExplanation].
func (p *Planner) WithExplanation(explanation string) *Planner {
	p.explanation = explanation
	return p
}

// WithSystemTemplate sets the system message template. It receives [SystemPromptData].
func (p *Planner) WithSystemTemplate(tmpl *template.Template) *Planner {
	p.systemTemplate = tmpl
	return p
}

// WithSystemTemplateString parses s as the system message template.
func (p *Planner) WithSystemTemplateString(s string) (*Planner, error) {
	tmpl, err := template.New("react_system").Parse(s)
	if err != nil {
		return p, fmt.Errorf("react: parse system template: %w", err)
	}
	p.systemTemplate = tmpl
	return p, nil
}

// WithTaskTemplate sets the human message template. It receives [TaskPromptData].
func (p *Planner) WithTaskTemplate(tmpl *template.Template) *Planner {
	p.taskTemplate = tmpl
	return p
}

// WithTaskTemplateString parses s as the human message template.
func (p *Planner) WithTaskTemplateString(s string) (*Planner, error) {
	tmpl, err := template.New("react_task").Parse(s)
	if err != nil {
		return p, fmt.Errorf("react: parse task template: %w", err)
	}
	p.taskTemplate = tmpl
	return p, nil
}

// WithScratchPadWindow keeps only the last n planning rounds in the prompt. Older rounds are
// replaced by a one-line note. n <= 0 keeps every round (the default).
func (p *Planner) WithScratchPadWindow(n int) *Planner {
	p.scratchWindow = n
	return p
}

// WithFormat sets the response layout.
func (p *Planner) WithFormat(f format.TextFormat) *Planner {
	p.format = f
	p.registerSections()
	return p
}

// WithToolChain sets the tool-call syntax. Register tools after switching tool chains.
func (p *Planner) WithToolChain(tc toolchain.ToolChain) *Planner {
	p.toolChain = tc
	p.registerSections()
	return p
}

// WithTimeProvider sets the clock used by prompt templates.
func (p *Planner) WithTimeProvider(tp agentexec.TimeProvider) *Planner {
	p.timeProvider = tp
	return p
}

// WithCallOptions sets options passed to every model call.
func (p *Planner) WithCallOptions(opts ...llms.CallOption) *Planner {
	p.callOptions = opts
	return p
}

// WithMultiAction allows several tool calls per round.
func (p *Planner) WithMultiAction(multi bool) *Planner {
	p.multiAction = multi
	return p
}

// WithInputKeys sets the required input keys. The first key is the task text.
func (p *Planner) WithInputKeys(keys ...string) *Planner {
	p.inputKeys = keys
	return p
}

// WithReturnValues sets the output keys. The answer is stored under the first key.
func (p *Planner) WithReturnValues(keys ...string) *Planner {
	p.returnValues = keys
	return p
}

// RegisterTool adds tools to the catalog shown to the model. The executor still needs the same
// tools to run them.
func (p *Planner) RegisterTool(tools ...agentexec.Tool) *Planner {
	for _, tool := range tools {
		p.toolChain.RegisterTool(tool)
	}
	return p
}

func (p *Planner) InputKeys() []string    { return p.inputKeys }
func (p *Planner) ReturnValues() []string { return p.returnValues }
func (p *Planner) MultiAction() bool      { return p.multiAction }

// Plan calls the model once and parses its reply.
//
// Model failures are returned as errors. Replies that cannot be parsed are reported as a
// PlanParseError result whose observation tells the model what went wrong.
func (p *Planner) Plan(
	ctx context.Context,
	steps []agentexec.Step,
	inputs map[string]any,
) (*agentexec.PlanResult, error) {
	messages, err := p.buildMessages(steps, inputs, "")
	if err != nil {
		return nil, err
	}
	output, err := p.generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	return p.parse(output), nil
}

// ReturnStoppedResponse supports "force" and "generate".
func (p *Planner) ReturnStoppedResponse(
	ctx context.Context,
	method agentexec.EarlyStoppingMethod,
	steps []agentexec.Step,
	inputs map[string]any,
) (*agentexec.Finish, error) {
	switch method {
	case agentexec.EarlyStoppingForce:
		return agentexec.ForceStoppedResponse(method, p.returnValues)
	case agentexec.EarlyStoppingGenerate:
		messages, err := p.buildMessages(steps, inputs, GenerateSuffix)
		if err != nil {
			return nil, err
		}
		output, err := p.generate(ctx, messages)
		if err != nil {
			return nil, err
		}
		answer := strings.TrimSpace(output)
		if sections, err := p.format.Parse(output); err == nil {
			if parts := sections[SectionAnswer]; len(parts) > 0 {
				answer = strings.Join(parts, "\n")
			}
		}
		return &agentexec.Finish{
			ReturnValues: map[string]any{p.outputKey(): answer},
			Log:          output,
		}, nil
	default:
		return nil, &agentexec.UnsupportedEarlyStoppingError{Method: method}
	}
}

func (p *Planner) generate(ctx context.Context, messages []llms.MessageContent) (string, error) {
	resp, err := p.model.GenerateContent(ctx, messages, p.callOptions...)
	if err != nil {
		return "", fmt.Errorf("react: model call: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Content, nil
}

func (p *Planner) outputKey() string {
	if len(p.returnValues) > 0 && p.returnValues[0] != "" {
		return p.returnValues[0]
	}
	return agentexec.DefaultOutputKey
}

var _ agentexec.MultiActionPlanner = (*Planner)(nil)
