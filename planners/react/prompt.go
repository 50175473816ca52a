package react

import (
	"fmt"
	"strings"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/format"
	"github.com/tmc/langchaingo/llms"
)

func (p *Planner) registerSections() {
	p.format.RegisterSection(format.Section{
		Name:   SectionThinking,
		Prompt: "Reason step by step about what to do next.",
	})
	p.format.RegisterSection(format.Section{
		Name:   p.toolChain.Name(),
		Prompt: p.actionPrompt(),
	})
	p.format.RegisterSection(format.Section{
		Name: SectionAnswer,
		Prompt: "Your final answer for the user. Only write this section once you no longer " +
			"need to call tools. It is ignored when the response also calls tools.",
	})
}

func (p *Planner) actionPrompt() string {
	if p.multiAction {
		return "Tool calls to run this round, following the syntax described in the available tools."
	}
	return "Exactly one tool call, following the syntax described in the available tools."
}

// buildMessages renders the system and human messages. A non-empty suffix is appended to the
// human message.
func (p *Planner) buildMessages(
	steps []agentexec.Step,
	inputs map[string]any,
	suffix string,
) ([]llms.MessageContent, error) {
	system, err := ExecuteTemplate(p.systemTemplate, SystemPromptData{
		Format:             p.format,
		BehaviorAndContext: expandString(p.behaviorAndContext, p.timeProvider),
		ReActExplanation:   p.explanation,
		CriticalRules:      expandString(p.criticalRules, p.timeProvider),
		OutputPrompt:       p.format.DescribeStructure(),
		ToolsPrompt:        p.toolChain.Prompt(),
		Time:               p.timeProvider,
	})
	if err != nil {
		return nil, fmt.Errorf("react: render system template: %w", err)
	}

	task, err := ExecuteTemplate(p.taskTemplate, TaskPromptData{
		Input:      p.primaryInput(inputs),
		Inputs:     inputs,
		ScratchPad: p.scratchPad(steps),
		Time:       p.timeProvider,
	})
	if err != nil {
		return nil, fmt.Errorf("react: render task template: %w", err)
	}
	if suffix != "" {
		task = task + "\n\n" + suffix
	}

	var messages []llms.MessageContent
	if system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, task))
	return messages, nil
}

func (p *Planner) primaryInput(inputs map[string]any) string {
	if len(p.inputKeys) == 0 {
		return ""
	}
	switch v := inputs[p.inputKeys[0]].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// scratchPad renders steps as log and observation sections, one log per planning round.
func (p *Planner) scratchPad(steps []agentexec.Step) string {
	rounds := groupRounds(steps)

	var parts []string
	if p.scratchWindow > 0 && len(rounds) > p.scratchWindow {
		dropped := len(rounds) - p.scratchWindow
		rounds = rounds[dropped:]
		parts = append(parts, fmt.Sprintf("(%d earlier rounds omitted)", dropped))
	}
	for _, r := range rounds {
		if strings.TrimSpace(r.log) != "" {
			parts = append(parts, p.format.Wrap("log", r.log))
		}
		parts = append(parts, p.format.Wrap("observation", strings.Join(r.observations, "\n\n")))
	}
	return strings.Join(parts, "\n\n")
}

type round struct {
	log          string
	observations []string
}

// groupRounds splits steps by the iteration that produced them. Steps without an iteration fall
// back to grouping consecutive identical logs.
func groupRounds(steps []agentexec.Step) []round {
	var rounds []round
	for i, step := range steps {
		if i == 0 || !sameRound(steps[i-1], step) {
			rounds = append(rounds, round{log: step.Action.Log})
		}
		last := &rounds[len(rounds)-1]
		last.observations = append(last.observations, step.Observation)
	}
	return rounds
}

func sameRound(prev, next agentexec.Step) bool {
	if prev.Iteration != 0 || next.Iteration != 0 {
		return prev.Iteration == next.Iteration
	}
	return prev.Action.Log == next.Action.Log
}
