package react

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rickchristie/agentexec"
)

// Parse failures reported inside an [agentexec.OutputParseError].
var (
	ErrNoActionOrAnswer = errors.New("react: response has neither an action nor an answer")
	ErrMultipleActions  = errors.New("react: response calls more than one tool")
)

// parse turns one model reply into a plan result.
//
// Tool calls take priority: a reply carrying both an action and an answer runs the tools and
// drops the answer, so the final answer is based on real observations.
func (p *Planner) parse(output string) *agentexec.PlanResult {
	sections, err := p.format.Parse(output)
	if err != nil {
		return parseFailure(output, err, fmt.Sprintf(
			"%s: no %s or %s section was found. Respond using the required format.",
			agentexec.InvalidResponseObservation, p.toolChain.Name(), SectionAnswer))
	}

	if contents := sections[p.toolChain.Name()]; len(contents) > 0 {
		var actions []agentexec.Action
		for _, content := range contents {
			parsed, err := p.toolChain.Parse(content)
			if err != nil {
				return parseFailure(output, err, fmt.Sprintf(
					"%s: could not read the tool call: %v", agentexec.InvalidResponseObservation, err))
			}
			actions = append(actions, parsed...)
		}
		if len(actions) > 1 && !p.multiAction {
			return parseFailure(output, ErrMultipleActions, fmt.Sprintf(
				"%s: call exactly one tool per response, got %d.",
				agentexec.InvalidResponseObservation, len(actions)))
		}
		for i := range actions {
			actions[i].Log = output
		}
		return agentexec.PlanAct(actions...)
	}

	if answers := sections[SectionAnswer]; len(answers) > 0 {
		return agentexec.PlanDone(&agentexec.Finish{
			ReturnValues: map[string]any{p.outputKey(): strings.Join(answers, "\n")},
			Log:          output,
		})
	}

	return parseFailure(output, ErrNoActionOrAnswer, fmt.Sprintf(
		"%s: include either an %s section to call a tool or an %s section to finish.",
		agentexec.InvalidResponseObservation, p.toolChain.Name(), SectionAnswer))
}

func parseFailure(output string, err error, observation string) *agentexec.PlanResult {
	return agentexec.PlanFailedParse(&agentexec.OutputParseError{
		Err:           err,
		Observation:   observation,
		PlannerOutput: output,
		SendToPlanner: true,
	})
}
