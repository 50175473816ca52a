// Package react implements an LLM-backed ReAct (Reasoning and Acting) planner.
//
// # Overview
//
// Each call to Plan sends the model a system message explaining the think, act and observe cycle
// together with the tool catalog and the expected response layout, followed by a human message
// holding the task and a scratchpad of previous steps. The reply is parsed into sections:
//
//	<thinking>
//	I need the current time before I can answer.
//	</thinking>
//	<action>
//	tool: clock
//	args: "15:04"
//	</action>
//
// # Parsing Rules
//
// Actions take priority over answers. When a reply carries both, the tools run and the answer is
// dropped, so the next round answers from real observations.
//
// A reply with neither section, a tool call that does not parse, or several tool calls from a
// single-action planner becomes an [agentexec.OutputParseError] with SendToPlanner set. How the
// executor reacts depends on its parsing error policy.
//
// # Scratchpad
//
// Steps are rendered as a log section holding the reply that planned them and an observation
// section holding the tool results. Actions from the same round share a single log.
// Long runs can limit the prompt to the most recent rounds with [Planner.WithScratchPadWindow].
//
// # Templates
//
// The system and task messages are Go text/templates. The system template receives
// [SystemPromptData] and the task template [TaskPromptData]; both expose {{.Time.Today}},
// {{.Time.Weekday}} and {{.Time.Format "layout"}}.
package react
