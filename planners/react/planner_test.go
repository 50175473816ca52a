package react

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/executor"
	"github.com/rickchristie/agentexec/format"
	"github.com/rickchristie/agentexec/internal/tt"
	"github.com/rickchristie/agentexec/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func messageText(t *testing.T, msg llms.MessageContent) string {
	t.Helper()
	require.NotEmpty(t, msg.Parts)
	text, ok := msg.Parts[0].(llms.TextContent)
	require.True(t, ok)
	return text.Text
}

func newPlanner(llm *tt.MockLLM) *Planner {
	return New(llm).
		WithTimeProvider(agentexec.NewMockTimeProvider(
			time.Date(2025, 2, 15, 14, 30, 0, 0, time.UTC))).
		RegisterTool(tt.NewEchoTool("echo"), tt.NewEchoTool("lookup"))
}

func TestPlanner_Plan(t *testing.T) {
	type input struct {
		response    string
		multiAction bool
	}

	type expected struct {
		kind        agentexec.PlanKind
		actions     []agentexec.Action
		output      string
		err         error
		observation string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "single action",
			input: input{
				response: "<thinking>echo it</thinking>\n<action>\ntool: echo\nargs: hi\n</action>",
			},
			expected: expected{
				kind:    agentexec.PlanActions,
				actions: []agentexec.Action{{Tool: "echo", ToolInput: "hi"}},
			},
		},
		{
			name: "structured args",
			input: input{
				response: "<action>\ntool: lookup\nargs:\n  id: A-1\n  limit: 3\n</action>",
			},
			expected: expected{
				kind: agentexec.PlanActions,
				actions: []agentexec.Action{{
					Tool:      "lookup",
					ToolInput: map[string]any{"id": "A-1", "limit": 3},
				}},
			},
		},
		{
			name: "action takes priority over answer",
			input: input{
				response: "<action>\ntool: echo\nargs: hi\n</action>\n<answer>premature</answer>",
			},
			expected: expected{
				kind:    agentexec.PlanActions,
				actions: []agentexec.Action{{Tool: "echo", ToolInput: "hi"}},
			},
		},
		{
			name: "answer",
			input: input{
				response: "<thinking>I know this</thinking>\n<answer>\nParis\n</answer>",
			},
			expected: expected{kind: agentexec.PlanFinish, output: "Paris"},
		},
		{
			name: "section names are case insensitive",
			input: input{
				response: "<ANSWER>Paris</ANSWER>",
			},
			expected: expected{kind: agentexec.PlanFinish, output: "Paris"},
		},
		{
			name: "multiple actions with multi action",
			input: input{
				response:    "<action>\n- tool: echo\n  args: a\n- tool: lookup\n  args: b\n</action>",
				multiAction: true,
			},
			expected: expected{
				kind: agentexec.PlanActions,
				actions: []agentexec.Action{
					{Tool: "echo", ToolInput: "a"},
					{Tool: "lookup", ToolInput: "b"},
				},
			},
		},
		{
			name: "multiple actions without multi action",
			input: input{
				response: "<action>\n- tool: echo\n  args: a\n- tool: lookup\n  args: b\n</action>",
			},
			expected: expected{
				kind:        agentexec.PlanParseError,
				err:         ErrMultipleActions,
				observation: "Invalid or incomplete response: call exactly one tool per response, got 2.",
			},
		},
		{
			name:  "no sections",
			input: input{response: "I think the answer is Paris."},
			expected: expected{
				kind: agentexec.PlanParseError,
				err:  format.ErrNoSectionsFound,
				observation: "Invalid or incomplete response: no action or answer section was found. " +
					"Respond using the required format.",
			},
		},
		{
			name:  "thinking only",
			input: input{response: "<thinking>hmm</thinking>"},
			expected: expected{
				kind: agentexec.PlanParseError,
				err:  ErrNoActionOrAnswer,
				observation: "Invalid or incomplete response: include either an action section to " +
					"call a tool or an answer section to finish.",
			},
		},
		{
			name:     "invalid yaml",
			input:    input{response: "<action>\ntool: [echo\n</action>"},
			expected: expected{kind: agentexec.PlanParseError, err: toolchain.ErrInvalidYAML},
		},
		{
			name:     "missing tool name",
			input:    input{response: "<action>\nargs: hi\n</action>"},
			expected: expected{kind: agentexec.PlanParseError, err: toolchain.ErrMissingToolName},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			llm := tt.NewMockLLM(tc.input.response)
			planner := newPlanner(llm).WithMultiAction(tc.input.multiAction)

			result, err := planner.Plan(context.Background(), nil, map[string]any{"input": "task"})
			require.NoError(t, err)
			require.Equal(t, tc.expected.kind, result.Kind)

			switch tc.expected.kind {
			case agentexec.PlanActions:
				require.Len(t, result.Actions, len(tc.expected.actions))
				for i, want := range tc.expected.actions {
					assert.Equal(t, want.Tool, result.Actions[i].Tool)
					assert.Equal(t, want.ToolInput, result.Actions[i].ToolInput)
					assert.Equal(t, tc.input.response, result.Actions[i].Log)
				}
			case agentexec.PlanFinish:
				assert.Equal(t, map[string]any{"output": tc.expected.output}, result.Finish.ReturnValues)
				assert.Equal(t, tc.input.response, result.Finish.Log)
			case agentexec.PlanParseError:
				perr := result.ParseError
				require.NotNil(t, perr)
				assert.ErrorIs(t, perr, tc.expected.err)
				assert.ErrorIs(t, perr, agentexec.ErrOutputParsing)
				assert.True(t, perr.SendToPlanner)
				assert.Equal(t, tc.input.response, perr.PlannerOutput)
				if tc.expected.observation != "" {
					assert.Equal(t, tc.expected.observation, perr.Observation)
				} else {
					assert.True(t, strings.HasPrefix(perr.Observation, agentexec.InvalidResponseObservation))
				}
			}
		})
	}
}

func TestPlanner_Messages(t *testing.T) {
	llm := tt.NewMockLLM("<answer>done</answer>")
	planner := newPlanner(llm).
		WithBehaviorAndContext("You help with {{.Time.Weekday}} errands.").
		WithCriticalRules("Never guess.")

	steps := []agentexec.Step{{
		Action:      agentexec.Action{Tool: "echo", ToolInput: "hi", Log: "<action>tool: echo</action>"},
		Observation: "hi",
	}}
	_, err := planner.Plan(context.Background(), steps, map[string]any{"input": "say hi"})
	require.NoError(t, err)

	require.Len(t, llm.CapturedMessages, 1)
	messages := llm.CapturedMessages[0]
	require.Len(t, messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, messages[1].Role)

	system := messageText(t, messages[0])
	assert.True(t, strings.HasPrefix(system, "<behavior>\nYou help with Saturday errands.\n</behavior>"))
	assert.Contains(t, system, "<re_act>")
	assert.Contains(t, system, "<critical_rules>\nNever guess.\n</critical_rules>")
	assert.Contains(t, system, "- echo: mock tool echo")
	assert.Contains(t, system, "- lookup: mock tool lookup")
	assert.Contains(t, system, "<output_format>")
	assert.True(t, strings.HasSuffix(system, "Today is Saturday, 2025-02-15."))

	tt.AssertTextEqual(t,
		"say hi\n\n"+
			"Your previous steps and their observations:\n\n"+
			"<log>\n<action>tool: echo</action>\n</log>\n\n"+
			"<observation>\nhi\n</observation>",
		messageText(t, messages[1]))
}

func TestPlanner_ScratchPad(t *testing.T) {
	type input struct {
		steps  []agentexec.Step
		window int
	}
	type expected struct {
		text string
	}

	threeRounds := []agentexec.Step{
		{Action: agentexec.Action{Tool: "a", Log: "round one"}, Observation: "first"},
		{Action: agentexec.Action{Tool: "b", Log: "round one"}, Observation: "second"},
		{Action: agentexec.Action{Tool: "a", Log: "round two"}, Observation: "third"},
		{Action: agentexec.Action{Tool: "a", Log: "round three"}, Observation: "fourth"},
	}
	repeated := []agentexec.Step{
		{Action: agentexec.Action{Tool: "a", Log: "same reply"}, Observation: "obs one", Iteration: 1},
		{Action: agentexec.Action{Tool: "a", Log: "same reply"}, Observation: "obs two", Iteration: 2},
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "no steps",
			input:    input{},
			expected: expected{text: ""},
		},
		{
			name:  "actions of one round share a log",
			input: input{steps: threeRounds[:3]},
			expected: expected{text: "<log>\nround one\n</log>\n\n" +
				"<observation>\nfirst\n\nsecond\n</observation>\n\n" +
				"<log>\nround two\n</log>\n\n" +
				"<observation>\nthird\n</observation>"},
		},
		{
			name: "empty log renders only the observation",
			input: input{steps: []agentexec.Step{
				{Action: agentexec.Action{Tool: "a"}, Observation: "first"},
			}},
			expected: expected{text: "<observation>\nfirst\n</observation>"},
		},
		{
			name:  "window drops the oldest rounds",
			input: input{steps: threeRounds, window: 2},
			expected: expected{text: "(1 earlier rounds omitted)\n\n" +
				"<log>\nround two\n</log>\n\n" +
				"<observation>\nthird\n</observation>\n\n" +
				"<log>\nround three\n</log>\n\n" +
				"<observation>\nfourth\n</observation>"},
		},
		{
			name:  "identical replies in consecutive rounds stay separate",
			input: input{steps: repeated},
			expected: expected{text: "<log>\nsame reply\n</log>\n\n" +
				"<observation>\nobs one\n</observation>\n\n" +
				"<log>\nsame reply\n</log>\n\n" +
				"<observation>\nobs two\n</observation>"},
		},
		{
			name:  "window counts repeated rounds",
			input: input{steps: repeated, window: 1},
			expected: expected{text: "(1 earlier rounds omitted)\n\n" +
				"<log>\nsame reply\n</log>\n\n" +
				"<observation>\nobs two\n</observation>"},
		},
		{
			name:  "window larger than history keeps everything",
			input: input{steps: threeRounds[:1], window: 5},
			expected: expected{text: "<log>\nround one\n</log>\n\n" +
				"<observation>\nfirst\n</observation>"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			planner := newPlanner(tt.NewMockLLM()).WithScratchPadWindow(tc.input.window)
			tt.AssertTextEqual(t, tc.expected.text, planner.scratchPad(tc.input.steps))
		})
	}
}

func TestPlanner_CustomTemplates(t *testing.T) {
	llm := tt.NewMockLLM("<answer>ok</answer>")
	planner, err := newPlanner(llm).WithSystemTemplateString("Tools:\n{{.ToolsPrompt}}")
	require.NoError(t, err)
	planner, err = planner.WithTaskTemplateString("Order {{index .Inputs \"order\"}}: {{.Input}}")
	require.NoError(t, err)
	planner.WithInputKeys("question", "order")

	_, err = planner.Plan(context.Background(), nil, map[string]any{"question": "where?", "order": "A-1"})
	require.NoError(t, err)

	messages := llm.CapturedMessages[0]
	assert.True(t, strings.HasPrefix(messageText(t, messages[0]), "Tools:\nCall tools using YAML format"))
	assert.Equal(t, "Order A-1: where?", messageText(t, messages[1]))

	_, err = New(llm).WithSystemTemplateString("{{.Broken")
	assert.Error(t, err)
}

func TestPlanner_ModelErrorPropagates(t *testing.T) {
	boom := errors.New("rate limited")
	llm := tt.NewMockLLM("unused").WithErrors(boom)
	planner := newPlanner(llm)

	result, err := planner.Plan(context.Background(), nil, map[string]any{"input": "task"})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, boom)
}

func TestPlanner_ReturnStoppedResponse(t *testing.T) {
	type input struct {
		method   agentexec.EarlyStoppingMethod
		response string
	}

	type expected struct {
		output    string
		modelCall bool
		err       error
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "force",
			input:    input{method: agentexec.EarlyStoppingForce},
			expected: expected{output: agentexec.StoppedMessage},
		},
		{
			name:     "generate with answer section",
			input:    input{method: agentexec.EarlyStoppingGenerate, response: "<answer>42</answer>"},
			expected: expected{output: "42", modelCall: true},
		},
		{
			name:     "generate with plain reply",
			input:    input{method: agentexec.EarlyStoppingGenerate, response: " The answer is 42. "},
			expected: expected{output: "The answer is 42.", modelCall: true},
		},
		{
			name:     "unsupported",
			input:    input{method: "summarize"},
			expected: expected{err: agentexec.ErrUnsupportedEarlyStopping},
		},
	}

	steps := []agentexec.Step{{
		Action:      agentexec.Action{Tool: "echo", ToolInput: "x", Log: "calling echo"},
		Observation: "x",
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			llm := tt.NewMockLLM(tc.input.response)
			planner := newPlanner(llm)

			finish, err := planner.ReturnStoppedResponse(
				context.Background(), tc.input.method, steps, map[string]any{"input": "task"})
			if tc.expected.err != nil {
				assert.ErrorIs(t, err, tc.expected.err)
				assert.Equal(t, 0, llm.CallCount())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, map[string]any{"output": tc.expected.output}, finish.ReturnValues)

			if !tc.expected.modelCall {
				assert.Equal(t, 0, llm.CallCount())
				return
			}
			require.Equal(t, 1, llm.CallCount())
			human := messageText(t, llm.CapturedMessages[0][1])
			assert.Contains(t, human, "<observation>\nx\n</observation>")
			assert.True(t, strings.HasSuffix(human, GenerateSuffix))
		})
	}
}

func TestPlanner_WithExecutor(t *testing.T) {
	llm := tt.NewMockLLM(
		"<action>\ntool: nope\nargs: x\n</action>",
		"not following the format",
		"<action>\ntool: echo\nargs: hello\n</action>",
		"<answer>The echo said hello.</answer>",
	)
	echo := tt.NewEchoTool("echo")
	planner := newPlanner(llm)

	config := executor.DefaultConfig()
	config.ParsingErrors = agentexec.HandleParsingErrors()
	config.ReturnIntermediateSteps = true
	exec, err := executor.New(planner, []agentexec.Tool{echo}, config)
	require.NoError(t, err)

	output, err := exec.Run(context.Background(), map[string]any{"input": "echo hello"})
	require.NoError(t, err)
	assert.Equal(t, "The echo said hello.", output["output"])

	steps := output[executor.IntermediateStepsKey].([]agentexec.Step)
	require.Len(t, steps, 3)
	assert.Equal(t, "nope is not a valid tool, try another available tool: echo", steps[0].Observation)
	assert.Equal(t, agentexec.ExceptionToolName, steps[1].Action.Tool)
	assert.True(t, strings.HasPrefix(steps[1].Observation, agentexec.InvalidResponseObservation))
	assert.Equal(t, "hello", steps[2].Observation)
	assert.Equal(t, []any{"hello"}, echo.Inputs())

	// The last planning call saw every previous step in its scratchpad.
	human := messageText(t, llm.CapturedMessages[3][1])
	assert.Contains(t, human, "nope is not a valid tool")
	assert.Contains(t, human, "<log>\nnot following the format\n</log>")
}

func TestPlanner_RepeatedReplyKeepsRounds(t *testing.T) {
	llm := tt.NewMockLLM("garbage", "garbage", "<answer>done</answer>")
	planner := newPlanner(llm)

	config := executor.DefaultConfig()
	config.ParsingErrors = agentexec.HandleParsingErrors()
	exec, err := executor.New(planner, []agentexec.Tool{tt.NewEchoTool("echo")}, config)
	require.NoError(t, err)

	_, err = exec.Run(context.Background(), map[string]any{"input": "hi"})
	require.NoError(t, err)

	human := messageText(t, llm.CapturedMessages[2][1])
	assert.Equal(t, 2, strings.Count(human, "<log>\ngarbage\n</log>"))
	assert.Equal(t, 2, strings.Count(human, "<observation>"))
}
