package tt

import (
	"context"
	"errors"
	"sync"

	"github.com/rickchristie/agentexec"
	"github.com/tmc/langchaingo/llms"
)

// -----------------------------------------------------------------------------
// ScriptedPlanner - implements agentexec.Planner with queued responses
// -----------------------------------------------------------------------------

// PlannerResponse is one scripted reply of a ScriptedPlanner.
type PlannerResponse struct {
	Result *agentexec.PlanResult
	Err    error
}

// Act returns a response requesting a single action.
func Act(tool string, input any) PlannerResponse {
	return PlannerResponse{Result: agentexec.PlanAct(agentexec.Action{
		Tool:      tool,
		ToolInput: input,
		Log:       "calling " + tool,
	})}
}

// ActMany returns a response requesting several actions in one round.
func ActMany(actions ...agentexec.Action) PlannerResponse {
	return PlannerResponse{Result: agentexec.PlanAct(actions...)}
}

// Done returns a response finishing with {"output": output}.
func Done(output string) PlannerResponse {
	return PlannerResponse{Result: agentexec.PlanDone(&agentexec.Finish{
		ReturnValues: map[string]any{"output": output},
		Log:          "final answer",
	})}
}

// ParseFail returns a response reporting an output parsing failure.
func ParseFail(raw string, observation string, sendToPlanner bool) PlannerResponse {
	return PlannerResponse{Result: agentexec.PlanFailedParse(&agentexec.OutputParseError{
		Err:           errors.New("could not parse planner output"),
		Observation:   observation,
		PlannerOutput: raw,
		SendToPlanner: sendToPlanner,
	})}
}

// Fail returns a response failing the Plan call with err.
func Fail(err error) PlannerResponse {
	return PlannerResponse{Err: err}
}

// ScriptedPlanner replays queued responses in order. Once the queue is exhausted the last
// response is repeated.
type ScriptedPlanner struct {
	mu           sync.Mutex
	responses    []PlannerResponse
	inputKeys    []string
	returnValues []string
	multiAction  bool
	callCount    int
	stopCalls    int

	// CapturedSteps stores the steps passed to each Plan call.
	CapturedSteps [][]agentexec.Step

	// CapturedMethods stores the methods passed to ReturnStoppedResponse.
	CapturedMethods []agentexec.EarlyStoppingMethod
}

// NewScriptedPlanner creates a planner with input key "input" and return value "output".
func NewScriptedPlanner(responses ...PlannerResponse) *ScriptedPlanner {
	return &ScriptedPlanner{
		responses:    responses,
		inputKeys:    []string{"input"},
		returnValues: []string{"output"},
	}
}

// WithInputKeys sets the declared input keys.
func (p *ScriptedPlanner) WithInputKeys(keys ...string) *ScriptedPlanner {
	p.inputKeys = keys
	return p
}

// WithReturnValues sets the declared output keys.
func (p *ScriptedPlanner) WithReturnValues(keys ...string) *ScriptedPlanner {
	p.returnValues = keys
	return p
}

// WithMultiAction marks the planner as multi-action.
func (p *ScriptedPlanner) WithMultiAction(multi bool) *ScriptedPlanner {
	p.multiAction = multi
	return p
}

// Plan returns the next scripted response.
func (p *ScriptedPlanner) Plan(
	ctx context.Context,
	steps []agentexec.Step,
	_ map[string]any,
) (*agentexec.PlanResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.callCount
	p.callCount++
	p.CapturedSteps = append(p.CapturedSteps, steps)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(p.responses) == 0 {
		return nil, errors.New("tt: no scripted planner responses")
	}
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	resp := p.responses[idx]
	return resp.Result, resp.Err
}

// ReturnStoppedResponse supports only the force method.
func (p *ScriptedPlanner) ReturnStoppedResponse(
	_ context.Context,
	method agentexec.EarlyStoppingMethod,
	_ []agentexec.Step,
	_ map[string]any,
) (*agentexec.Finish, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopCalls++
	p.CapturedMethods = append(p.CapturedMethods, method)
	return agentexec.ForceStoppedResponse(method, p.returnValues)
}

// InputKeys returns the declared input keys.
func (p *ScriptedPlanner) InputKeys() []string { return p.inputKeys }

// ReturnValues returns the declared output keys.
func (p *ScriptedPlanner) ReturnValues() []string { return p.returnValues }

// MultiAction reports whether the planner is multi-action.
func (p *ScriptedPlanner) MultiAction() bool { return p.multiAction }

// CallCount returns the number of Plan calls.
func (p *ScriptedPlanner) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// StopCalls returns the number of ReturnStoppedResponse calls.
func (p *ScriptedPlanner) StopCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopCalls
}

var _ agentexec.MultiActionPlanner = (*ScriptedPlanner)(nil)

// -----------------------------------------------------------------------------
// MockTool - implements agentexec.Tool and records calls
// -----------------------------------------------------------------------------

// MockTool is a configurable tool that records its inputs.
type MockTool struct {
	mu           sync.Mutex
	name         string
	description  string
	returnDirect bool
	fn           func(ctx context.Context, input any) (string, error)
	inputs       []any
}

// NewMockTool creates a tool that runs fn.
func NewMockTool(name string, fn func(ctx context.Context, input any) (string, error)) *MockTool {
	return &MockTool{name: name, description: "mock tool " + name, fn: fn}
}

// NewEchoTool creates a tool returning its input text unchanged.
func NewEchoTool(name string) *MockTool {
	return NewMockTool(name, func(_ context.Context, input any) (string, error) {
		return agentexec.Action{ToolInput: input}.InputText(), nil
	})
}

// NewFailingTool creates a tool that always fails with err.
func NewFailingTool(name string, err error) *MockTool {
	return NewMockTool(name, func(_ context.Context, _ any) (string, error) {
		return "", err
	})
}

// WithReturnDirect marks the tool as return-direct.
func (m *MockTool) WithReturnDirect(returnDirect bool) *MockTool {
	m.returnDirect = returnDirect
	return m
}

func (m *MockTool) Name() string        { return m.name }
func (m *MockTool) Description() string { return m.description }
func (m *MockTool) ReturnDirect() bool  { return m.returnDirect }

// Call records the input and runs the configured function.
func (m *MockTool) Call(ctx context.Context, input any) (string, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	return m.fn(ctx, input)
}

// Inputs returns the inputs of every call so far.
func (m *MockTool) Inputs() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]any, len(m.inputs))
	copy(out, m.inputs)
	return out
}

// CallCount returns the number of calls.
func (m *MockTool) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

var _ agentexec.Tool = (*MockTool)(nil)

// -----------------------------------------------------------------------------
// MockLLM - implements llms.Model with queued completions
// -----------------------------------------------------------------------------

// MockLLM is a langchaingo model returning queued completions.
type MockLLM struct {
	mu        sync.Mutex
	responses []string
	errors    []error
	callCount int

	// CapturedMessages stores the messages passed to each GenerateContent call.
	CapturedMessages [][]llms.MessageContent
}

// NewMockLLM creates a MockLLM that returns responses in order. Once exhausted, the last
// response is repeated.
func NewMockLLM(responses ...string) *MockLLM {
	return &MockLLM{responses: responses}
}

// WithErrors queues errors by call index; nil entries fall through to responses.
func (m *MockLLM) WithErrors(errs ...error) *MockLLM {
	m.errors = errs
	return m
}

// CallCount returns the number of GenerateContent calls.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// GenerateContent implements llms.Model.
func (m *MockLLM) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	_ ...llms.CallOption,
) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.callCount
	m.callCount++
	m.CapturedMessages = append(m.CapturedMessages, messages)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}

	content := ""
	if len(m.responses) > 0 {
		if idx >= len(m.responses) {
			idx = len(m.responses) - 1
		}
		content = m.responses[idx]
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content: content,
			GenerationInfo: map[string]any{
				"PromptTokens":     10,
				"CompletionTokens": 5,
			},
		}},
	}, nil
}

// Call implements llms.Model.
func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

var _ llms.Model = (*MockLLM)(nil)

// -----------------------------------------------------------------------------
// FuncPlanner - planner whose decision depends only on its arguments
// -----------------------------------------------------------------------------

// FuncPlanner delegates Plan to a function of the steps and inputs. Because it keeps no
// per-call state, replaying the same run produces the same decisions.
type FuncPlanner struct {
	fn        func(steps []agentexec.Step, inputs map[string]any) PlannerResponse
	callCount int
	mu        sync.Mutex
}

// NewFuncPlanner creates a FuncPlanner with input key "input" and return value "output".
func NewFuncPlanner(fn func(steps []agentexec.Step, inputs map[string]any) PlannerResponse) *FuncPlanner {
	return &FuncPlanner{fn: fn}
}

// Plan calls the configured function.
func (p *FuncPlanner) Plan(
	ctx context.Context,
	steps []agentexec.Step,
	inputs map[string]any,
) (*agentexec.PlanResult, error) {
	p.mu.Lock()
	p.callCount++
	p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp := p.fn(steps, inputs)
	return resp.Result, resp.Err
}

// ReturnStoppedResponse supports only the force method.
func (p *FuncPlanner) ReturnStoppedResponse(
	_ context.Context,
	method agentexec.EarlyStoppingMethod,
	_ []agentexec.Step,
	_ map[string]any,
) (*agentexec.Finish, error) {
	return agentexec.ForceStoppedResponse(method, p.ReturnValues())
}

func (p *FuncPlanner) InputKeys() []string    { return []string{"input"} }
func (p *FuncPlanner) ReturnValues() []string { return []string{"output"} }

// CallCount returns the number of Plan calls.
func (p *FuncPlanner) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

var _ agentexec.Planner = (*FuncPlanner)(nil)
