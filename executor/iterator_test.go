package executor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countdownPlanner calls "echo" with the number of remaining rounds and finishes after n steps.
func countdownPlanner(n int) *tt.FuncPlanner {
	return tt.NewFuncPlanner(func(steps []agentexec.Step, _ map[string]any) tt.PlannerResponse {
		if len(steps) >= n {
			return tt.Done(fmt.Sprintf("finished after %d", len(steps)))
		}
		return tt.Act("echo", fmt.Sprintf("%d", n-len(steps)))
	})
}

func TestIterator_StepByStep(t *testing.T) {
	planner := countdownPlanner(2)
	config := DefaultConfig()
	config.ReturnIntermediateSteps = true
	exec := newExec(t, planner, config, tt.NewEchoTool("echo"))

	it, err := exec.Iter(inputs("count"))
	require.NoError(t, err)
	assert.Empty(t, it.RunID())

	res, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, IterSteps, res.Kind)
	tt.AssertTextEqual(t, "echo(2) => 2\n", tt.FormatSteps(res.Steps))
	assert.NotEmpty(t, it.RunID())
	assert.Equal(t, 1, it.Iterations())

	res, err = it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, IterSteps, res.Kind)
	tt.AssertTextEqual(t, "echo(1) => 1\n", tt.FormatSteps(res.Steps))

	res, err = it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, IterFinished, res.Kind)
	assert.Empty(t, res.Steps)
	tt.AssertTextEqual(t,
		"intermediate_steps:\necho(2) => 2\necho(1) => 1\noutput: finished after 2\n",
		tt.FormatOutput(res.Output))

	output, done := it.FinalOutput()
	assert.True(t, done)
	assert.Equal(t, res.Output, output)
	assert.Equal(t, 3, planner.CallCount())
}

func TestIterator_AdvanceAfterFinish(t *testing.T) {
	planner := countdownPlanner(1)
	exec := newExec(t, planner, DefaultConfig(), tt.NewEchoTool("echo"))

	it, err := exec.Iter(inputs("count"))
	require.NoError(t, err)

	var final *IterResult
	for {
		res, err := it.Next(context.Background())
		require.NoError(t, err)
		if res.Kind == IterFinished {
			final = res
			break
		}
	}
	calls := planner.CallCount()

	for i := 0; i < 3; i++ {
		res, err := it.Next(context.Background())
		assert.ErrorIs(t, err, agentexec.ErrFinalOutputReached)
		require.NotNil(t, res)
		assert.Equal(t, IterAlreadyFinished, res.Kind)
		assert.Equal(t, final.Output, res.Output)
	}
	assert.Equal(t, calls, planner.CallCount())
}

func TestIterator_ResetReplaysRun(t *testing.T) {
	planner := countdownPlanner(3)
	config := DefaultConfig()
	config.ReturnIntermediateSteps = true
	exec := newExec(t, planner, config, tt.NewEchoTool("echo"))

	it, err := exec.Iter(inputs("count"))
	require.NoError(t, err)

	drain := func() (string, string) {
		for {
			res, err := it.Next(context.Background())
			require.NoError(t, err)
			if res.Kind == IterFinished {
				return tt.FormatOutput(res.Output), it.RunID()
			}
		}
	}

	first, firstID := drain()

	it.Reset()
	assert.Empty(t, it.Steps())
	assert.Equal(t, 0, it.Iterations())
	_, done := it.FinalOutput()
	assert.False(t, done)

	second, secondID := drain()

	tt.AssertTextEqual(t, first, second)
	assert.NotEqual(t, firstID, secondID)
}

func TestIterator_ReturnDirectFinishesWithSteps(t *testing.T) {
	planner := tt.NewScriptedPlanner(tt.Act("final", "answer 42"))
	exec := newExec(t, planner, DefaultConfig(), tt.NewEchoTool("final").WithReturnDirect(true))

	it, err := exec.Iter(inputs("q"))
	require.NoError(t, err)

	res, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, IterFinished, res.Kind)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "answer 42", res.Steps[0].Observation)
	assert.Equal(t, map[string]any{"output": "answer 42"}, res.Output)
	assert.Equal(t, 1, it.Iterations())
}

func TestIterator_StopsAtBudget(t *testing.T) {
	planner := tt.NewScriptedPlanner(tt.Act("echo", "x"))
	config := DefaultConfig()
	config.MaxIterations = 2
	exec := newExec(t, planner, config, tt.NewEchoTool("echo"))

	it, err := exec.Iter(inputs("q"))
	require.NoError(t, err)

	type expected struct {
		kind IterKind
	}

	rounds := []expected{
		{kind: IterSteps},
		{kind: IterSteps},
		{kind: IterFinished},
	}
	for i, want := range rounds {
		res, err := it.Next(context.Background())
		require.NoError(t, err, "round %d", i+1)
		assert.Equal(t, want.kind, res.Kind, "round %d", i+1)
	}
	assert.Equal(t, 2, planner.CallCount())
	assert.Equal(t, 1, planner.StopCalls())
}

func TestIterator_FailureLeavesRunUnfinished(t *testing.T) {
	boom := errors.New("boom")
	planner := tt.NewScriptedPlanner(tt.Fail(boom), tt.Done("recovered"))
	exec := newExec(t, planner, DefaultConfig())

	it, err := exec.Iter(inputs("q"))
	require.NoError(t, err)

	_, err = it.Next(context.Background())
	assert.ErrorIs(t, err, boom)
	_, done := it.FinalOutput()
	assert.False(t, done)

	res, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, IterFinished, res.Kind)
	assert.Equal(t, "recovered", res.Output["output"])
}

func TestIterator_MissingInputs(t *testing.T) {
	exec := newExec(t, tt.NewScriptedPlanner(tt.Done("x")), DefaultConfig())
	_, err := exec.Iter(map[string]any{})
	assert.ErrorIs(t, err, agentexec.ErrMissingInputKey)
}

func TestIterKind_String(t *testing.T) {
	assert.Equal(t, "steps", IterSteps.String())
	assert.Equal(t, "finished", IterFinished.String())
	assert.Equal(t, "already_finished", IterAlreadyFinished.String())
	assert.Equal(t, "IterKind(9)", IterKind(9).String())
}
