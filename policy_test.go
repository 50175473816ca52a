package agentexec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsingErrorPolicy_OutputObservation(t *testing.T) {
	type expected struct {
		observation string
		ok          bool
	}

	parserHint := &OutputParseError{
		Err:           errors.New("bad"),
		Observation:   "Use the answer section.",
		SendToPlanner: true,
	}
	hiddenHint := &OutputParseError{
		Err:         errors.New("bad"),
		Observation: "internal details",
	}

	tests := []struct {
		name     string
		policy   ParsingErrorPolicy
		input    *OutputParseError
		expected expected
	}{
		{
			name:     "zero value propagates",
			policy:   ParsingErrorPolicy{},
			input:    parserHint,
			expected: expected{ok: false},
		},
		{
			name:     "handle prefers the parser observation",
			policy:   HandleParsingErrors(),
			input:    parserHint,
			expected: expected{observation: "Use the answer section.", ok: true},
		},
		{
			name:     "handle ignores observations not meant for the planner",
			policy:   HandleParsingErrors(),
			input:    hiddenHint,
			expected: expected{observation: InvalidResponseObservation, ok: true},
		},
		{
			name:     "handle with nil error",
			policy:   HandleParsingErrors(),
			input:    nil,
			expected: expected{observation: InvalidResponseObservation, ok: true},
		},
		{
			name:     "literal message",
			policy:   ParsingErrorMessage("Check your output and make sure it conforms!"),
			input:    parserHint,
			expected: expected{observation: "Check your output and make sure it conforms!", ok: true},
		},
		{
			name: "function receives the failure",
			policy: ParsingErrorFunc(func(err error) string {
				return "failed: " + err.Error()
			}),
			input: parserHint,
			expected: expected{
				observation: "failed: agentexec: planner output parsing failed: bad",
				ok:          true,
			},
		},
		{
			name:     "nil function propagates",
			policy:   ParsingErrorFunc(nil),
			input:    parserHint,
			expected: expected{ok: false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			observation, ok := tc.policy.OutputObservation(tc.input)
			assert.Equal(t, tc.expected.ok, ok)
			assert.Equal(t, tc.expected.observation, observation)
			assert.Equal(t, !tc.expected.ok, tc.policy.Propagates())
		})
	}
}

func TestParsingErrorPolicy_ToolObservation(t *testing.T) {
	toolErr := NewToolInputError("search", 42, errors.New("expected text"))

	tests := []struct {
		name     string
		policy   ParsingErrorPolicy
		expected string
		ok       bool
	}{
		{name: "propagate", policy: PropagateParsingErrors(), expected: "", ok: false},
		{name: "handle uses fallback", policy: HandleParsingErrors(), expected: "fallback", ok: true},
		{name: "literal", policy: ParsingErrorMessage("nope"), expected: "nope", ok: true},
		{
			name: "function",
			policy: ParsingErrorFunc(func(err error) string {
				if IsToolInputError(err) {
					return "input"
				}
				return "other"
			}),
			expected: "input",
			ok:       true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			observation, ok := tc.policy.ToolObservation(toolErr, "fallback")
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, observation)
		})
	}
}

func TestParsingErrorPolicy_String(t *testing.T) {
	assert.Equal(t, "propagate", ParsingErrorPolicy{}.String())
	assert.Equal(t, "handle", HandleParsingErrors().String())
	assert.Equal(t, "message", ParsingErrorMessage("x").String())
	assert.Equal(t, "func", ParsingErrorFunc(func(error) string { return "" }).String())
}
