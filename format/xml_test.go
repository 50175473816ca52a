package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXML_DescribeStructure(t *testing.T) {
	f := NewXML()
	f.RegisterSection(Section{Name: "thinking", Prompt: "Write your reasoning here."})
	f.RegisterSection(Section{Name: "action", Prompt: "Write your tool call here."})
	f.RegisterSection(Section{Name: "Thinking", Prompt: "duplicate"})

	expected := "Format your response using XML-style tags for each section:\n\n" +
		"<thinking>\nWrite your reasoning here.\n</thinking>\n\n" +
		"<action>\nWrite your tool call here.\n</action>\n\n"
	assert.Equal(t, expected, f.DescribeStructure())
}

func TestXML_DescribeStructure_Empty(t *testing.T) {
	assert.Equal(t, "", NewXML().DescribeStructure())
}

func TestXML_Parse(t *testing.T) {
	type input struct {
		sections []string
		output   string
	}

	type expected struct {
		result map[string][]string
		err    error
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "single section",
			input: input{
				sections: []string{"answer"},
				output:   "<answer>\nThe weather is sunny today.\n</answer>",
			},
			expected: expected{
				result: map[string][]string{"answer": {"The weather is sunny today."}},
			},
		},
		{
			name: "multiple sections",
			input: input{
				sections: []string{"thinking", "action", "answer"},
				output: "<thinking>\nNeed weather.\n</thinking>\n\n" +
					"<action>\ntool: search\n</action>\n\n<answer>\nSunny.\n</answer>",
			},
			expected: expected{
				result: map[string][]string{
					"thinking": {"Need weather."},
					"action":   {"tool: search"},
					"answer":   {"Sunny."},
				},
			},
		},
		{
			name: "repeated section keeps order",
			input: input{
				sections: []string{"action"},
				output:   "<action>\nfirst\n</action>\n<action>\nsecond\n</action>",
			},
			expected: expected{
				result: map[string][]string{"action": {"first", "second"}},
			},
		},
		{
			name: "case insensitive tags",
			input: input{
				sections: []string{"thinking"},
				output:   "<THINKING>\nloud\n</THINKING>",
			},
			expected: expected{
				result: map[string][]string{"thinking": {"loud"}},
			},
		},
		{
			name: "content outside tags ignored",
			input: input{
				sections: []string{"answer"},
				output:   "preamble\n<answer>\nactual\n</answer>\ntrailer",
			},
			expected: expected{
				result: map[string][]string{"answer": {"actual"}},
			},
		},
		{
			name: "unregistered tags ignored",
			input: input{
				sections: []string{"answer"},
				output:   "<notes>x</notes><answer>y</answer>",
			},
			expected: expected{
				result: map[string][]string{"answer": {"y"}},
			},
		},
		{
			name: "no registered sections accepts any matching pair",
			input: input{
				output: "<Plan>a</plan><broken>b</other>",
			},
			expected: expected{
				result: map[string][]string{"plan": {"a"}},
			},
		},
		{
			name: "no sections found",
			input: input{
				sections: []string{"answer"},
				output:   "I think the answer is 4.",
			},
			expected: expected{err: ErrNoSectionsFound},
		},
		{
			name: "unclosed tag",
			input: input{
				sections: []string{"action"},
				output:   "<action>\ntool: search",
			},
			expected: expected{err: ErrNoSectionsFound},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := NewXML()
			for _, name := range tc.input.sections {
				f.RegisterSection(Section{Name: name})
			}

			result, err := f.Parse(tc.input.output)
			if tc.expected.err != nil {
				assert.ErrorIs(t, err, tc.expected.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected.result, result)
		})
	}
}

func TestXML_Wrap(t *testing.T) {
	assert.Equal(t, "<observation>\nok\n</observation>", NewXML().Wrap("observation", "  ok\n"))
}
