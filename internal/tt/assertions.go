package tt

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rickchristie/agentexec"
)

// AssertTextEqual fails the test with a unified diff when expected and actual differ.
// Use it for multi-line prompts and transcripts where testify's output is hard to read.
func AssertTextEqual(t testing.TB, expected, actual string, msgAndArgs ...any) bool {
	t.Helper()
	if expected == actual {
		return true
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		diff = fmt.Sprintf("(diff failed: %v)", err)
	}
	msg := ""
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			msg = fmt.Sprintf(format, msgAndArgs[1:]...) + "\n"
		}
	}
	t.Errorf("%stext mismatch:\n%s", msg, diff)
	return false
}

// FormatSteps renders steps one per line as "tool(input) => observation".
func FormatSteps(steps []agentexec.Step) string {
	var sb strings.Builder
	for _, step := range steps {
		fmt.Fprintf(&sb, "%s(%s) => %s\n",
			step.Action.Tool, step.Action.InputText(), step.Observation)
	}
	return sb.String()
}

// FormatOutput renders an output mapping with sorted keys. Step slices are rendered with
// FormatSteps so that two runs can be compared byte for byte.
func FormatOutput(output map[string]any) string {
	keys := make([]string, 0, len(output))
	for k := range output {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		switch v := output[k].(type) {
		case []agentexec.Step:
			fmt.Fprintf(&sb, "%s:\n%s", k, FormatSteps(v))
		default:
			fmt.Fprintf(&sb, "%s: %v\n", k, v)
		}
	}
	return sb.String()
}
