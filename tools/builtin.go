package tools

import (
	"context"
	"strings"

	"github.com/rickchristie/agentexec"
)

// NewClock returns a tool reporting the current date and time from tp.
//
// The input may name a Go time layout; empty input uses "Monday, 2006-01-02 15:04 MST".
func NewClock(tp agentexec.TimeProvider) *agentexec.ToolFunc {
	if tp == nil {
		tp = agentexec.NewDefaultTimeProvider()
	}
	return agentexec.NewToolFunc(
		"clock",
		"Returns the current date and time. Input: optional Go time layout.",
		func(_ context.Context, input string) (string, error) {
			layout := strings.TrimSpace(input)
			if layout == "" {
				layout = "Monday, 2006-01-02 15:04 MST"
			}
			return tp.Format(layout), nil
		},
	)
}

// NewEcho returns a tool that repeats its input.
func NewEcho() *agentexec.ToolFunc {
	return agentexec.NewToolFunc(
		"echo",
		"Repeats the input text back unchanged.",
		func(_ context.Context, input string) (string, error) {
			return input, nil
		},
	)
}
