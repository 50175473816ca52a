package agentexec

import "context"

// RunInfo identifies the run and round a call belongs to.
//
// The executor attaches it to the context passed to planners and tools, so collaborators such as
// model wrappers can label their own events without extra parameters.
type RunInfo struct {
	RunID     string
	Iteration int
}

type runInfoKey struct{}

// WithRunInfo returns a copy of ctx carrying info.
func WithRunInfo(ctx context.Context, info RunInfo) context.Context {
	return context.WithValue(ctx, runInfoKey{}, info)
}

// RunInfoFromContext returns the RunInfo attached to ctx, if any.
func RunInfoFromContext(ctx context.Context) (RunInfo, bool) {
	info, ok := ctx.Value(runInfoKey{}).(RunInfo)
	return info, ok
}
