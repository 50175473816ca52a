// Package loggers provides ready-made hooks that log everything a run does.
//
// [YAMLHook] writes a readable transcript where every payload is rendered as YAML with nothing
// truncated. [SlogHook] emits one structured record per event through a *slog.Logger.
// [StatsHook] only counts: runs, rounds, tool calls, parse errors and model tokens.
//
//	registry := hooks.NewRegistry().
//	    Register(loggers.NewSlogHook(slog.Default())).
//	    Register(loggers.NewYAMLHookWithWriter(transcript))
//	exec.WithHooks(registry)
package loggers
