// Command agentexec runs a ReAct agent from the terminal, one round at a time.
//
// After every round the tool calls and observations are printed and the user decides whether the
// agent may continue. Configuration is read from ~/.agentexec/config.yaml and
// ./.agentexec/config.yaml unless -config names a file.
//
// Usage:
//
//	agentexec [-config path] [-transcript path] [-auto] [-v]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/chzyer/readline"
	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/config"
	"github.com/rickchristie/agentexec/executor"
	"github.com/rickchristie/agentexec/hooks"
	"github.com/rickchristie/agentexec/loggers"
	"github.com/rickchristie/agentexec/models"
	"github.com/rickchristie/agentexec/planners/react"
	"github.com/rickchristie/agentexec/tools"
	lctools "github.com/tmc/langchaingo/tools"
)

const behavior = `You are a careful assistant running in a terminal.
Use the calculator for any arithmetic and the clock for anything involving the current date or time.
Today is {{.Time.Weekday}}, {{.Time.Today}}.`

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "configuration file (default: layered ~/.agentexec and ./.agentexec)")
	transcriptPath := flag.String("transcript", "", "write a YAML transcript of every event to this file")
	auto := flag.Bool("auto", false, "run every round without asking")
	verbose := flag.Bool("v", false, "log events to stderr")
	flag.Parse()

	file, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	stats := loggers.NewStatsHook()
	registry := hooks.NewRegistry().
		Register(loggers.NewSlogHook(logger)).
		Register(stats)
	if *transcriptPath != "" {
		transcript, err := os.Create(*transcriptPath)
		if err != nil {
			return fmt.Errorf("failed to create transcript: %w", err)
		}
		defer transcript.Close()
		registry.Register(loggers.NewYAMLHookWithWriter(transcript))
	}

	exec, err := newExecutor(file, registry)
	if err != nil {
		return err
	}

	rl, err := readline.New(promptStyle.Render("task> "))
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s := &session{
		exec:   exec,
		stats:  stats,
		in:     rl,
		out:    rl.Stdout(),
		auto:   *auto,
		styled: isTerminal(os.Stdout),
	}
	return s.loop()
}

func loadConfig(path string) (*config.File, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadLayered()
}

// newExecutor wires the model, the planner and the tools. The same registry observes the
// executor and the model calls.
func newExecutor(file *config.File, registry *hooks.Registry) (*executor.Executor, error) {
	var (
		model *models.LCGWrapper
		err   error
	)
	switch file.Model.Provider {
	case config.ProviderGitHub:
		model, err = models.NewGitHubModel(file.Model.Name, file.Model.APIKey())
	default:
		model, err = models.NewOpenAIModel(file.Model.BaseURL, file.Model.Name, file.Model.APIKey())
	}
	if err != nil {
		return nil, err
	}
	model.WithHooks(registry)

	toolset := []agentexec.Tool{
		tools.FromLangChain(lctools.Calculator{}),
		tools.NewClock(nil),
		tools.NewEcho(),
	}

	planner := react.New(model).
		WithBehaviorAndContext(behavior).
		WithScratchPadWindow(file.ScratchPadWindow).
		WithMultiAction(file.ConcurrentActions).
		RegisterTool(toolset...)

	exec, err := executor.New(planner, toolset, file.ToExecutorConfig())
	if err != nil {
		return nil, err
	}
	return exec.WithHooks(registry), nil
}
