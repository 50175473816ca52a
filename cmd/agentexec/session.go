package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/executor"
	"github.com/rickchristie/agentexec/loggers"
	"golang.org/x/term"
)

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	toolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	answerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	continueText = "continue? [Y/n/q] "
)

// lineReader is the part of *readline.Instance the session uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// session reads tasks and drives one executor run per task.
type session struct {
	exec   *executor.Executor
	stats  *loggers.StatsHook
	in     lineReader
	out    io.Writer
	auto   bool
	styled bool
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (s *session) render(style lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}
	return style.Render(text)
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// loop reads tasks until q, EOF or Ctrl-C.
func (s *session) loop() error {
	s.printf("%s\n\n", s.render(noticeStyle,
		"Type a task for the agent, or 'q' to quit. Tools: "+strings.Join(s.exec.ToolNames(), ", ")))
	for {
		s.in.SetPrompt(s.render(promptStyle, "task> "))
		line, err := s.in.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				s.printf("%s\n", s.render(answerStyle, "Goodbye!"))
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		task := strings.TrimSpace(line)
		switch strings.ToLower(task) {
		case "":
			continue
		case "q", "quit", "exit":
			s.printf("%s\n", s.render(answerStyle, "Goodbye!"))
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()

		quit, err := s.runTask(ctx, task)
		signal.Stop(sigCh)
		cancel()
		switch {
		case errors.Is(err, context.Canceled):
			s.printf("\n%s\n", s.render(noticeStyle, "Run cancelled."))
		case err != nil:
			s.printf("%s\n", s.render(errorStyle, fmt.Sprintf("Error: %v", err)))
		}
		s.printUsage()
		s.printf("\n%s\n\n", s.render(dimStyle, strings.Repeat("-", 60)))
		if quit {
			s.printf("%s\n", s.render(answerStyle, "Goodbye!"))
			return nil
		}
	}
}

// runTask advances a run round by round, asking before each further round unless auto is set.
// quit is true when the user asked to leave the program.
func (s *session) runTask(ctx context.Context, task string) (quit bool, err error) {
	it, err := s.exec.Iter(map[string]any{"input": task})
	if err != nil {
		return false, err
	}

	for {
		res, err := it.Next(ctx)
		if err != nil {
			return false, err
		}

		s.printSteps(it.Iterations(), res.Steps)
		if res.Kind != executor.IterSteps {
			s.printOutput(res.Output)
			return false, nil
		}

		if s.auto {
			continue
		}
		switch s.confirm() {
		case answerYes:
		case answerNo:
			s.printf("%s\n", s.render(noticeStyle, "Run stopped by user."))
			return false, nil
		case answerQuit:
			return true, nil
		}
	}
}

func (s *session) printSteps(iteration int, steps []agentexec.Step) {
	for _, step := range steps {
		s.printf("%s %s %s\n",
			s.render(dimStyle, fmt.Sprintf("[%d]", iteration)),
			s.render(toolStyle, step.Action.Tool),
			step.Action.InputText())
		for _, line := range strings.Split(step.Observation, "\n") {
			s.printf("    %s\n", line)
		}
	}
}

func (s *session) printOutput(output map[string]any) {
	value, ok := output[agentexec.DefaultOutputKey]
	if !ok {
		for _, v := range output {
			value = v
			break
		}
	}
	s.printf("\n%s\n%v\n", s.render(answerStyle, "Answer:"), value)
}

func (s *session) printUsage() {
	if s.stats == nil {
		return
	}
	s.printf("%s\n", s.render(dimStyle, fmt.Sprintf(
		"model calls: %d, tokens in/out: %d/%d, tool calls: %d",
		s.stats.Counter(loggers.KeyModelCalls),
		s.stats.Counter(loggers.KeyInputTokens),
		s.stats.Counter(loggers.KeyOutputTokens),
		s.stats.Counter(loggers.KeyToolCalls))))
	s.stats.Reset()
}

type answer int

const (
	answerYes answer = iota
	answerNo
	answerQuit
)

// confirm asks whether the run may take another round. Enter means yes.
func (s *session) confirm() answer {
	for {
		s.in.SetPrompt(s.render(promptStyle, continueText))
		line, err := s.in.Readline()
		if err != nil {
			return answerNo
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "y", "yes":
			return answerYes
		case "n", "no":
			return answerNo
		case "q", "quit":
			return answerQuit
		}
		s.printf("%s\n", s.render(noticeStyle, "Please answer y, n or q."))
	}
}
