// Package config reads YAML configuration files and maps them onto executor settings.
//
// A file looks like:
//
//	max_iterations: 10
//	max_execution_time: 2m
//	early_stopping_method: generate
//	return_intermediate_steps: true
//	handle_parsing_errors: true
//	handle_tool_errors: "The tool failed, try something else."
//	concurrent_actions: false
//	scratchpad_window: 8
//	model:
//	  provider: openai
//	  base_url: http://localhost:11434/v1
//	  model: llama3.1
//	  api_key_env: OLLAMA_API_KEY
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/executor"
	"gopkg.in/yaml.v3"
)

// DirName is the directory, under the home and working directories, holding config.yaml.
const DirName = ".agentexec"

// FileName is the name of the configuration file inside DirName.
const FileName = "config.yaml"

// Model providers understood by [Model].
const (
	ProviderOpenAI = "openai"
	ProviderGitHub = "github"
)

// ErrInvalidConfig is returned for configuration values that cannot be used.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// File is the YAML view of a configuration file.
type File struct {
	// MaxIterations of 0 keeps the default; a negative value removes the bound.
	MaxIterations int `yaml:"max_iterations"`

	// MaxExecutionTime is a Go duration string such as "90s".
	MaxExecutionTime time.Duration `yaml:"max_execution_time"`

	EarlyStoppingMethod     string `yaml:"early_stopping_method"`
	ReturnIntermediateSteps bool   `yaml:"return_intermediate_steps"`
	HandleParsingErrors     Policy `yaml:"handle_parsing_errors"`
	HandleToolErrors        Policy `yaml:"handle_tool_errors"`
	ConcurrentActions       bool   `yaml:"concurrent_actions"`

	// ScratchPadWindow limits how many planning rounds the planner shows the model.
	ScratchPadWindow int `yaml:"scratchpad_window"`

	Model Model `yaml:"model"`
}

// Model holds the settings the CLI needs to reach a model.
type Model struct {
	Provider  string `yaml:"provider"`
	BaseURL   string `yaml:"base_url"`
	Name      string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// APIKey reads the key from APIKeyEnv, or from the provider's usual variable when unset.
func (m Model) APIKey() string {
	env := m.APIKeyEnv
	if env == "" {
		switch m.Provider {
		case ProviderGitHub:
			env = "GITHUB_TOKEN"
		default:
			env = "OPENAI_API_KEY"
		}
	}
	return os.Getenv(env)
}

// Policy is a handle_*_errors value: a boolean, or a string used as the observation.
type Policy struct {
	Handle  bool
	Message string
}

// UnmarshalYAML accepts true, false or any string.
func (p *Policy) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected a boolean or a string", ErrInvalidConfig, node.Line)
	}
	if node.ShortTag() == "!!bool" {
		var handle bool
		if err := node.Decode(&handle); err != nil {
			return err
		}
		*p = Policy{Handle: handle}
		return nil
	}
	*p = Policy{Handle: true, Message: node.Value}
	return nil
}

// MarshalYAML writes the policy back in the form it was read.
func (p Policy) MarshalYAML() (any, error) {
	if p.Message != "" {
		return p.Message, nil
	}
	return p.Handle, nil
}

// ParsingErrorPolicy converts p into the executor's policy type.
func (p Policy) ParsingErrorPolicy() agentexec.ParsingErrorPolicy {
	switch {
	case p.Message != "":
		return agentexec.ParsingErrorMessage(p.Message)
	case p.Handle:
		return agentexec.HandleParsingErrors()
	default:
		return agentexec.PropagateParsingErrors()
	}
}

// Validate reports the first unusable value.
func (f *File) Validate() error {
	if f.MaxExecutionTime < 0 {
		return fmt.Errorf("%w: max_execution_time must not be negative", ErrInvalidConfig)
	}
	switch f.Model.Provider {
	case "", ProviderOpenAI, ProviderGitHub:
	default:
		return fmt.Errorf("%w: unknown model provider %q", ErrInvalidConfig, f.Model.Provider)
	}
	return nil
}

// ToExecutorConfig applies the file on top of executor.DefaultConfig.
func (f *File) ToExecutorConfig() executor.Config {
	config := executor.DefaultConfig()
	if f.MaxIterations != 0 {
		config.MaxIterations = f.MaxIterations
	}
	config.MaxExecutionTime = f.MaxExecutionTime
	if f.EarlyStoppingMethod != "" {
		config.EarlyStoppingMethod = agentexec.EarlyStoppingMethod(f.EarlyStoppingMethod)
	}
	config.ReturnIntermediateSteps = f.ReturnIntermediateSteps
	config.ParsingErrors = f.HandleParsingErrors.ParsingErrorPolicy()
	config.ToolErrors = f.HandleToolErrors.ParsingErrorPolicy()
	config.ConcurrentActions = f.ConcurrentActions
	return config
}

// Load reads a single file.
func Load(path string) (*File, error) {
	f := &File{}
	if err := loadFromFile(path, f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadLayered loads ~/.agentexec/config.yaml and then ./.agentexec/config.yaml, the latter
// taking precedence. Missing files are skipped.
func LoadLayered() (*File, error) {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DirName, FileName))
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: could not get working directory: %w", err)
	}
	paths = append(paths, filepath.Join(wd, DirName, FileName))
	return LoadPaths(paths...)
}

// LoadPaths loads each existing file in order into the same File. Fields present in a later
// file overwrite earlier values; absent fields are kept.
func LoadPaths(paths ...string) (*File, error) {
	f := &File{}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := loadFromFile(path, f); err != nil {
			return nil, err
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func loadFromFile(path string, f *File) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}
