package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	type expected struct {
		maxIterations int
		maxTime       time.Duration
		method        agentexec.EarlyStoppingMethod
		steps         bool
		parsingPolicy string
		toolPolicy    string
		toolMessage   string
		concurrent    bool
		errIs         error
		anyErr        bool
	}

	tests := []struct {
		name     string
		input    string
		expected expected
	}{
		{
			name:  "empty file keeps defaults",
			input: "",
			expected: expected{
				maxIterations: executor.DefaultMaxIterations,
				method:        agentexec.EarlyStoppingForce,
				parsingPolicy: "propagate",
				toolPolicy:    "propagate",
			},
		},
		{
			name: "all fields",
			input: `
max_iterations: 4
max_execution_time: 90s
early_stopping_method: generate
return_intermediate_steps: true
handle_parsing_errors: true
handle_tool_errors: "The tool failed, try something else."
concurrent_actions: true
`,
			expected: expected{
				maxIterations: 4,
				maxTime:       90 * time.Second,
				method:        agentexec.EarlyStoppingGenerate,
				steps:         true,
				parsingPolicy: "handle",
				toolPolicy:    "message",
				toolMessage:   "The tool failed, try something else.",
				concurrent:    true,
			},
		},
		{
			name:  "negative max iterations is unbounded",
			input: "max_iterations: -1\nhandle_parsing_errors: false\n",
			expected: expected{
				maxIterations: -1,
				method:        agentexec.EarlyStoppingForce,
				parsingPolicy: "propagate",
				toolPolicy:    "propagate",
			},
		},
		{
			name:     "policy must be a scalar",
			input:    "handle_parsing_errors: [a, b]\n",
			expected: expected{errIs: ErrInvalidConfig},
		},
		{
			name:     "negative execution time",
			input:    "max_execution_time: -5s\n",
			expected: expected{errIs: ErrInvalidConfig},
		},
		{
			name:     "unknown provider",
			input:    "model:\n  provider: carrier-pigeon\n",
			expected: expected{errIs: ErrInvalidConfig},
		},
		{
			name:     "malformed yaml",
			input:    "max_iterations: [",
			expected: expected{anyErr: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tc.input)

			f, err := Load(path)
			if tc.expected.errIs != nil {
				assert.ErrorIs(t, err, tc.expected.errIs)
				return
			}
			if tc.expected.anyErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			config := f.ToExecutorConfig()
			assert.Equal(t, tc.expected.maxIterations, config.MaxIterations)
			assert.Equal(t, tc.expected.maxTime, config.MaxExecutionTime)
			assert.Equal(t, tc.expected.method, config.EarlyStoppingMethod)
			assert.Equal(t, tc.expected.steps, config.ReturnIntermediateSteps)
			assert.Equal(t, tc.expected.parsingPolicy, config.ParsingErrors.String())
			assert.Equal(t, tc.expected.toolPolicy, config.ToolErrors.String())
			assert.Equal(t, tc.expected.concurrent, config.ConcurrentActions)
			if tc.expected.toolMessage != "" {
				observation, ok := config.ToolErrors.ToolObservation(nil, "")
				require.True(t, ok)
				assert.Equal(t, tc.expected.toolMessage, observation)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPaths_LaterFileWins(t *testing.T) {
	user := writeFile(t, t.TempDir(), `
max_iterations: 20
scratchpad_window: 6
early_stopping_method: generate
model:
  provider: github
`)
	project := writeFile(t, t.TempDir(), "max_iterations: 5\n")
	missing := filepath.Join(t.TempDir(), FileName)

	f, err := LoadPaths(user, missing, project)
	require.NoError(t, err)
	assert.Equal(t, 5, f.MaxIterations)
	assert.Equal(t, 6, f.ScratchPadWindow)
	assert.Equal(t, "generate", f.EarlyStoppingMethod)
	assert.Equal(t, ProviderGitHub, f.Model.Provider)
}

func TestLoadLayered_ReadsWorkingDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	wd := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(wd, DirName), 0o755))
	writeFile(t, filepath.Join(wd, DirName), "max_iterations: 3\n")
	t.Chdir(wd)

	f, err := LoadLayered()
	require.NoError(t, err)
	assert.Equal(t, 3, f.MaxIterations)
}

func TestModel_APIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    Model
		env      map[string]string
		expected string
	}{
		{
			name:     "explicit variable",
			input:    Model{APIKeyEnv: "MY_KEY"},
			env:      map[string]string{"MY_KEY": "k1"},
			expected: "k1",
		},
		{
			name:     "openai default",
			input:    Model{Provider: ProviderOpenAI},
			env:      map[string]string{"OPENAI_API_KEY": "k2"},
			expected: "k2",
		},
		{
			name:     "github default",
			input:    Model{Provider: ProviderGitHub},
			env:      map[string]string{"GITHUB_TOKEN": "k3"},
			expected: "k3",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tc.expected, tc.input.APIKey())
		})
	}
}

func TestPolicy_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(File{
		HandleParsingErrors: Policy{Handle: true},
		HandleToolErrors:    Policy{Handle: true, Message: "retry"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "handle_parsing_errors: true\n")
	assert.Contains(t, string(out), "handle_tool_errors: retry\n")
}
