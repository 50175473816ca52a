// Package toolchain describes tools to a model and parses the model's tool calls into
// agentexec actions.
//
// # Overview
//
// A [ToolChain] is responsible for:
//  1. Explaining the call syntax and the available tools, including parameter schemas
//  2. Parsing one output section into []agentexec.Action
//
// Execution, unknown tool names and invalid arguments are the executor's business: the
// toolchain only checks syntax. A call naming an unregistered tool parses fine and the executor
// answers it with an "is not a valid tool" observation.
//
// # Argument Types
//
//   - Mapping/object arguments become map[string]any, for schema tools
//   - Scalar arguments become a string, for text tools
//   - [YAML] keeps the raw text of arguments whose schema type is "string", so values such as
//     007 or yes are not reinterpreted as numbers or booleans
//
// # Available Toolchains
//
//   - [YAML]: recommended, tolerant of unquoted strings
//   - [JSON]: strict, for models that prefer JSON
package toolchain
