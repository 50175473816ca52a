// Package tools provides constructors for agentexec tools.
//
//   - [New]: text input function tool
//   - [NewSchemaTool]: structured input validated against a JSON Schema
//   - [NewTyped]: structured input decoded into a Go struct
//   - [FromLangChain]: adapts any langchaingo tool, e.g. tools.Calculator
//   - [NewClock] and [NewEcho]: small built-ins used by the CLI and examples
//
// Input shape failures are reported as *agentexec.ToolInputError so the executor's parsing
// error policy decides whether the planner gets another chance.
package tools
