// Package schema builds JSON Schemas for structured tool input and validates inputs against them.
//
// # Quick Start
//
//	orderSchema := schema.MustCompile(schema.Object(map[string]*schema.Property{
//	    "order_id": schema.String("Order identifier").Pattern(`^[A-Z]-[0-9]+$`),
//	    "limit":    schema.Integer("Max results").Min(1).Max(100).Default(10),
//	}, "order_id"))
//
//	args, err := orderSchema.Decode(`{"order_id": "A-1"}`)
//
// Tools built with tools.NewSchemaTool decode and validate their input this way and report
// failures as agentexec.ToolInputError, so the executor's parsing error policy applies.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrNotObject is returned by [Schema.Decode] when the input is not a JSON object.
var ErrNotObject = errors.New("schema: input is not an object")

// Schema pairs a raw JSON Schema map (for prompts) with its compiled validator.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map representation.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// PropertyTypes maps each top-level property name to its declared "type".
func (s *Schema) PropertyTypes() map[string]string {
	result := make(map[string]string)
	if s == nil {
		return result
	}
	props, ok := s.raw["properties"].(map[string]any)
	if !ok {
		return result
	}
	for name, def := range props {
		if m, ok := def.(map[string]any); ok {
			if typ, ok := m["type"].(string); ok {
				result[name] = typ
			}
		}
	}
	return result
}

// Validate validates data against the schema. A nil Schema accepts anything.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	normalized, err := normalize(data)
	if err != nil {
		return &ValidationError{Err: err}
	}
	if err := s.compiled.Validate(normalized); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// Decode turns a tool input into an argument map and validates it.
//
// input may be a map[string]any, a JSON object encoded as a string, or any value that marshals
// to a JSON object. An empty string decodes to an empty map.
func (s *Schema) Decode(input any) (map[string]any, error) {
	var args map[string]any
	switch v := input.(type) {
	case nil:
		args = map[string]any{}
	case map[string]any:
		args = v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			args = map[string]any{}
			break
		}
		if err := json.Unmarshal([]byte(text), &args); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
		}
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
		}
		if err := json.Unmarshal(b, &args); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
		}
	}
	if args == nil {
		return nil, ErrNotObject
	}
	if err := s.Validate(args); err != nil {
		return nil, err
	}
	return args, nil
}

// normalize round-trips data through JSON so integer kinds and structs become the float64 and
// map values the validator expects.
func normalize(data any) (any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

// ValidationError wraps a JSON Schema validation failure.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map. A nil map yields a nil Schema, which accepts anything.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	doc, err := normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{raw: raw, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error.
// Use this for schemas defined at init time.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}
