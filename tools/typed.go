package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/rickchristie/agentexec"
	"github.com/rickchristie/agentexec/schema"
)

// NewTyped creates a schema tool whose validated arguments are decoded into I.
//
// Decoding goes through JSON with two additions: strings are parsed into time.Time fields using
// common layouts (RFC3339, "2006-01-02", "2006-01-02 15:04", ...) and into time.Duration fields
// using time.ParseDuration. Decoding failures are input errors.
//
//	type refundInput struct {
//	    OrderID string        `json:"order_id"`
//	    After   time.Duration `json:"after"`
//	}
//
//	refund := tools.NewTyped("refund", "Refund an order", refundSchema,
//	    func(ctx context.Context, in refundInput) (string, error) { ... })
func NewTyped[I any](
	name, description string,
	s *schema.Schema,
	fn func(ctx context.Context, input I) (string, error),
) *SchemaTool {
	return NewSchemaTool(name, description, s, func(ctx context.Context, args map[string]any) (string, error) {
		input, err := decodeInto[I](args)
		if err != nil {
			return "", agentexec.NewToolInputError(name, args, err)
		}
		return fn(ctx, input)
	})
}

func decodeInto[I any](args map[string]any) (I, error) {
	var input I
	if target := reflect.TypeOf(input); target != nil {
		if target.Kind() == reflect.Ptr {
			target = target.Elem()
		}
		args = convertArgs(args, target)
	}

	data, err := json.Marshal(args)
	if err != nil {
		return input, fmt.Errorf("failed to marshal args: %w", err)
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("failed to decode args: %w", err)
	}
	return input, nil
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// convertArgs rewrites values json cannot decode directly into the fields of structType.
func convertArgs(args map[string]any, structType reflect.Type) map[string]any {
	if args == nil || structType.Kind() != reflect.Struct {
		return args
	}
	result := make(map[string]any, len(args))
	for key, value := range args {
		if field, ok := fieldByJSONName(structType, key); ok {
			value = convertValue(value, field.Type)
		}
		result[key] = value
	}
	return result
}

func fieldByJSONName(structType reflect.Type, name string) (reflect.StructField, bool) {
	for i := range structType.NumField() {
		field := structType.Field(i)
		tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if tag == name || (tag == "" && strings.EqualFold(field.Name, name)) {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

func convertValue(value any, target reflect.Type) any {
	if value == nil {
		return nil
	}
	if target.Kind() == reflect.Ptr {
		target = target.Elem()
	}

	switch {
	case target == timeType:
		switch v := value.(type) {
		case string:
			if t, err := parseTime(v); err == nil {
				return t.Format(time.RFC3339Nano)
			}
		case time.Time:
			return v.Format(time.RFC3339Nano)
		}
	case target == durationType:
		if s, ok := value.(string); ok {
			if d, err := time.ParseDuration(s); err == nil {
				return d.Nanoseconds()
			}
		}
	case target.Kind() == reflect.Struct:
		if m, ok := value.(map[string]any); ok {
			return convertArgs(m, target)
		}
	case target.Kind() == reflect.Slice:
		if items, ok := value.([]any); ok {
			out := make([]any, len(items))
			for i, item := range items {
				out[i] = convertValue(item, target.Elem())
			}
			return out
		}
	}
	return value
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse time: %s", s)
}
