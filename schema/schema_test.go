package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderSchema = Object(map[string]*Property{
	"order_id": String("Order identifier").Pattern(`^[A-Z]-[0-9]+$`),
	"limit":    Integer("Max results").Min(1).Max(100).Default(10),
	"express":  Boolean("Express shipping"),
}, "order_id")

func TestCompile(t *testing.T) {
	t.Run("nil schema", func(t *testing.T) {
		s, err := Compile(nil)
		require.NoError(t, err)
		assert.Nil(t, s)
		assert.Nil(t, s.Raw())
		assert.NoError(t, s.Validate(map[string]any{"anything": 1}))
	})

	t.Run("valid schema", func(t *testing.T) {
		s, err := Compile(orderSchema)
		require.NoError(t, err)
		assert.Equal(t, orderSchema, s.Raw())
	})

	t.Run("invalid schema", func(t *testing.T) {
		_, err := Compile(map[string]any{"type": 12})
		assert.Error(t, err)
	})
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile(map[string]any{"type": "not-a-type"})
	})
}

func TestSchema_Validate(t *testing.T) {
	s := MustCompile(orderSchema)

	tests := []struct {
		name    string
		data    any
		wantErr bool
	}{
		{name: "required only", data: map[string]any{"order_id": "A-1"}},
		{name: "go int accepted", data: map[string]any{"order_id": "A-1", "limit": 5}},
		{name: "missing required", data: map[string]any{"limit": 5}, wantErr: true},
		{name: "pattern mismatch", data: map[string]any{"order_id": "a1"}, wantErr: true},
		{name: "above maximum", data: map[string]any{"order_id": "A-1", "limit": 101}, wantErr: true},
		{name: "wrong type", data: map[string]any{"order_id": "A-1", "express": "yes"}, wantErr: true},
		{name: "not an object", data: "A-1", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Validate(tc.data)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, err.Error(), "schema validation failed")
		})
	}
}

func TestSchema_Decode(t *testing.T) {
	s := MustCompile(orderSchema)

	type expected struct {
		args    map[string]any
		errIs   error
		invalid bool
	}

	tests := []struct {
		name     string
		input    any
		expected expected
	}{
		{
			name:     "map input",
			input:    map[string]any{"order_id": "A-1"},
			expected: expected{args: map[string]any{"order_id": "A-1"}},
		},
		{
			name:     "json string input",
			input:    ` {"order_id": "B-2", "express": true} `,
			expected: expected{args: map[string]any{"order_id": "B-2", "express": true}},
		},
		{
			name: "struct input",
			input: struct {
				OrderID string `json:"order_id"`
			}{OrderID: "C-3"},
			expected: expected{args: map[string]any{"order_id": "C-3"}},
		},
		{
			name:     "plain text",
			input:    "order A-1 please",
			expected: expected{errIs: ErrNotObject},
		},
		{
			name:     "json array",
			input:    `["A-1"]`,
			expected: expected{errIs: ErrNotObject},
		},
		{
			name:     "empty string fails required",
			input:    "",
			expected: expected{invalid: true},
		},
		{
			name:     "valid json failing schema",
			input:    `{"order_id": "nope"}`,
			expected: expected{invalid: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args, err := s.Decode(tc.input)
			switch {
			case tc.expected.errIs != nil:
				assert.ErrorIs(t, err, tc.expected.errIs)
			case tc.expected.invalid:
				var verr *ValidationError
				assert.True(t, errors.As(err, &verr))
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.expected.args, args)
			}
		})
	}
}

func TestSchema_PropertyTypes(t *testing.T) {
	s := MustCompile(orderSchema)
	assert.Equal(t, map[string]string{
		"order_id": "string",
		"limit":    "integer",
		"express":  "boolean",
	}, s.PropertyTypes())

	var nilSchema *Schema
	assert.Empty(t, nilSchema.PropertyTypes())
}

func TestBuilders(t *testing.T) {
	tags := Array("Tags", map[string]any{"type": "string"})
	status := String("Status").Enum("open", "closed").Default("open")
	price := Number("Price").Min(0.01)
	name := String("Name").MinLength(1).MaxLength(40).Format("email")

	assert.Equal(t, map[string]any{
		"type":        "array",
		"description": "Tags",
		"items":       map[string]any{"type": "string"},
	}, tags.build())
	assert.Equal(t, map[string]any{
		"type":        "string",
		"description": "Status",
		"enum":        []any{"open", "closed"},
		"default":     "open",
	}, status.build())
	assert.Equal(t, map[string]any{
		"type":        "number",
		"description": "Price",
		"minimum":     0.01,
	}, price.build())
	assert.Equal(t, map[string]any{
		"type":        "string",
		"description": "Name",
		"format":      "email",
		"minLength":   1,
		"maxLength":   40,
	}, name.build())

	obj := Object(map[string]*Property{"a": Boolean("")})
	_, hasRequired := obj["required"]
	assert.False(t, hasRequired)
	assert.Equal(t, map[string]any{"type": "boolean"}, obj["properties"].(map[string]any)["a"])
}
