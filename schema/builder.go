package schema

// Object creates an object schema with the given properties.
// Pass property names as variadic arguments to mark them as required.
//
//	schema.Object(map[string]*schema.Property{
//	    "city":  schema.String("City name"),
//	    "units": schema.String("Temperature units").Enum("c", "f"),
//	}, "city")
func Object(properties map[string]*Property, required ...string) map[string]any {
	props := make(map[string]any, len(properties))
	for name, prop := range properties {
		props[name] = prop.build()
	}

	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Property describes one property of an object schema. Build it with [String], [Integer],
// [Number], [Boolean] or [Array] and refine it with the chained setters.
type Property struct {
	typ         string
	description string
	enum        []any
	format      string
	minimum     *float64
	maximum     *float64
	minLength   *int
	maxLength   *int
	pattern     string
	items       map[string]any
	def         any
}

func (p *Property) build() map[string]any {
	m := map[string]any{"type": p.typ}
	if p.description != "" {
		m["description"] = p.description
	}
	if len(p.enum) > 0 {
		m["enum"] = p.enum
	}
	if p.format != "" {
		m["format"] = p.format
	}
	if p.minimum != nil {
		m["minimum"] = *p.minimum
	}
	if p.maximum != nil {
		m["maximum"] = *p.maximum
	}
	if p.minLength != nil {
		m["minLength"] = *p.minLength
	}
	if p.maxLength != nil {
		m["maxLength"] = *p.maxLength
	}
	if p.pattern != "" {
		m["pattern"] = p.pattern
	}
	if p.items != nil {
		m["items"] = p.items
	}
	if p.def != nil {
		m["default"] = p.def
	}
	return m
}

// String creates a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number creates a floating point property.
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Boolean creates a boolean property.
func Boolean(description string) *Property {
	return &Property{typ: "boolean", description: description}
}

// Array creates an array property with the given item schema.
//
//	schema.Array("Tags", map[string]any{"type": "string"})
func Array(description string, items map[string]any) *Property {
	return &Property{typ: "array", description: description, items: items}
}

// Enum sets allowed values.
func (p *Property) Enum(values ...any) *Property {
	p.enum = values
	return p
}

// Format sets the string format, e.g. "email", "date-time" or "uri".
func (p *Property) Format(format string) *Property {
	p.format = format
	return p
}

// Min sets the minimum for number and integer properties.
func (p *Property) Min(min float64) *Property {
	p.minimum = &min
	return p
}

// Max sets the maximum for number and integer properties.
func (p *Property) Max(max float64) *Property {
	p.maximum = &max
	return p
}

// MinLength sets the minimum string length.
func (p *Property) MinLength(min int) *Property {
	p.minLength = &min
	return p
}

// MaxLength sets the maximum string length.
func (p *Property) MaxLength(max int) *Property {
	p.maxLength = &max
	return p
}

// Pattern sets a regular expression the string must match.
func (p *Property) Pattern(pattern string) *Property {
	p.pattern = pattern
	return p
}

// Default sets the default value shown to the model.
func (p *Property) Default(value any) *Property {
	p.def = value
	return p
}
