package format

import "errors"

// ErrNoSectionsFound is returned when the output contains none of the registered sections.
var ErrNoSectionsFound = errors.New("format: no sections found in output")

// Section names one part of a planner's structured output and carries the instruction shown to
// the model for that part.
type Section struct {
	Name   string
	Prompt string
}

// TextFormat describes a section layout to a model and parses the model's output back into raw
// section contents keyed by lower-cased section name.
type TextFormat interface {
	// RegisterSection adds a section. Registering the same name twice is a no-op.
	RegisterSection(section Section) TextFormat

	// DescribeStructure returns prompt text explaining the layout and each section's purpose.
	DescribeStructure() string

	// Parse extracts section contents from output. Each section may occur more than once.
	Parse(output string) (map[string][]string, error)

	// Wrap renders content as a single section in this layout.
	Wrap(name, content string) string
}
