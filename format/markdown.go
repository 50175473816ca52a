package format

import (
	"fmt"
	"regexp"
	"strings"
)

// Markdown uses markdown headers to delimit sections.
//
// Example output:
//
//	# Thinking
//	I need to look up the order...
//
//	# Action
//	tool: lookup_order
type Markdown struct {
	sections      []Section
	knownSections map[string]bool
}

// NewMarkdown creates a new Markdown format.
func NewMarkdown() *Markdown {
	return &Markdown{knownSections: make(map[string]bool)}
}

// RegisterSection adds a section to the format.
// If a section with the same name already exists, it is not added again.
func (f *Markdown) RegisterSection(section Section) TextFormat {
	name := strings.ToLower(section.Name)
	if f.knownSections[name] {
		return f
	}
	f.sections = append(f.sections, section)
	f.knownSections[name] = true
	return f
}

// DescribeStructure generates the prompt explaining the header layout.
func (f *Markdown) DescribeStructure() string {
	if len(f.sections) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Format your response using markdown headers for each section:\n\n")
	for _, section := range f.sections {
		fmt.Fprintf(&sb, "# %s\n", section.Name)
		if section.Prompt != "" {
			sb.WriteString(section.Prompt)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

var headerPattern = regexp.MustCompile(`(?m)^#\s+(.+?)\s*$`)

// Parse extracts raw content for each section from the output. Content runs from a header to
// the next header or the end of the output.
func (f *Markdown) Parse(output string) (map[string][]string, error) {
	matches := headerPattern.FindAllStringSubmatchIndex(output, -1)
	if len(matches) == 0 {
		return nil, ErrNoSectionsFound
	}

	result := make(map[string][]string)
	for i, match := range matches {
		name := strings.ToLower(strings.TrimSpace(output[match[2]:match[3]]))
		if len(f.knownSections) > 0 && !f.knownSections[name] {
			continue
		}

		end := len(output)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if content := strings.TrimSpace(output[match[1]:end]); content != "" {
			result[name] = append(result[name], content)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoSectionsFound
	}
	return result, nil
}

// Wrap renders content under a header.
func (f *Markdown) Wrap(name, content string) string {
	return fmt.Sprintf("# %s\n%s", name, strings.TrimSpace(content))
}
