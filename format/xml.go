package format

import (
	"fmt"
	"regexp"
	"strings"
)

// XML uses XML-style tags to delimit sections.
//
// Example output:
//
//	<thinking>
//	I need to look up the order...
//	</thinking>
//
//	<action>
//	tool: lookup_order
//	args:
//	  order_id: A-1
//	</action>
type XML struct {
	sections []Section
	patterns map[string]*regexp.Regexp
}

// NewXML creates a new XML format.
func NewXML() *XML {
	return &XML{patterns: make(map[string]*regexp.Regexp)}
}

// RegisterSection adds a section to the format.
func (f *XML) RegisterSection(section Section) TextFormat {
	name := strings.ToLower(section.Name)
	if _, ok := f.patterns[name]; ok {
		return f
	}
	f.sections = append(f.sections, section)
	f.patterns[name] = regexp.MustCompile(
		fmt.Sprintf(`(?si)<%s>(.*?)</%s>`, regexp.QuoteMeta(name), regexp.QuoteMeta(name)))
	return f
}

// DescribeStructure generates the prompt section explaining the output format.
func (f *XML) DescribeStructure() string {
	if len(f.sections) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Format your response using XML-style tags for each section:\n\n")
	for _, section := range f.sections {
		fmt.Fprintf(&sb, "<%s>\n", section.Name)
		if section.Prompt != "" {
			sb.WriteString(section.Prompt)
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "</%s>\n\n", section.Name)
	}
	return sb.String()
}

// anyTag matches any well-formed tag pair when no sections are registered. RE2 has no
// backreferences, so the closing name is compared after matching.
var anyTag = regexp.MustCompile(`(?si)<(\w+)>(.*?)</(\w+)>`)

// Parse extracts raw content for each section from the output.
func (f *XML) Parse(output string) (map[string][]string, error) {
	result := make(map[string][]string)

	for name, re := range f.patterns {
		for _, match := range re.FindAllStringSubmatch(output, -1) {
			result[name] = append(result[name], strings.TrimSpace(match[1]))
		}
	}

	if len(f.patterns) == 0 {
		for _, match := range anyTag.FindAllStringSubmatch(output, -1) {
			if !strings.EqualFold(match[1], match[3]) {
				continue
			}
			name := strings.ToLower(match[1])
			result[name] = append(result[name], strings.TrimSpace(match[2]))
		}
	}

	if len(result) == 0 {
		return nil, ErrNoSectionsFound
	}
	return result, nil
}

// Wrap renders content inside a tag pair.
func (f *XML) Wrap(name, content string) string {
	return fmt.Sprintf("<%s>\n%s\n</%s>", name, strings.TrimSpace(content), name)
}
