// Package format lays out and parses the sectioned text a planner asks its model to produce.
//
// # Overview
//
// A [TextFormat] works in both directions:
//
//  1. DescribeStructure() - Generates instructions for the model
//  2. Parse() - Extracts raw section contents from the model's output
//  3. Wrap() - Renders a single section, used for scratchpad observations
//
// # Available Formats
//
//   - [XML]: XML-style tags (<section>content</section>), recommended
//   - [Markdown]: Markdown headers (# Section), for markdown-native models
//
// Use [XML] when the model might mention section names inside its content. [Markdown] treats
// every line starting with "# " as a header, so it only suits outputs that never contain one.
//
// # Example Usage
//
//	f := format.NewXML()
//	f.RegisterSection(format.Section{Name: "thinking", Prompt: "Reason step by step."})
//	f.RegisterSection(format.Section{Name: "answer", Prompt: "Your final answer."})
//
//	sections, err := f.Parse(modelOutput)
//	if errors.Is(err, format.ErrNoSectionsFound) {
//	    // report a parse failure to the executor
//	}
package format
