package enhance

import (
	"fmt"
	"strings"

	"github.com/Fato07/mcp-server-generator/openapi"
)

// fallbackContent renders a deterministic, template-derived substitute for a
// task whose provider call failed. The output depends only on the compressed
// document, so retries and tests see identical bytes.
func fallbackContent(feature Feature, c *openapi.Compressed) string {
	switch feature {
	case FeatureDocumentation:
		return fallbackDocumentation(c)
	case FeatureExamples:
		return fallbackExamples(c)
	case FeatureValidation:
		return openapi.ValidationReport(c)
	default:
		return fmt.Sprintf("# %s %s\n", c.Title, c.Version)
	}
}

func fallbackDocumentation(c *openapi.Compressed) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\nVersion %s\n\n", c.Title, c.Version)
	if c.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", c.Description)
	}
	b.WriteString("## Operations\n\n")
	for _, p := range c.Paths {
		for _, op := range p.Operations {
			name := op.OperationID
			if name == "" {
				name = fmt.Sprintf("%s %s", op.Method, p.Path)
			}
			fmt.Fprintf(&b, "### %s\n\n`%s %s`\n\n", name, op.Method, p.Path)
			if op.Summary != "" {
				fmt.Fprintf(&b, "%s\n\n", op.Summary)
			}
			for _, param := range op.Parameters {
				req := ""
				if param.Required {
					req = " (required)"
				}
				fmt.Fprintf(&b, "- `%s` in %s%s", param.Name, param.In, req)
				if param.Description != "" {
					fmt.Fprintf(&b, " — %s", param.Description)
				}
				b.WriteString("\n")
			}
			if len(op.Parameters) > 0 {
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func fallbackExamples(c *openapi.Compressed) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s — Examples\n\n", c.Title)
	for _, p := range c.Paths {
		for _, op := range p.Operations {
			fmt.Fprintf(&b, "```sh\ncurl -X %s 'https://api.example.com%s'\n```\n\n", op.Method, p.Path)
		}
	}
	return b.String()
}
