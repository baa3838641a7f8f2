package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaIssue reports one schema that failed to compile as JSON Schema.
type SchemaIssue struct {
	Schema  string `json:"schema"`
	Problem string `json:"problem"`
}

// ValidateSchemas compiles every retained component schema as JSON Schema
// and reports the ones that do not compile. The result is deterministic:
// issues are ordered by schema name. A nil slice means every schema is
// well-formed.
func ValidateSchemas(c *Compressed) []SchemaIssue {
	names := make([]string, 0, len(c.Schemas))
	for name := range c.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []SchemaIssue
	for _, name := range names {
		raw, err := json.Marshal(c.Schemas[name])
		if err != nil {
			issues = append(issues, SchemaIssue{Schema: name, Problem: err.Error()})
			continue
		}

		compiler := jsonschema.NewCompiler()
		url := fmt.Sprintf("mem:///%s.json", name)
		if err := compiler.AddResource(url, strings.NewReader(string(raw))); err != nil {
			issues = append(issues, SchemaIssue{Schema: name, Problem: err.Error()})
			continue
		}
		if _, err := compiler.Compile(url); err != nil {
			issues = append(issues, SchemaIssue{Schema: name, Problem: err.Error()})
		}
	}
	return issues
}

// ValidationReport renders schema issues as a stable markdown fragment.
func ValidationReport(c *Compressed) string {
	issues := ValidateSchemas(c)

	var b strings.Builder
	fmt.Fprintf(&b, "# Validation Report: %s %s\n\n", c.Title, c.Version)
	fmt.Fprintf(&b, "Schemas checked: %d\n\n", len(c.Schemas))
	if len(issues) == 0 {
		b.WriteString("All schemas compiled cleanly.\n")
		return b.String()
	}
	for _, issue := range issues {
		fmt.Fprintf(&b, "- `%s`: %s\n", issue.Schema, issue.Problem)
	}
	return b.String()
}
