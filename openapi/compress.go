package openapi

import (
	"encoding/json"
	"sort"
	"unicode/utf8"
)

// Description ceilings applied during compression, in bytes.
const (
	maxDocDescription      = 200
	maxSummaryLen          = 200
	maxParamDescription    = 50
	maxResponseDescription = 100
)

// Compressed is the token-budget-constrained summary of a Document.
// EstimatedTokens is recomputed after every mutation and is a pure function
// of the serialized size of the structure.
type Compressed struct {
	Title           string             `json:"title"`
	Version         string             `json:"version"`
	Description     string             `json:"description,omitempty"`
	Paths           []PathEntry        `json:"paths"`
	Schemas         map[string]*Schema `json:"schemas,omitempty"`
	EstimatedTokens int                `json:"estimatedTokens"`
}

// PathEntry groups the retained operations of one path.
// A PathEntry with zero operations is never retained.
type PathEntry struct {
	Path       string           `json:"path"`
	Operations []OperationEntry `json:"operations"`
}

// OperationEntry is the compressed form of a single HTTP operation.
type OperationEntry struct {
	Method      string            `json:"method"`
	OperationID string            `json:"operationId,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	Parameters  []ParameterEntry  `json:"parameters,omitempty"`
	RequestBody *Schema           `json:"requestBody,omitempty"`
	Responses   map[string]string `json:"responses,omitempty"`
}

// ParameterEntry is the compressed form of an operation parameter.
type ParameterEntry struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Schema is the compressed schema shape. Only these six fields survive
// compression; all other schema metadata is dropped irreversibly.
type Schema struct {
	Type       string             `json:"type,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Enum       []any              `json:"enum,omitempty"`
	Format     string             `json:"format,omitempty"`
}

// Recalculate recomputes EstimatedTokens from the serialized size of the
// structure using the four-bytes-per-token heuristic. Idempotent: the token
// field itself is excluded from the measured payload.
func (c *Compressed) Recalculate() {
	saved := c.EstimatedTokens
	c.EstimatedTokens = 0
	raw, err := json.Marshal(c)
	if err != nil {
		c.EstimatedTokens = saved
		return
	}
	c.EstimatedTokens = (len(raw) + 3) / 4
}

// Clone returns a deep copy via a JSON round trip.
func (c *Compressed) Clone() *Compressed {
	raw, _ := json.Marshal(c)
	out := &Compressed{}
	_ = json.Unmarshal(raw, out)
	return out
}

// Minify reduces a document to its compressed form: identifying metadata,
// per-path operation summaries, and compressed component schemas. It always
// succeeds; malformed-but-parseable input yields a sparse result, never an
// error.
func Minify(doc *Document) *Compressed {
	return minify(doc, nil)
}

// MinifyForOperations is Minify restricted to paths containing at least one
// of the given operation ids. Component schemas are conservatively retained
// in full; no reachability analysis is performed.
func MinifyForOperations(doc *Document, operationIDs []string) *Compressed {
	wanted := make(map[string]bool, len(operationIDs))
	for _, id := range operationIDs {
		wanted[id] = true
	}
	return minify(doc, wanted)
}

func minify(doc *Document, wantedOps map[string]bool) *Compressed {
	c := &Compressed{
		Title:       doc.Info.Title,
		Version:     doc.Info.Version,
		Description: truncate(doc.Info.Description, maxDocDescription),
	}

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths[path]
		if item == nil {
			continue
		}
		if wantedOps != nil && !pathWanted(item, wantedOps) {
			continue
		}
		var entry PathEntry
		entry.Path = path
		for _, mo := range item.operations() {
			entry.Operations = append(entry.Operations, compressOperation(mo.method, mo.op))
		}
		// Paths that end up with no operations are dropped, not kept empty.
		if len(entry.Operations) > 0 {
			c.Paths = append(c.Paths, entry)
		}
	}

	if doc.Components != nil && len(doc.Components.Schemas) > 0 {
		c.Schemas = make(map[string]*Schema, len(doc.Components.Schemas))
		for name, def := range doc.Components.Schemas {
			c.Schemas[name] = compressSchema(def)
		}
	}

	c.Recalculate()
	return c
}

func pathWanted(item *PathItem, wanted map[string]bool) bool {
	for _, mo := range item.operations() {
		if wanted[mo.op.OperationID] {
			return true
		}
	}
	return false
}

func compressOperation(method string, op *Operation) OperationEntry {
	entry := OperationEntry{
		Method:      method,
		OperationID: op.OperationID,
		Summary:     truncate(op.Summary, maxSummaryLen),
	}
	if entry.Summary == "" {
		entry.Summary = truncate(op.Description, maxSummaryLen)
	}

	for _, p := range op.Parameters {
		pe := ParameterEntry{
			Name:        p.Name,
			In:          p.In,
			Required:    p.Required,
			Description: truncate(p.Description, maxParamDescription),
		}
		if p.Schema != nil {
			pe.Type = p.Schema.Type
		}
		entry.Parameters = append(entry.Parameters, pe)
	}

	if op.RequestBody != nil {
		if def := firstSchema(op.RequestBody.Content); def != nil {
			entry.RequestBody = compressSchema(def)
		}
	}

	if len(op.Responses) > 0 {
		entry.Responses = make(map[string]string, len(op.Responses))
		for status, resp := range op.Responses {
			if resp == nil {
				continue
			}
			entry.Responses[status] = truncate(resp.Description, maxResponseDescription)
		}
	}

	return entry
}

// firstSchema picks the JSON schema of a content map, preferring
// application/json over whatever else is declared.
func firstSchema(content map[string]*MediaType) *SchemaDef {
	if mt, ok := content["application/json"]; ok && mt != nil {
		return mt.Schema
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if mt := content[k]; mt != nil && mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}

// compressSchema recursively keeps only {type, properties, items, required,
// enum, format}.
func compressSchema(def *SchemaDef) *Schema {
	if def == nil {
		return nil
	}
	s := &Schema{
		Type:     def.Type,
		Required: def.Required,
		Enum:     def.Enum,
		Format:   def.Format,
	}
	if len(def.Properties) > 0 {
		s.Properties = make(map[string]*Schema, len(def.Properties))
		for name, prop := range def.Properties {
			s.Properties[name] = compressSchema(prop)
		}
	}
	if def.Items != nil {
		s.Items = compressSchema(def.Items)
	}
	return s
}

// truncate cuts s to at most n bytes, marking the cut with an ellipsis.
// The cut lands on a rune boundary so the result stays valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:runeBoundary(s, n)]
	}
	return s[:runeBoundary(s, n-3)] + "..."
}

// runeBoundary returns the largest i <= n such that s[:i] ends on a rune
// boundary. n must be < len(s).
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
