// Package openapi holds the minimal OpenAPI document model consumed by the
// enhancement pipeline and the specification compressor that reduces a
// document to a token-budget-constrained summary.
//
// The document model deliberately captures only the fields generation cares
// about. Anything else in the source document (servers, tags, security
// schemes, examples, callbacks, links, vendor extensions) is dropped at
// decode time and never recoverable.
package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the parsed source API description.
type Document struct {
	OpenAPI    string               `json:"openapi" yaml:"openapi"`
	Info       Info                 `json:"info" yaml:"info"`
	Paths      map[string]*PathItem `json:"paths" yaml:"paths"`
	Components *Components          `json:"components,omitempty" yaml:"components,omitempty"`
}

// Info carries the document's identifying metadata.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PathItem holds the operations defined on a single path.
type PathItem struct {
	Get     *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Post    *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Put     *Operation `json:"put,omitempty" yaml:"put,omitempty"`
	Patch   *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`
	Delete  *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Head    *Operation `json:"head,omitempty" yaml:"head,omitempty"`
	Options *Operation `json:"options,omitempty" yaml:"options,omitempty"`
}

// methodOrder fixes the operation ordering within a compressed path.
var methodOrder = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// operations returns the defined operations keyed by upper-case method,
// in methodOrder.
func (p *PathItem) operations() []methodOperation {
	byMethod := map[string]*Operation{
		"GET": p.Get, "POST": p.Post, "PUT": p.Put, "PATCH": p.Patch,
		"DELETE": p.Delete, "HEAD": p.Head, "OPTIONS": p.Options,
	}
	var ops []methodOperation
	for _, m := range methodOrder {
		if op := byMethod[m]; op != nil {
			ops = append(ops, methodOperation{method: m, op: op})
		}
	}
	return ops
}

type methodOperation struct {
	method string
	op     *Operation
}

// Operation describes a single HTTP operation.
type Operation struct {
	OperationID string               `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Summary     string               `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []*Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody         `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]*Response `json:"responses,omitempty" yaml:"responses,omitempty"`
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string     `json:"name" yaml:"name"`
	In          string     `json:"in" yaml:"in"`
	Required    bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      *SchemaDef `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// RequestBody describes an operation request body.
type RequestBody struct {
	Content map[string]*MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// MediaType holds the schema of one content type.
type MediaType struct {
	Schema *SchemaDef `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Response describes a single response by status code.
type Response struct {
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// Components holds the document's reusable schemas.
type Components struct {
	Schemas map[string]*SchemaDef `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// SchemaDef is the source schema shape before compression.
type SchemaDef struct {
	Type        string                `json:"type,omitempty" yaml:"type,omitempty"`
	Properties  map[string]*SchemaDef `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *SchemaDef            `json:"items,omitempty" yaml:"items,omitempty"`
	Required    []string              `json:"required,omitempty" yaml:"required,omitempty"`
	Enum        []any                 `json:"enum,omitempty" yaml:"enum,omitempty"`
	Format      string                `json:"format,omitempty" yaml:"format,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
}

// Load reads and parses an API description from the given path.
// Supported formats: JSON (.json), YAML (.yaml, .yml).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	var doc Document
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML spec: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing JSON spec: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported spec file extension %q: use .json, .yaml, or .yml", ext)
	}

	return &doc, nil
}

// Parse decodes a YAML (or YAML-compatible JSON) API description.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing spec: %w", err)
	}
	return &doc, nil
}
