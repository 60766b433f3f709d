// Package schema reads JSON Schema documents and converts them to type
// descriptors, so cast targets can be declared as data.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mcncl/anyrt/internal/types"
)

// SchemaType handles JSON Schema type field which can be string or array of strings
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both string and array forms of type
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		st.Types = []string{s}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		st.Types = arr
		return nil
	}

	return fmt.Errorf("type must be string or array of strings")
}

// Primary returns the first type that is not "null", or "null" when that is
// the only type given.
func (st SchemaType) Primary() string {
	for _, t := range st.Types {
		if t != "null" {
			return t
		}
	}
	if len(st.Types) > 0 {
		return st.Types[0]
	}
	return ""
}

// IsNullable returns true if "null" is one of the allowed types
func (st SchemaType) IsNullable() bool {
	for _, t := range st.Types {
		if t == "null" {
			return true
		}
	}
	return false
}

// AdditionalProperties handles JSON Schema additionalProperties which can be bool or Schema
type AdditionalProperties struct {
	Allowed bool
	Schema  *Schema
}

// UnmarshalJSON handles both boolean and schema forms
func (ap *AdditionalProperties) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		ap.Allowed = b
		ap.Schema = nil
		return nil
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err == nil {
		ap.Allowed = true
		ap.Schema = &s
		return nil
	}

	return fmt.Errorf("additionalProperties must be boolean or schema")
}

// Schema is the subset of a JSON Schema document that maps onto type
// descriptors.
type Schema struct {
	Schema      string `json:"$schema,omitempty"`
	ID          string `json:"$id,omitempty"`
	Ref         string `json:"$ref,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	Type SchemaType `json:"type,omitempty"`

	Properties           map[string]*Schema    `json:"properties,omitempty"`
	Required             []string              `json:"required,omitempty"`
	AdditionalProperties *AdditionalProperties `json:"additionalProperties,omitempty"`

	Items *Schema `json:"items,omitempty"`

	Format string `json:"format,omitempty"`

	Nullable bool `json:"nullable,omitempty"`

	AllOf []*Schema `json:"allOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty"`

	Definitions map[string]*Schema `json:"definitions,omitempty"`
	Defs        map[string]*Schema `json:"$defs,omitempty"`

	// PtrDepth is the x-ptr-depth extension: levels of indirection of the
	// described value.
	PtrDepth int `json:"x-ptr-depth,omitempty"`
}

// ParseFile reads and parses a JSON Schema from a file
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	return ParseBytes(data)
}

// ParseBytes parses JSON Schema from bytes
func ParseBytes(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse JSON Schema: %w", err)
	}

	return &schema, nil
}

// ParseString parses JSON Schema from a string
func ParseString(s string) (*Schema, error) {
	return ParseBytes([]byte(s))
}

// LoadDescriptor parses the schema file at path and converts it.
func LoadDescriptor(path string) (types.Descriptor, error) {
	schema, err := ParseFile(path)
	if err != nil {
		return types.Descriptor{}, err
	}
	return NewConverter(schema).Convert()
}

// Converter converts JSON Schema to type descriptors
type Converter struct {
	schema       *Schema
	definitions  map[string]*Schema
	resolvedRefs map[string]types.Descriptor
	resolving    map[string]bool
}

// NewConverter creates a new schema converter
func NewConverter(schema *Schema) *Converter {
	definitions := make(map[string]*Schema)
	for k, v := range schema.Definitions {
		definitions[k] = v
	}
	for k, v := range schema.Defs {
		definitions[k] = v
	}

	return &Converter{
		schema:       schema,
		definitions:  definitions,
		resolvedRefs: make(map[string]types.Descriptor),
		resolving:    make(map[string]bool),
	}
}

// Convert returns the descriptor described by the root schema.
func (c *Converter) Convert() (types.Descriptor, error) {
	d, err := c.convertSchema(c.schema, "")
	if err != nil {
		return types.Descriptor{}, fmt.Errorf("failed to convert schema: %w", err)
	}
	if err := d.Validate(); err != nil {
		return types.Descriptor{}, fmt.Errorf("schema produced an invalid type: %w", err)
	}
	return d, nil
}

func (c *Converter) convertSchema(schema *Schema, path string) (types.Descriptor, error) {
	if schema == nil {
		return types.Primitive(types.None), nil
	}
	if schema.PtrDepth < 0 {
		return types.Descriptor{}, fmt.Errorf("%s: x-ptr-depth must not be negative", location(path))
	}

	d, err := c.convertShape(schema, path)
	if err != nil {
		return types.Descriptor{}, err
	}
	if schema.PtrDepth > 0 {
		d = d.WithPtrDepth(d.PtrDepth + schema.PtrDepth)
	}
	return d, nil
}

func (c *Converter) convertShape(schema *Schema, path string) (types.Descriptor, error) {
	if schema.Ref != "" {
		return c.resolveRef(schema.Ref, path)
	}

	if len(schema.AllOf) > 0 {
		merged := c.mergeAllOf(schema.AllOf)
		return c.convertSchema(merged, path)
	}

	if alts := schema.AnyOf; len(alts) > 0 || len(schema.OneOf) > 0 {
		if len(alts) == 0 {
			alts = schema.OneOf
		}
		return c.convertAlternatives(alts, path)
	}

	schemaType := schema.Type.Primary()
	if schemaType == "" {
		if len(schema.Properties) > 0 {
			schemaType = "object"
		} else if schema.Items != nil {
			schemaType = "array"
		}
	}

	switch schemaType {
	case "object":
		return c.convertObject(schema, path)
	case "array":
		return c.convertArray(schema, path)
	case "string":
		if schema.Format == "char" {
			return types.Primitive(types.Char), nil
		}
		return types.Primitive(types.String), nil
	case "integer":
		return types.Primitive(types.Int), nil
	case "number":
		return types.Primitive(types.Float), nil
	case "boolean":
		return types.Primitive(types.Bool), nil
	case "null":
		return types.Primitive(types.None), nil
	case "":
		return types.Primitive(types.AnyObject), nil
	default:
		return types.Descriptor{}, fmt.Errorf("%s: unsupported type %q", location(path), schemaType)
	}
}

// convertObject maps objects with declared properties to structural
// objects and open objects to AnyObject.
func (c *Converter) convertObject(schema *Schema, path string) (types.Descriptor, error) {
	closed := schema.AdditionalProperties != nil && !schema.AdditionalProperties.Allowed
	if len(schema.Properties) == 0 && !closed {
		return types.Primitive(types.AnyObject), nil
	}

	fields := make(map[string]types.Descriptor, len(schema.Properties))
	for name, prop := range schema.Properties {
		d, err := c.convertSchema(prop, path+"."+name)
		if err != nil {
			return types.Descriptor{}, err
		}
		fields[name] = d
	}
	return types.ObjectOf(fields), nil
}

func (c *Converter) convertArray(schema *Schema, path string) (types.Descriptor, error) {
	if schema.Items == nil {
		return types.ListOf(types.Primitive(types.None)), nil
	}
	elem, err := c.convertSchema(schema.Items, path+"[]")
	if err != nil {
		return types.Descriptor{}, err
	}
	return types.ListOf(elem), nil
}

// convertAlternatives accepts anyOf/oneOf only when a single non-null
// branch remains, which is how nullable values are usually spelled.
func (c *Converter) convertAlternatives(alts []*Schema, path string) (types.Descriptor, error) {
	var branch *Schema
	for _, alt := range alts {
		if alt == nil || (alt.Ref == "" && len(alt.Type.Types) == 1 && alt.Type.Types[0] == "null") {
			continue
		}
		if branch != nil {
			return types.Descriptor{}, fmt.Errorf("%s: anyOf/oneOf with more than one non-null branch is not supported", location(path))
		}
		branch = alt
	}
	if branch == nil {
		return types.Primitive(types.None), nil
	}
	return c.convertSchema(branch, path)
}

// resolveRef resolves a local $ref. Recursive definitions are rejected since
// descriptors are finite trees.
func (c *Converter) resolveRef(ref string, path string) (types.Descriptor, error) {
	if cached, ok := c.resolvedRefs[ref]; ok {
		return cached.Clone(), nil
	}

	defSchema, err := c.lookupRef(ref)
	if err != nil {
		return types.Descriptor{}, fmt.Errorf("%s: %w", location(path), err)
	}
	if c.resolving[ref] {
		return types.Descriptor{}, fmt.Errorf("%s: recursive $ref %s cannot be expressed as a type descriptor", location(path), ref)
	}

	c.resolving[ref] = true
	d, err := c.convertSchema(defSchema, path)
	delete(c.resolving, ref)
	if err != nil {
		return types.Descriptor{}, err
	}
	c.resolvedRefs[ref] = d
	return d.Clone(), nil
}

func (c *Converter) lookupRef(ref string) (*Schema, error) {
	if ref == "#" {
		return c.schema, nil
	}
	for _, prefix := range []string{"#/definitions/", "#/$defs/"} {
		if strings.HasPrefix(ref, prefix) {
			defName := strings.TrimPrefix(ref, prefix)
			if defSchema, ok := c.definitions[defName]; ok {
				return defSchema, nil
			}
			return nil, fmt.Errorf("unresolved $ref: %s", ref)
		}
	}
	return nil, fmt.Errorf("external $ref not supported: %s", ref)
}

// mergeAllOf merges the properties of every allOf branch into one object
// schema. Later branches win on conflicting property names.
func (c *Converter) mergeAllOf(schemas []*Schema) *Schema {
	merged := &Schema{
		Properties: make(map[string]*Schema),
		Required:   make([]string, 0),
	}

	for _, s := range schemas {
		resolved := s
		if s.Ref != "" {
			if defSchema, err := c.lookupRef(s.Ref); err == nil {
				resolved = defSchema
			}
		}

		for k, v := range resolved.Properties {
			merged.Properties[k] = v
		}
		merged.Required = append(merged.Required, resolved.Required...)

		if merged.Title == "" && resolved.Title != "" {
			merged.Title = resolved.Title
		}
		if merged.Description == "" && resolved.Description != "" {
			merged.Description = resolved.Description
		}
		if resolved.AdditionalProperties != nil && !resolved.AdditionalProperties.Allowed {
			merged.AdditionalProperties = &AdditionalProperties{Allowed: false}
		}
	}

	merged.Type = SchemaType{Types: []string{"object"}}
	return merged
}

func location(path string) string {
	if path == "" {
		return "schema root"
	}
	return "schema " + strings.TrimPrefix(path, ".")
}
