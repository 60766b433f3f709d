// Package printer renders dynamic values and type descriptors for people.
package printer

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/anyrt/internal/types"
	"github.com/mcncl/anyrt/internal/value"
)

const indentUnit = "  "

// Printer formats values with type names from its renderer.
type Printer struct {
	renderer *types.Renderer
}

// NewPrinter creates a Printer. A nil renderer uses the default locale.
func NewPrinter(renderer *types.Renderer) *Printer {
	return &Printer{renderer: renderer}
}

func (p *Printer) render(d types.Descriptor) string {
	if p.renderer == nil {
		return types.Render(d)
	}
	return p.renderer.Render(d)
}

// Dump returns an indented tree of v. Every line shows a rendered type;
// scalars also show their value. Object members are listed by sorted key and
// list elements by index, with labels aligned among siblings.
func (p *Printer) Dump(v value.AnyValue) string {
	var buf bytes.Buffer
	p.writeLine(&buf, "", "", 0, v)
	p.writeChildren(&buf, v, indentUnit)
	return buf.String()
}

func (p *Printer) writeChildren(buf *bytes.Buffer, v value.AnyValue, indent string) {
	labels, children := members(v)
	if len(children) == 0 {
		return
	}

	maxLabelWidth := 0
	for _, label := range labels {
		if len(label) > maxLabelWidth {
			maxLabelWidth = len(label)
		}
	}

	for i, child := range children {
		p.writeLine(buf, indent, labels[i], maxLabelWidth, child)
		p.writeChildren(buf, child, indent+indentUnit)
	}
}

func (p *Printer) writeLine(buf *bytes.Buffer, indent, label string, width int, v value.AnyValue) {
	buf.WriteString(indent)
	if label != "" {
		buf.WriteString(fmt.Sprintf("%-*s ", width+1, label+":"))
	}
	buf.WriteString(p.render(v.Type()))
	if scalar, ok := scalarText(v); ok {
		buf.WriteString(" = ")
		buf.WriteString(scalar)
	}
	buf.WriteString("\n")
}

func members(v value.AnyValue) ([]string, []value.AnyValue) {
	if elems, ok := v.AsList(); ok {
		labels := make([]string, len(elems))
		for i := range elems {
			labels[i] = "[" + strconv.Itoa(i) + "]"
		}
		return labels, elems
	}

	if obj, ok := v.AsAnyObject(); ok {
		keys := obj.Keys()
		children := make([]value.AnyValue, len(keys))
		for i, k := range keys {
			children[i] = obj.Take(k)
		}
		return quoteAll(keys), children
	}

	if fields, ok := v.AsObject(); ok {
		keys := v.Type().FieldNames()
		children := make([]value.AnyValue, len(keys))
		for i, k := range keys {
			children[i] = fields[k]
		}
		return keys, children
	}

	return nil, nil
}

// quoteAll quotes dynamic keys, which may contain spaces or be empty.
func quoteAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strconv.Quote(k)
	}
	return out
}

func scalarText(v value.AnyValue) (string, bool) {
	if k := v.Kind(); k.IsPrimitive() && k != types.None {
		return v.String(), true
	}
	return "", false
}

// descriptorDoc is the YAML shape of a descriptor.
type descriptorDoc struct {
	Kind     string                    `yaml:"kind"`
	Name     string                    `yaml:"name"`
	PtrDepth int                       `yaml:"ptr_depth,omitempty"`
	Elem     *descriptorDoc            `yaml:"elem,omitempty"`
	Fields   map[string]*descriptorDoc `yaml:"fields,omitempty"`
}

func (p *Printer) describe(d types.Descriptor) *descriptorDoc {
	doc := &descriptorDoc{
		Kind:     d.Kind.String(),
		Name:     p.render(d),
		PtrDepth: d.PtrDepth,
	}
	if d.Elem != nil {
		doc.Elem = p.describe(*d.Elem)
	}
	if len(d.Fields) > 0 {
		doc.Fields = make(map[string]*descriptorDoc, len(d.Fields))
		for name, f := range d.Fields {
			doc.Fields[name] = p.describe(f)
		}
	}
	return doc
}

// DescribeYAML returns d as a YAML document. Field maps are emitted in
// sorted key order.
func (p *Printer) DescribeYAML(d types.Descriptor) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p.describe(d)); err != nil {
		return "", fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode descriptor: %w", err)
	}
	return buf.String(), nil
}
