package types

import (
	"fmt"
	"sort"
)

// Descriptor is the structural tag attached to every dynamic value.
//
// Elem is set exactly when Kind is List and Fields is set exactly when Kind
// is Object. Every other kind leaves both empty.
type Descriptor struct {
	Kind     Kind
	PtrDepth int
	Elem     *Descriptor
	Fields   map[string]Descriptor
}

// Primitive returns a descriptor for a kind without nested types.
func Primitive(kind Kind) Descriptor {
	return Descriptor{Kind: kind}
}

// ListOf returns a list descriptor wrapping elem.
func ListOf(elem Descriptor) Descriptor {
	e := elem
	return Descriptor{Kind: List, Elem: &e}
}

// ObjectOf returns a structural object descriptor. The field map is copied.
func ObjectOf(fields map[string]Descriptor) Descriptor {
	copied := make(map[string]Descriptor, len(fields))
	for name, d := range fields {
		copied[name] = d
	}
	return Descriptor{Kind: Object, Fields: copied}
}

// WithPtrDepth returns a copy of d boxed behind depth levels of indirection.
func (d Descriptor) WithPtrDepth(depth int) Descriptor {
	d.PtrDepth = depth
	return d
}

// Validate checks the kind/nested-type invariant for d and every descriptor
// reachable from it.
func (d Descriptor) Validate() error {
	if d.PtrDepth < 0 {
		return fmt.Errorf("negative pointer depth %d", d.PtrDepth)
	}
	switch d.Kind {
	case List:
		if d.Elem == nil {
			return fmt.Errorf("list descriptor without element type")
		}
		if d.Fields != nil {
			return fmt.Errorf("list descriptor with object fields")
		}
		if err := d.Elem.Validate(); err != nil {
			return fmt.Errorf("element type: %w", err)
		}
	case Object:
		if d.Fields == nil {
			return fmt.Errorf("object descriptor without fields")
		}
		if d.Elem != nil {
			return fmt.Errorf("object descriptor with element type")
		}
		for _, name := range d.FieldNames() {
			if err := d.Fields[name].Validate(); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		}
	default:
		if !d.Kind.IsPrimitive() && d.Kind != AnyObject {
			return fmt.Errorf("unknown kind %d", int(d.Kind))
		}
		if d.Elem != nil || d.Fields != nil {
			return fmt.Errorf("%s descriptor carries nested types", d.Kind)
		}
	}
	return nil
}

// FieldNames returns the object field names in sorted order.
func (d Descriptor) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for name := range d.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether two descriptors are structurally identical,
// including pointer depth and all nested types.
func Equal(a, b Descriptor) bool {
	if a.Kind != b.Kind || a.PtrDepth != b.PtrDepth {
		return false
	}
	switch a.Kind {
	case List:
		if a.Elem == nil || b.Elem == nil {
			return a.Elem == b.Elem
		}
		return Equal(*a.Elem, *b.Elem)
	case Object:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for name, fa := range a.Fields {
			fb, ok := b.Fields[name]
			if !ok || !Equal(fa, fb) {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of d.
func (d Descriptor) Clone() Descriptor {
	out := Descriptor{Kind: d.Kind, PtrDepth: d.PtrDepth}
	if d.Elem != nil {
		e := d.Elem.Clone()
		out.Elem = &e
	}
	if d.Fields != nil {
		out.Fields = make(map[string]Descriptor, len(d.Fields))
		for name, f := range d.Fields {
			out.Fields[name] = f.Clone()
		}
	}
	return out
}

// String renders d with the default renderer.
func (d Descriptor) String() string {
	return Render(d)
}
