// Package value holds the dynamic value representation: AnyValue, a tagged
// union whose payload always agrees with its type descriptor, and AnyObject,
// a string-keyed store of AnyValues.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mcncl/anyrt/internal/types"
)

// payload is implemented by exactly one type per kind, so a value can never
// carry a payload that disagrees with its descriptor.
type payload interface {
	kind() types.Kind
}

type (
	noneVal   struct{}
	intVal    int64
	floatVal  float64
	boolVal   bool
	charVal   byte
	stringVal string
	listVal   []AnyValue
	objectVal map[string]AnyValue
	boxVal    struct{ obj *AnyObject }
)

func (noneVal) kind() types.Kind   { return types.None }
func (intVal) kind() types.Kind    { return types.Int }
func (floatVal) kind() types.Kind  { return types.Float }
func (boolVal) kind() types.Kind   { return types.Bool }
func (charVal) kind() types.Kind   { return types.Char }
func (stringVal) kind() types.Kind { return types.String }
func (listVal) kind() types.Kind   { return types.List }
func (objectVal) kind() types.Kind { return types.Object }
func (boxVal) kind() types.Kind    { return types.AnyObject }

// AnyValue is a dynamically typed value. The zero value is None.
type AnyValue struct {
	typ     types.Descriptor
	payload payload
}

// None returns the empty value.
func None() AnyValue {
	return AnyValue{typ: types.Primitive(types.None), payload: noneVal{}}
}

func Int(i int64) AnyValue {
	return AnyValue{typ: types.Primitive(types.Int), payload: intVal(i)}
}

func Float(f float64) AnyValue {
	return AnyValue{typ: types.Primitive(types.Float), payload: floatVal(f)}
}

func Bool(b bool) AnyValue {
	return AnyValue{typ: types.Primitive(types.Bool), payload: boolVal(b)}
}

func Char(c byte) AnyValue {
	return AnyValue{typ: types.Primitive(types.Char), payload: charVal(c)}
}

func String(s string) AnyValue {
	return AnyValue{typ: types.Primitive(types.String), payload: stringVal(s)}
}

// List builds a list value that owns elems. The recorded element type is the
// type of the last element (None for an empty list); heterogeneous lists are
// not rejected.
func List(elems []AnyValue) AnyValue {
	elem := types.Primitive(types.None)
	if len(elems) > 0 {
		elem = elems[len(elems)-1].typ
	}
	return ListOf(elem, elems)
}

// ListOf builds a list value with an explicit element type.
func ListOf(elem types.Descriptor, elems []AnyValue) AnyValue {
	owned := make(listVal, len(elems))
	copy(owned, elems)
	return AnyValue{typ: types.ListOf(elem), payload: owned}
}

// Object builds a structural object whose descriptor is derived from the
// types of its fields.
func Object(fields map[string]AnyValue) AnyValue {
	owned := make(objectVal, len(fields))
	shape := make(map[string]types.Descriptor, len(fields))
	for name, v := range fields {
		owned[name] = v
		shape[name] = v.typ
	}
	return AnyValue{typ: types.ObjectOf(shape), payload: owned}
}

// Box wraps a dynamic object. A nil object is boxed as an empty one.
func Box(obj *AnyObject) AnyValue {
	if obj == nil {
		obj = NewAnyObject()
	}
	return AnyValue{typ: types.Primitive(types.AnyObject), payload: boxVal{obj: obj}}
}

// WithPtrDepth returns v re-tagged behind depth levels of indirection.
func (v AnyValue) WithPtrDepth(depth int) AnyValue {
	if v.payload == nil {
		v = None()
	}
	v.typ = v.typ.WithPtrDepth(depth)
	return v
}

// Type returns a copy of the value's descriptor. Changing it does not
// affect v.
func (v AnyValue) Type() types.Descriptor {
	if v.payload == nil {
		return types.Primitive(types.None)
	}
	return v.typ.Clone()
}

// Kind is shorthand for v.Type().Kind.
func (v AnyValue) Kind() types.Kind {
	if v.payload == nil {
		return types.None
	}
	return v.typ.Kind
}

// IsNone reports whether v is the empty value.
func (v AnyValue) IsNone() bool {
	return v.Kind() == types.None
}

func (v AnyValue) AsInt() (int64, bool) {
	i, ok := v.payload.(intVal)
	return int64(i), ok
}

func (v AnyValue) AsFloat() (float64, bool) {
	f, ok := v.payload.(floatVal)
	return float64(f), ok
}

func (v AnyValue) AsBool() (bool, bool) {
	b, ok := v.payload.(boolVal)
	return bool(b), ok
}

func (v AnyValue) AsChar() (byte, bool) {
	c, ok := v.payload.(charVal)
	return byte(c), ok
}

func (v AnyValue) AsString() (string, bool) {
	s, ok := v.payload.(stringVal)
	return string(s), ok
}

// AsList returns a copy of the element slice. The elements themselves are
// shared with v; use Clone for an independent tree.
func (v AnyValue) AsList() ([]AnyValue, bool) {
	l, ok := v.payload.(listVal)
	if !ok {
		return nil, false
	}
	out := make([]AnyValue, len(l))
	copy(out, l)
	return out, true
}

// AsObject returns a copy of the structural object's field map.
func (v AnyValue) AsObject() (map[string]AnyValue, bool) {
	o, ok := v.payload.(objectVal)
	if !ok {
		return nil, false
	}
	out := make(map[string]AnyValue, len(o))
	for k, f := range o {
		out[k] = f
	}
	return out, true
}

// AsAnyObject returns the boxed dynamic object. The object is owned by v.
func (v AnyValue) AsAnyObject() (*AnyObject, bool) {
	b, ok := v.payload.(boxVal)
	return b.obj, ok
}

// Clone returns a deep copy of v sharing no mutable state with it.
func (v AnyValue) Clone() AnyValue {
	switch p := v.payload.(type) {
	case listVal:
		out := make(listVal, len(p))
		for i, e := range p {
			out[i] = e.Clone()
		}
		return AnyValue{typ: v.typ.Clone(), payload: out}
	case objectVal:
		out := make(objectVal, len(p))
		for k, f := range p {
			out[k] = f.Clone()
		}
		return AnyValue{typ: v.typ.Clone(), payload: out}
	case boxVal:
		return AnyValue{typ: v.typ.Clone(), payload: boxVal{obj: p.obj.Clone()}}
	case nil:
		return None()
	default:
		return AnyValue{typ: v.typ.Clone(), payload: p}
	}
}

// Equal reports whether a and b have the same descriptor and payload.
func Equal(a, b AnyValue) bool {
	if !types.Equal(a.Type(), b.Type()) {
		return false
	}
	switch pa := a.payload.(type) {
	case listVal:
		pb := b.payload.(listVal)
		if len(pa) != len(pb) {
			return false
		}
		for i := range pa {
			if !Equal(pa[i], pb[i]) {
				return false
			}
		}
		return true
	case objectVal:
		pb := b.payload.(objectVal)
		if len(pa) != len(pb) {
			return false
		}
		for k, fa := range pa {
			fb, ok := pb[k]
			if !ok || !Equal(fa, fb) {
				return false
			}
		}
		return true
	case boxVal:
		return pa.obj.Equal(b.payload.(boxVal).obj)
	case nil:
		return b.IsNone()
	default:
		if b.payload == nil {
			return a.IsNone()
		}
		return a.payload == b.payload
	}
}

// String formats v for diagnostics. Keys of objects are sorted.
func (v AnyValue) String() string {
	var b strings.Builder
	v.format(&b)
	return b.String()
}

func (v AnyValue) format(b *strings.Builder) {
	switch p := v.payload.(type) {
	case nil, noneVal:
		b.WriteString("none")
	case intVal:
		b.WriteString(strconv.FormatInt(int64(p), 10))
	case floatVal:
		b.WriteString(strconv.FormatFloat(float64(p), 'g', -1, 64))
	case boolVal:
		b.WriteString(strconv.FormatBool(bool(p)))
	case charVal:
		b.WriteString(strconv.QuoteRune(rune(p)))
	case stringVal:
		b.WriteString(strconv.Quote(string(p)))
	case listVal:
		b.WriteByte('[')
		for i, e := range p {
			if i > 0 {
				b.WriteString(", ")
			}
			e.format(b)
		}
		b.WriteByte(']')
	case objectVal:
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		formatFields(b, keys, func(k string) AnyValue { return p[k] })
	case boxVal:
		formatFields(b, p.obj.Keys(), func(k string) AnyValue { return p.obj.fields[k] })
	default:
		fmt.Fprintf(b, "%v", p)
	}
}

func formatFields(b *strings.Builder, keys []string, get func(string) AnyValue) {
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		get(k).format(b)
	}
	b.WriteByte('}')
}
