// Package types describes the shape of dynamic values at runtime.
package types

import (
	"fmt"
	"strings"
)

// Kind is the primitive tag of a Descriptor.
type Kind int

// The closed set of kinds a dynamic value can carry.
const (
	None Kind = iota
	Int
	Float
	Char
	Bool
	String
	List
	Object
	AnyObject
)

var kindNames = map[Kind]string{
	None:      "none",
	Int:       "int",
	Float:     "float",
	Char:      "char",
	Bool:      "bool",
	String:    "string",
	List:      "list",
	Object:    "object",
	AnyObject: "anyobject",
}

// String returns the stable identifier of the kind, used in config files,
// schema extensions and CLI flags. Use a Renderer for diagnostics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsPrimitive reports whether values of this kind carry no nested types.
func (k Kind) IsPrimitive() bool {
	switch k {
	case None, Int, Float, Char, Bool, String:
		return true
	default:
		return false
	}
}

// ParseKind maps an identifier (as returned by Kind.String, plus a few
// aliases) back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "null", "nil":
		return None, nil
	case "int", "integer":
		return Int, nil
	case "float", "number", "double":
		return Float, nil
	case "char":
		return Char, nil
	case "bool", "boolean":
		return Bool, nil
	case "string", "str":
		return String, nil
	case "list", "array":
		return List, nil
	case "object", "struct":
		return Object, nil
	case "anyobject", "any", "box":
		return AnyObject, nil
	}
	return None, fmt.Errorf("unknown type kind %q", s)
}
