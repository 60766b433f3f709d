package models

import (
	"encoding/json"
	"fmt"
)

// JSONValue is a generic type to represent any JSON value.
// This can be a string, json.Number, boolean, null, object, or array.
type JSONValue interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// NodeKind discriminates the variants of a parsed JSON tree.
type NodeKind int

const (
	NodeInvalid NodeKind = iota
	NodeNull
	NodeObject
	NodeArray
	NodeInt
	NodeFloat
	NodeBool
	NodeString
)

func (k NodeKind) String() string {
	switch k {
	case NodeNull:
		return "null"
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	case NodeInt:
		return "int"
	case NodeFloat:
		return "float"
	case NodeBool:
		return "bool"
	case NodeString:
		return "string"
	default:
		return fmt.Sprintf("invalid(%d)", int(k))
	}
}

// KindOf returns the discriminant of a parsed node. Numbers without a
// fraction or exponent that fit into 64 bits are ints, every other number is
// a float.
func KindOf(node JSONValue) NodeKind {
	switch v := node.(type) {
	case nil:
		return NodeNull
	case JSONObject:
		return NodeObject
	case JSONArray:
		return NodeArray
	case json.Number:
		if _, err := v.Int64(); err == nil {
			return NodeInt
		}
		// Out-of-range literals are still floats; converting them fails later.
		return NodeFloat
	case bool:
		return NodeBool
	case string:
		return NodeString
	default:
		return NodeInvalid
	}
}

// IntermediateRepresentation holds one parsed JSON document.
type IntermediateRepresentation struct {
	Root JSONValue
}
