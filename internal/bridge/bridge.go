// Package bridge converts parsed JSON documents into AnyValue trees.
package bridge

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/mcncl/anyrt/internal/config"
	"github.com/mcncl/anyrt/internal/errors"
	"github.com/mcncl/anyrt/internal/models"
	"github.com/mcncl/anyrt/internal/parser"
	"github.com/mcncl/anyrt/internal/types"
	"github.com/mcncl/anyrt/internal/value"
)

// Bridge walks a JSON tree and builds the matching dynamic value.
type Bridge struct {
	// config supplies the depth limit and key naming
	config *config.Config
	logger *slog.Logger
}

// NewBridge creates a Bridge with the default configuration.
func NewBridge() *Bridge {
	return &Bridge{
		config: config.NewConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewBridgeWithConfig creates a Bridge with custom configuration. A
// non-positive json.max_depth falls back to config.DefaultMaxDepth.
func NewBridgeWithConfig(cfg *config.Config) *Bridge {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if cfg.JSON.MaxDepth <= 0 {
		adjusted := *cfg
		adjusted.JSON.MaxDepth = config.DefaultMaxDepth
		cfg = &adjusted
	}
	return &Bridge{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for per-node debug output.
func (b *Bridge) WithLogger(logger *slog.Logger) *Bridge {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// FromJSON converts one parsed JSON node. Objects become boxed AnyObjects,
// arrays become lists whose element type is that of their last element, and
// null becomes None.
func (b *Bridge) FromJSON(node models.JSONValue) (value.AnyValue, error) {
	return b.convertNode(node, 1)
}

// Convert converts the root of a parsed document.
func (b *Bridge) Convert(ir models.IntermediateRepresentation) (value.AnyValue, error) {
	return b.FromJSON(ir.Root)
}

// Parse parses text and converts the resulting document. Any parser failure
// is reported as a parsing error.
func (b *Bridge) Parse(text string) (value.AnyValue, error) {
	ir, err := parser.ParseString(text)
	if err != nil {
		return value.None(), errors.NewParsingError("runtime JSON parse error", err)
	}
	return b.Convert(ir)
}

// ParseReader is Parse for a stream.
func (b *Bridge) ParseReader(r io.Reader) (value.AnyValue, error) {
	ir, err := parser.Parse(r)
	if err != nil {
		return value.None(), errors.NewParsingError("runtime JSON parse error", err)
	}
	return b.Convert(ir)
}

// ParseFile is Parse for the contents of a file.
func (b *Bridge) ParseFile(path string) (value.AnyValue, error) {
	ir, err := parser.ParseFile(path)
	if err != nil {
		return value.None(), err
	}
	return b.Convert(ir)
}

func (b *Bridge) convertNode(node models.JSONValue, depth int) (value.AnyValue, error) {
	if depth > b.config.JSON.MaxDepth {
		return value.None(), errors.NewParsingError(
			fmt.Sprintf("nesting depth %d exceeds limit of %d", depth, b.config.JSON.MaxDepth),
			errors.ErrDepthExceeded,
		)
	}

	kind := models.KindOf(node)
	b.logger.Debug("convert node", "kind", kind.String(), "depth", depth)

	switch kind {
	case models.NodeNull:
		return value.None(), nil
	case models.NodeBool:
		return value.Bool(node.(bool)), nil
	case models.NodeString:
		return value.String(node.(string)), nil
	case models.NodeInt:
		i, _ := node.(json.Number).Int64()
		return value.Int(i), nil
	case models.NodeFloat:
		f, err := node.(json.Number).Float64()
		if err != nil {
			return value.None(), errors.NewConversionError(
				fmt.Sprintf("number %s is out of range", node), errors.ErrInvalidNumber)
		}
		return value.Float(f), nil
	case models.NodeObject:
		return b.convertObject(node.(models.JSONObject), depth)
	case models.NodeArray:
		return b.convertArray(node.(models.JSONArray), depth)
	default:
		return value.None(), errors.NewConversionError(
			fmt.Sprintf("unexpected json value type: %T", node), nil)
	}
}

func (b *Bridge) convertObject(obj models.JSONObject, depth int) (value.AnyValue, error) {
	box := value.NewAnyObject()

	// Sorted so that renamed keys colliding under the key style resolve the
	// same way on every run.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field, err := b.convertNode(obj[key], depth+1)
		if err != nil {
			return value.None(), err
		}
		box.Insert(b.config.KeyName(key), field)
	}
	return value.Box(box), nil
}

func (b *Bridge) convertArray(arr models.JSONArray, depth int) (value.AnyValue, error) {
	elems := make([]value.AnyValue, 0, len(arr))
	for _, element := range arr {
		v, err := b.convertNode(element, depth+1)
		if err != nil {
			return value.None(), err
		}
		elems = append(elems, v)
	}

	list := value.List(elems)
	if !homogeneous(elems) {
		b.logger.Debug("heterogeneous array, recording the last element type",
			"elements", len(elems),
			"elem_type", types.Render(elems[len(elems)-1].Type()),
			"depth", depth)
	}
	return list, nil
}

func homogeneous(elems []value.AnyValue) bool {
	if len(elems) < 2 {
		return true
	}
	last := elems[len(elems)-1].Type()
	for _, e := range elems[:len(elems)-1] {
		if !types.Equal(e.Type(), last) {
			return false
		}
	}
	return true
}

// FromJSON converts a node with the default configuration.
func FromJSON(node models.JSONValue) (value.AnyValue, error) {
	return NewBridge().FromJSON(node)
}

// Parse converts JSON text with the default configuration.
func Parse(text string) (value.AnyValue, error) {
	return NewBridge().Parse(text)
}
