package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/anyrt/internal/cast"
	"github.com/mcncl/anyrt/internal/errors"
	"github.com/mcncl/anyrt/internal/types"
)

// Converter performs explicit casts on values.
type Converter struct {
	validator *cast.Validator
}

// NewConverter returns a converter whose dynamic checks use validator.
// A nil validator means the lenient default.
func NewConverter(validator *cast.Validator) *Converter {
	if validator == nil {
		validator = cast.NewValidator()
	}
	return &Converter{validator: validator}
}

// Convert casts v to target.
//
// Casts between the scalar kinds int, float, bool and char convert the
// payload; string to int or float parses the text, accepting ',' as the
// decimal separator. Every other request is a reinterpretation of a dynamic
// value: it is checked by the cast validator and v is returned unchanged.
func (c *Converter) Convert(v AnyValue, target types.Descriptor) (AnyValue, error) {
	src := v.Type()
	if src.PtrDepth == 0 && target.PtrDepth == 0 {
		if out, ok, err := convertScalar(v, target.Kind); ok || err != nil {
			return out, err
		}
	}

	if err := c.validator.Validate(target, src); err != nil {
		return None(), err
	}
	return v, nil
}

// Convert uses the lenient validator.
func Convert(v AnyValue, target types.Descriptor) (AnyValue, error) {
	return NewConverter(nil).Convert(v, target)
}

func convertScalar(v AnyValue, to types.Kind) (AnyValue, bool, error) {
	switch p := v.payload.(type) {
	case intVal:
		i := int64(p)
		switch to {
		case types.Int:
			return v, true, nil
		case types.Float:
			return Float(float64(i)), true, nil
		case types.Bool:
			return Bool(i != 0), true, nil
		case types.Char:
			return Char(byte(clamp(float64(i)))), true, nil
		}
	case floatVal:
		f := float64(p)
		switch to {
		case types.Int:
			return Int(int64(f)), true, nil
		case types.Float:
			return v, true, nil
		case types.Bool:
			return Bool(f != 0), true, nil
		case types.Char:
			return Char(byte(clamp(f))), true, nil
		}
	case boolVal:
		var n int64
		if p {
			n = 1
		}
		switch to {
		case types.Int:
			return Int(n), true, nil
		case types.Float:
			return Float(float64(n)), true, nil
		case types.Bool:
			return v, true, nil
		case types.Char:
			return Char(byte(n)), true, nil
		}
	case charVal:
		switch to {
		case types.Int:
			return Int(int64(p)), true, nil
		case types.Float:
			return Float(float64(p)), true, nil
		case types.Bool:
			return Bool(p != 0), true, nil
		case types.Char:
			return v, true, nil
		}
	case stringVal:
		text := strings.ReplaceAll(string(p), ",", ".")
		switch to {
		case types.Int:
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return None(), true, errors.NewConversionError(fmt.Sprintf("cannot parse %q as %s", text, types.Render(types.Primitive(to))), errors.ErrInvalidNumber)
			}
			return Int(n), true, nil
		case types.Float:
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return None(), true, errors.NewConversionError(fmt.Sprintf("cannot parse %q as %s", text, types.Render(types.Primitive(to))), errors.ErrInvalidNumber)
			}
			return Float(f), true, nil
		}
	}
	return None(), false, nil
}

// clamp restricts a numeric value to the 7-bit character range.
func clamp(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(127, f))
}
