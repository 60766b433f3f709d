package value

import (
	stderrors "errors"
	"testing"

	"github.com/mcncl/anyrt/internal/cast"
	"github.com/mcncl/anyrt/internal/errors"
	"github.com/mcncl/anyrt/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   AnyValue
		to   types.Kind
		want AnyValue
	}{
		{"int to float", Int(3), types.Float, Float(3)},
		{"int to bool", Int(0), types.Bool, Bool(false)},
		{"int to char clamps high", Int(300), types.Char, Char(127)},
		{"int to char clamps low", Int(-5), types.Char, Char(0)},
		{"float to int truncates", Float(2.9), types.Int, Int(2)},
		{"float to bool", Float(0.1), types.Bool, Bool(true)},
		{"float to char", Float(65.7), types.Char, Char(65)},
		{"bool to int", Bool(true), types.Int, Int(1)},
		{"bool to float", Bool(false), types.Float, Float(0)},
		{"bool to char", Bool(true), types.Char, Char(1)},
		{"char to int", Char('A'), types.Int, Int(65)},
		{"char to float", Char('A'), types.Float, Float(65)},
		{"char to bool", Char(0), types.Bool, Bool(false)},
		{"identity", Int(9), types.Int, Int(9)},
		{"string to int", String("42"), types.Int, Int(42)},
		{"string to float with comma", String("3,5"), types.Float, Float(3.5)},
		{"string to float", String("-0.25"), types.Float, Float(-0.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.in, types.Primitive(tt.to))
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestConvert_InvalidNumber(t *testing.T) {
	_, err := Convert(String("abc"), types.Primitive(types.Int))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidNumber))
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeConversion}))

	_, err = Convert(String("1,2,3"), types.Primitive(types.Float))
	assert.True(t, stderrors.Is(err, errors.ErrInvalidNumber))
}

func TestConvert_DynamicValuesUseValidator(t *testing.T) {
	obj := NewAnyObject()
	obj.Insert("a", Int(1))
	boxed := Box(obj)

	got, err := Convert(boxed, types.Primitive(types.AnyObject))
	require.NoError(t, err)
	assert.True(t, Equal(boxed, got))

	_, err = Convert(boxed, types.Primitive(types.Int))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedCast))

	_, err = Convert(String("x"), types.Primitive(types.Char))
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedCast))
}

func TestConverter_StrictListCast(t *testing.T) {
	ints := List([]AnyValue{Int(1), Int(2)})
	target := types.ListOf(types.Primitive(types.String))

	_, err := Convert(ints, target)
	assert.NoError(t, err, "lenient mode does not inspect element types")

	strict := NewConverter(cast.NewValidatorWith(true, nil))
	_, err = strict.Convert(ints, target)
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedCast))
}

func TestConvert_PointerDepthSkipsScalarConversion(t *testing.T) {
	_, err := Convert(Int(1).WithPtrDepth(1), types.Primitive(types.Float))
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedCast))
}
