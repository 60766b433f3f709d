// Package cast decides whether a value tagged with one type descriptor may
// be reinterpreted as another.
package cast

import (
	"fmt"

	"github.com/mcncl/anyrt/internal/errors"
	"github.com/mcncl/anyrt/internal/types"
)

// Validator checks runtime casts.
//
// In lenient mode (the default) two descriptors of the same kind are always
// compatible: pointer depth, list element types and object fields are not
// compared. In strict mode pointer depth and every nested type must match.
type Validator struct {
	Strict   bool
	renderer *types.Renderer
}

// NewValidator returns a lenient validator using the default renderer.
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWith returns a validator with an explicit mode and renderer.
// A nil renderer falls back to the default locale.
func NewValidatorWith(strict bool, renderer *types.Renderer) *Validator {
	return &Validator{Strict: strict, renderer: renderer}
}

// ValidateCast runs the lenient check.
func ValidateCast(target, source types.Descriptor) error {
	return NewValidator().Validate(target, source)
}

// Validate returns nil when source may be cast to target, or a cast error
// wrapping *errors.CastMismatch.
func (v *Validator) Validate(target, source types.Descriptor) error {
	reason, ok := v.compatible(target, source, "")
	if ok {
		return nil
	}
	return errors.NewCastError(&errors.CastMismatch{
		From:   v.render(source),
		To:     v.render(target),
		Reason: reason,
	})
}

func (v *Validator) compatible(target, source types.Descriptor, path string) (string, bool) {
	if target.Kind == source.Kind && !v.Strict {
		return "", true
	}

	if target.PtrDepth != source.PtrDepth {
		return at(path, fmt.Sprintf("pointer depth %d != %d", source.PtrDepth, target.PtrDepth)), false
	}

	if target.Kind != source.Kind {
		return at(path, fmt.Sprintf("kind %s != %s", source.Kind, target.Kind)), false
	}

	switch target.Kind {
	case types.List:
		if target.Elem == nil || source.Elem == nil {
			if target.Elem == source.Elem {
				return "", true
			}
			return at(path, "missing element type"), false
		}
		return v.compatible(*target.Elem, *source.Elem, path+"[]")
	case types.Object:
		for _, name := range target.FieldNames() {
			sf, ok := source.Fields[name]
			if !ok {
				return at(path, fmt.Sprintf("missing field %q", name)), false
			}
			if reason, ok := v.compatible(target.Fields[name], sf, path+"."+name); !ok {
				return reason, false
			}
		}
		for _, name := range source.FieldNames() {
			if _, ok := target.Fields[name]; !ok {
				return at(path, fmt.Sprintf("unexpected field %q", name)), false
			}
		}
	}
	return "", true
}

func (v *Validator) render(d types.Descriptor) string {
	if v.renderer == nil {
		return types.Render(d)
	}
	return v.renderer.Render(d)
}

func at(path, reason string) string {
	if path == "" {
		return reason
	}
	return path + ": " + reason
}
