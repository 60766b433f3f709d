package value

import (
	"fmt"

	"github.com/mcncl/anyrt/internal/errors"
)

// Len returns the number of elements of a list value.
func (v AnyValue) Len() (int, error) {
	l, ok := v.payload.(listVal)
	if !ok {
		return 0, errors.NewLookupError(fmt.Sprintf("cannot take length of %s", v.Type()), errors.ErrNotAList)
	}
	return len(l), nil
}

// Index returns a copy of the element at idx. Negative and out-of-range
// indices are lookup errors.
func (v AnyValue) Index(idx int64) (AnyValue, error) {
	l, ok := v.payload.(listVal)
	if !ok {
		return None(), errors.NewLookupError(fmt.Sprintf("cannot index %s", v.Type()), errors.ErrNotAList)
	}
	if idx < 0 || idx >= int64(len(l)) {
		return None(), errors.NewLookupError(fmt.Sprintf("illegal index %d for list of length %d", idx, len(l)), errors.ErrIndexOutOfRange)
	}
	return l[idx].Clone(), nil
}

// Contains reports whether any element of the list equals needle.
func (v AnyValue) Contains(needle AnyValue) (bool, error) {
	l, ok := v.payload.(listVal)
	if !ok {
		return false, errors.NewLookupError(fmt.Sprintf("cannot search %s", v.Type()), errors.ErrNotAList)
	}
	for _, e := range l {
		if Equal(e, needle) {
			return true, nil
		}
	}
	return false, nil
}

// Append returns a new list with elem moved onto the end. The element type
// follows the same last-element rule as List.
func (v AnyValue) Append(elem AnyValue) (AnyValue, error) {
	l, ok := v.payload.(listVal)
	if !ok {
		return None(), errors.NewLookupError(fmt.Sprintf("cannot append to %s", v.Type()), errors.ErrNotAList)
	}
	out := make([]AnyValue, len(l), len(l)+1)
	copy(out, l)
	out = append(out, elem)
	return List(out).WithPtrDepth(v.typ.PtrDepth), nil
}
