package value

import (
	"fmt"
	"sort"

	"github.com/mcncl/anyrt/internal/errors"
)

// AnyObject is a reflective, dynamically keyed record. It owns every value
// stored in it: Insert stores a deep copy and Take hands out a deep copy, so
// callers never share state with the store.
//
// AnyObject is not safe for concurrent use.
type AnyObject struct {
	fields map[string]AnyValue
}

// NewAnyObject returns an empty object.
func NewAnyObject() *AnyObject {
	return &AnyObject{fields: make(map[string]AnyValue)}
}

// Insert stores a copy of v under key, replacing any previous binding.
func (o *AnyObject) Insert(key string, v AnyValue) {
	if o.fields == nil {
		o.fields = make(map[string]AnyValue)
	}
	o.fields[key] = v.Clone()
}

// Take returns a copy of the value stored under key. A missing key yields
// None, which is indistinguishable from a stored None; use Lookup or Get when
// the difference matters.
func (o *AnyObject) Take(key string) AnyValue {
	v, _ := o.Lookup(key)
	return v
}

// Lookup returns a copy of the value stored under key and whether the key
// was present.
func (o *AnyObject) Lookup(key string) (AnyValue, bool) {
	if o == nil {
		return None(), false
	}
	v, ok := o.fields[key]
	if !ok {
		return None(), false
	}
	return v.Clone(), true
}

// Get is Lookup with a lookup error for missing keys.
func (o *AnyObject) Get(key string) (AnyValue, error) {
	v, ok := o.Lookup(key)
	if !ok {
		return None(), errors.NewLookupError(fmt.Sprintf("key %q not found", key), errors.ErrKeyNotFound)
	}
	return v, nil
}

// Has reports whether key is bound.
func (o *AnyObject) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.fields[key]
	return ok
}

// Delete removes key and reports whether it was bound.
func (o *AnyObject) Delete(key string) bool {
	if !o.Has(key) {
		return false
	}
	delete(o.fields, key)
	return true
}

// Keys returns a freshly allocated, sorted slice of all keys.
func (o *AnyObject) Keys() []string {
	if o == nil {
		return []string{}
	}
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o *AnyObject) Len() int {
	if o == nil {
		return 0
	}
	return len(o.fields)
}

// Clone returns a deep copy of o.
func (o *AnyObject) Clone() *AnyObject {
	out := NewAnyObject()
	if o == nil {
		return out
	}
	for k, v := range o.fields {
		out.fields[k] = v.Clone()
	}
	return out
}

// Equal reports whether both objects bind the same keys to equal values.
func (o *AnyObject) Equal(other *AnyObject) bool {
	if o.Len() != other.Len() {
		return false
	}
	if o == nil || other == nil {
		return true
	}
	for k, v := range o.fields {
		ov, ok := other.fields[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

func (o *AnyObject) String() string {
	return Box(o).String()
}
