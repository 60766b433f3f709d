package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/anyrt/internal/errors"
)

// SplitPath splits a dotted access path such as "users.0.name". An empty
// path addresses the value itself.
func SplitPath(path string) []string {
	if path == "" || path == "." {
		return nil
	}
	return strings.Split(strings.TrimPrefix(path, "."), ".")
}

// At walks segments from v. Dynamic and structural objects are indexed by
// key, lists by decimal index. On a dynamic object a missing key yields None
// unless strict is set, in which case it is a lookup error like every other
// failed step.
func (v AnyValue) At(segments []string, strict bool) (AnyValue, error) {
	cur := v
	for i, seg := range segments {
		where := strings.Join(segments[:i+1], ".")

		if obj, ok := cur.AsAnyObject(); ok {
			if !strict {
				cur = obj.Take(seg)
				continue
			}
			next, err := obj.Get(seg)
			if err != nil {
				return None(), errors.NewLookupError(fmt.Sprintf("key %q not found at %s", seg, where), errors.ErrKeyNotFound)
			}
			cur = next
			continue
		}

		if fields, ok := cur.AsObject(); ok {
			next, found := fields[seg]
			if !found {
				return None(), errors.NewLookupError(fmt.Sprintf("object has no field %q at %s", seg, where), errors.ErrKeyNotFound)
			}
			cur = next.Clone()
			continue
		}

		if _, err := cur.Len(); err == nil {
			idx, perr := strconv.ParseInt(seg, 10, 64)
			if perr != nil {
				return None(), errors.NewLookupError(fmt.Sprintf("list index %q at %s is not a number", seg, where), errors.ErrIndexOutOfRange)
			}
			next, err := cur.Index(idx)
			if err != nil {
				return None(), err
			}
			cur = next
			continue
		}

		return None(), errors.NewLookupError(fmt.Sprintf("cannot access %q on %s at %s", seg, cur.Type(), where), errors.ErrNotAnObject)
	}
	return cur, nil
}
