package value

import "strings"

// FromEnviron builds a dynamic object of string values from "KEY=value"
// pairs as returned by os.Environ. Entries without '=' bind an empty string;
// later duplicates win.
func FromEnviron(env []string) *AnyObject {
	obj := NewAnyObject()
	for _, kv := range env {
		key, val, _ := strings.Cut(kv, "=")
		if key == "" {
			continue
		}
		obj.Insert(key, String(val))
	}
	return obj
}
