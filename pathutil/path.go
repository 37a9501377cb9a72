package pathutil

import (
	"encoding/json"
	"reflect"
	"sort"
)

// IsObject reports whether v is a non-nil object or list.
func IsObject(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(map[string]any); ok {
		return true
	}
	return IsSequence(v)
}

// IsSequence reports whether v is a list. Any slice kind counts except []byte.
func IsSequence(v any) bool {
	switch v.(type) {
	case nil, []byte, json.RawMessage:
		return false
	case []any:
		return true
	}
	return reflect.ValueOf(v).Kind() == reflect.Slice
}

// IsFalsy reports whether v counts as "no value" when walking a path:
// nil, false, numeric zero, NaN and the empty string. Lists, nil ones
// included, are never falsy: a nil list is an empty collection.
func IsFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && (f == 0 || f != f)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || f != f
	case reflect.Map, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// FindCollectionPath returns the key path to the first list found by a
// depth-first walk of node, with prefix prepended.
//
// If node itself is a list the prefix is returned unchanged. Object keys are
// visited in sorted order and lists are not descended into. The second result
// is false when node is neither an object nor a list, or holds no list.
func FindCollectionPath(node any, prefix []string) ([]string, bool) {
	if IsSequence(node) {
		return prefix, true
	}
	obj, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, key := range sortedKeys(obj) {
		next := make([]string, len(prefix), len(prefix)+1)
		copy(next, prefix)
		if path, ok := FindCollectionPath(obj[key], append(next, key)); ok {
			return path, true
		}
	}
	return nil, false
}

// GetValueByPath walks path from obj and returns the value found.
//
// obj is returned as-is when path is empty or obj is not an object. Any falsy
// value met along the way, including at the final key, yields nil: a zero or
// empty string at the end of the path reads the same as a missing key.
func GetValueByPath(obj any, path []string) any {
	if !IsObject(obj) || len(path) == 0 {
		return obj
	}
	acc := obj
	for _, key := range path {
		m, ok := acc.(map[string]any)
		if !ok {
			return nil
		}
		val := m[key]
		if IsFalsy(val) {
			return nil
		}
		acc = val
	}
	return acc
}

// SetValueByPath assigns value at path inside obj, mutating the objects it
// walks through, and returns obj. Intermediate objects must already exist;
// a missing one makes the call a no-op.
func SetValueByPath(obj map[string]any, path []string, value any) map[string]any {
	if obj == nil || len(path) == 0 {
		return obj
	}
	acc := obj
	for _, key := range path[:len(path)-1] {
		next, ok := acc[key].(map[string]any)
		if !ok {
			return obj
		}
		acc = next
	}
	acc[path[len(path)-1]] = value
	return obj
}

// SetIn returns a copy of root with value stored at path. root and every
// object on the path are shallow-copied; all other branches are shared with
// the input. Missing or non-object intermediates are replaced by new objects.
func SetIn(root map[string]any, path []string, value any) map[string]any {
	out := ShallowCopy(root)
	if len(path) == 0 {
		return out
	}
	key := path[0]
	if len(path) == 1 {
		out[key] = value
		return out
	}
	child, _ := out[key].(map[string]any)
	out[key] = SetIn(child, path[1:], value)
	return out
}

// ShallowCopy returns a new map holding the same entries as m.
func ShallowCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Pick returns the entries of obj whose keys are listed in keys. Keys absent
// from obj are skipped; a nil obj yields an empty map.
func Pick(obj map[string]any, keys []string) map[string]any {
	result := make(map[string]any, len(keys))
	if obj == nil {
		return result
	}
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			result[key] = v
		}
	}
	return result
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
