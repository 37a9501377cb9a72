// Package updater builds the pure functions that apply an add, update or
// remove to a cached value.
//
// The cached value is either a collection (a list of items) or a singleton.
// ValueOf decides which once; the functions returned by For dispatch on that
// tag. Functions never modify their inputs: collections are rebuilt, merged
// items are new maps, and untouched elements are reused as-is.
package updater

import (
	"reflect"

	"github.com/jonwraymond/gqlpatch/operation"
	"github.com/jonwraymond/gqlpatch/pathutil"
)

// Item is one entity as returned by a query or mutation.
type Item = map[string]any

// typenameField is never overwritten by an update merge.
const typenameField = "__typename"

// Shape tags a Value.
type Shape int

const (
	// Singleton holds a single item (or no value).
	Singleton Shape = iota
	// Collection holds a list of items.
	Collection
)

// Value is a cached value tagged as a collection or a singleton.
type Value struct {
	Shape Shape
	Items []any // set when Shape is Collection
	Item  any   // set when Shape is Singleton
}

// CollectionOf wraps items as a collection.
func CollectionOf(items []any) Value {
	return Value{Shape: Collection, Items: items}
}

// SingletonOf wraps v as a singleton.
func SingletonOf(v any) Value {
	return Value{Shape: Singleton, Item: v}
}

// ValueOf tags v. Any slice becomes a collection; typed slices are converted
// to []any sharing the same elements.
func ValueOf(v any) Value {
	if !pathutil.IsSequence(v) {
		return SingletonOf(v)
	}
	if items, ok := v.([]any); ok {
		return CollectionOf(items)
	}
	rv := reflect.ValueOf(v)
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return CollectionOf(items)
}

// Unwrap returns the plain value: the list for a collection, the item for a singleton.
func (v Value) Unwrap() any {
	if v.Shape == Collection {
		return v.Items
	}
	return v.Item
}

// Func applies an operation to current using incoming. incoming may be nil.
type Func func(current Value, incoming Item) Value

// Apply tags current, applies f and unwraps the result.
func (f Func) Apply(current any, incoming Item) any {
	return f(ValueOf(current), incoming).Unwrap()
}

// For returns the update function for kind, matching items on idField.
// Auto and unknown kinds return the identity function.
func For(kind operation.Kind, idField string) Func {
	switch kind {
	case operation.Add:
		return func(current Value, incoming Item) Value {
			if current.Shape != Collection {
				if incoming == nil {
					return SingletonOf(nil)
				}
				return SingletonOf(incoming)
			}
			if incoming == nil {
				return CollectionOf(copyItems(current.Items))
			}
			want := idOf(incoming, idField)
			out := make([]any, 0, len(current.Items)+1)
			for _, el := range current.Items {
				if !want.matches(elementID(el, idField)) {
					out = append(out, el)
				}
			}
			return CollectionOf(append(out, incoming))
		}

	case operation.Update:
		return func(current Value, incoming Item) Value {
			if current.Shape != Collection {
				old, ok := current.Item.(map[string]any)
				if !ok || old == nil {
					return current
				}
				return SingletonOf(mergeExistingKeys(old, incoming))
			}
			if incoming == nil {
				return CollectionOf(copyItems(current.Items))
			}
			want := idOf(incoming, idField)
			out := make([]any, len(current.Items))
			for i, el := range current.Items {
				old, ok := el.(map[string]any)
				if ok && want.matches(elementID(el, idField)) {
					out[i] = mergeExistingKeys(old, incoming)
					continue
				}
				out[i] = el
			}
			return CollectionOf(out)
		}

	case operation.Remove:
		return func(current Value, incoming Item) Value {
			if current.Shape != Collection {
				return SingletonOf(nil)
			}
			if incoming == nil {
				return CollectionOf(copyItems(current.Items))
			}
			want := idOf(incoming, idField)
			out := make([]any, 0, len(current.Items))
			for _, el := range current.Items {
				if !want.matches(elementID(el, idField)) {
					out = append(out, el)
				}
			}
			return CollectionOf(out)
		}

	default:
		return func(current Value, _ Item) Value {
			return current
		}
	}
}

// mergeExistingKeys returns a copy of old where every key old already has,
// other than __typename, takes incoming's value when incoming has that key.
func mergeExistingKeys(old, incoming Item) Item {
	out := pathutil.ShallowCopy(old)
	for key := range old {
		if key == typenameField {
			continue
		}
		if v, ok := incoming[key]; ok {
			out[key] = v
		}
	}
	return out
}

func copyItems(items []any) []any {
	out := make([]any, len(items))
	copy(out, items)
	return out
}
