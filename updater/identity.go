package updater

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
)

// identity is an item's identifying value, remembering whether the field was present.
type identity struct {
	present bool
	value   any
}

func idOf(item Item, field string) identity {
	v, ok := item[field]
	return identity{present: ok, value: v}
}

// elementID reads field from a collection element. Non-object elements have no id.
func elementID(el any, field string) identity {
	m, ok := el.(map[string]any)
	if !ok {
		return identity{}
	}
	return idOf(m, field)
}

// matches reports whether two identities name the same item. Two absent ids
// match; numbers compare by value regardless of their Go type, integers exactly.
func (a identity) matches(b identity) bool {
	if a.present != b.present {
		return false
	}
	if !a.present {
		return true
	}
	return sameValue(a.value, b.value)
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if na, ok := numberOf(a); ok {
		nb, ok := numberOf(b)
		return ok && na.equal(nb)
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// number is a numeric id. Integers are held exactly; f is used only when
// the value is a true float.
type number struct {
	i     *big.Int
	f     float64
	isInt bool
}

func (a number) equal(b number) bool {
	switch {
	case a.isInt && b.isInt:
		return a.i.Cmp(b.i) == 0
	case !a.isInt && !b.isInt:
		return a.f == b.f
	case a.isInt:
		return intEqualsFloat(a.i, b.f)
	default:
		return intEqualsFloat(b.i, a.f)
	}
}

// intEqualsFloat compares exactly; a float with a fractional part never
// equals an integer.
func intEqualsFloat(i *big.Int, f float64) bool {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return false
	}
	fi, _ := big.NewFloat(f).Int(nil)
	return i.Cmp(fi) == 0
}

func numberOf(v any) (number, bool) {
	if n, ok := v.(json.Number); ok {
		if i, ok := new(big.Int).SetString(n.String(), 10); ok {
			return number{i: i, isInt: true}, true
		}
		f, err := n.Float64()
		return number{f: f}, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: big.NewInt(rv.Int()), isInt: true}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{i: new(big.Int).SetUint64(rv.Uint()), isInt: true}, true
	case reflect.Float32, reflect.Float64:
		return number{f: rv.Float()}, true
	}
	return number{}, false
}
