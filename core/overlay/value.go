// Package overlay implements the nested configuration tree and the pure
// overlay operation that derives per-scenario effective configurations
// from one shared base configuration.
package overlay

import (
	"fmt"
	"sort"
)

// Kind represents the type of a config value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// Value is a recursive tagged-variant config value: a mapping, a
// sequence, or a scalar leaf
type Value struct {
	kind    Kind
	boolVal bool
	numVal  float64
	strVal  string
	listVal []Value
	mapVal  map[string]Value
}

// Null creates a null value
func Null() Value {
	return Value{kind: KindNull}
}

// Bool creates a boolean value
func Bool(v bool) Value {
	return Value{kind: KindBool, boolVal: v}
}

// Number creates a numeric value
func Number(v float64) Value {
	return Value{kind: KindNumber, numVal: v}
}

// String creates a string value
func String(v string) Value {
	return Value{kind: KindString, strVal: v}
}

// List creates a sequence value
func List(elements ...Value) Value {
	return Value{kind: KindList, listVal: elements}
}

// Map creates a mapping value
func Map(elements map[string]Value) Value {
	return Value{kind: KindMap, mapVal: elements}
}

// FromGo converts a plain Go value (as produced by YAML decoding) to a Value
func FromGo(v interface{}) Value {
	if v == nil {
		return Null()
	}

	switch val := v.(type) {
	case bool:
		return Bool(val)
	case int:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case float64:
		return Number(val)
	case string:
		return String(val)
	case []interface{}:
		elements := make([]Value, len(val))
		for i, e := range val {
			elements[i] = FromGo(e)
		}
		return List(elements...)
	case map[string]interface{}:
		elements := make(map[string]Value, len(val))
		for k, e := range val {
			elements[k] = FromGo(e)
		}
		return Map(elements)
	case map[interface{}]interface{}:
		elements := make(map[string]Value, len(val))
		for k, e := range val {
			elements[fmt.Sprintf("%v", k)] = FromGo(e)
		}
		return Map(elements)
	default:
		return String(fmt.Sprintf("%v", val))
	}
}

// Kind returns the value's kind
func (v Value) Kind() Kind {
	return v.kind
}

// IsMap reports whether the value is a mapping
func (v Value) IsMap() bool {
	return v.kind == KindMap
}

// AsBool returns the boolean content
func (v Value) AsBool() (bool, bool) {
	return v.boolVal, v.kind == KindBool
}

// AsFloat returns the numeric content
func (v Value) AsFloat() (float64, bool) {
	return v.numVal, v.kind == KindNumber
}

// AsString returns the string content
func (v Value) AsString() (string, bool) {
	return v.strVal, v.kind == KindString
}

// Len returns the element count for lists and maps, zero otherwise
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.listVal)
	case KindMap:
		return len(v.mapVal)
	default:
		return 0
	}
}

// Key looks up a mapping entry
func (v Value) Key(k string) (Value, bool) {
	if v.kind != KindMap {
		return Null(), false
	}
	child, ok := v.mapVal[k]
	return child, ok
}

// Index looks up a sequence element
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.listVal) {
		return Null(), false
	}
	return v.listVal[i], true
}

// Keys returns mapping keys in sorted order
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.mapVal))
	for k := range v.mapVal {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToGo converts the value back to plain Go values for serialization
func (v Value) ToGo() interface{} {
	switch v.kind {
	case KindBool:
		return v.boolVal
	case KindNumber:
		if v.numVal == float64(int64(v.numVal)) {
			return int64(v.numVal)
		}
		return v.numVal
	case KindString:
		return v.strVal
	case KindList:
		out := make([]interface{}, len(v.listVal))
		for i, e := range v.listVal {
			out[i] = e.ToGo()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.mapVal))
		for k, e := range v.mapVal {
			out[k] = e.ToGo()
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of the value
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		elements := make([]Value, len(v.listVal))
		for i, e := range v.listVal {
			elements[i] = e.Clone()
		}
		return Value{kind: KindList, listVal: elements}
	case KindMap:
		elements := make(map[string]Value, len(v.mapVal))
		for k, e := range v.mapVal {
			elements[k] = e.Clone()
		}
		return Value{kind: KindMap, mapVal: elements}
	default:
		return v
	}
}

// Equal reports deep equality
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.boolVal == other.boolVal
	case KindNumber:
		return v.numVal == other.numVal
	case KindString:
		return v.strVal == other.strVal
	case KindList:
		if len(v.listVal) != len(other.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(other.listVal[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.mapVal) != len(other.mapVal) {
			return false
		}
		for k, e := range v.mapVal {
			o, ok := other.mapVal[k]
			if !ok || !e.Equal(o) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
