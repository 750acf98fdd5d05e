package models

import (
	"encoding/json"
	"sort"

	"github.com/iancoleman/orderedmap"
)

// TypeName reports the display name of a value's JSON type.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case *orderedmap.OrderedMap, orderedmap.OrderedMap, map[string]interface{}:
		return "Object"
	case []interface{}:
		return "Array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return "unknown"
	}
}

// IsPrimitive reports whether v is neither an object nor an array.
func IsPrimitive(v Value) bool {
	switch v.(type) {
	case *orderedmap.OrderedMap, orderedmap.OrderedMap, map[string]interface{}, []interface{}:
		return false
	}
	return true
}

// Plain converts v into the plain map/slice/float64 shape the query and
// schema engines expect. Ordered objects become map[string]interface{},
// so key order is not preserved; numbers lose their source text.
func Plain(v Value) Value {
	switch t := v.(type) {
	case *orderedmap.OrderedMap:
		keys := t.Keys()
		m := make(map[string]interface{}, len(keys))
		for _, k := range keys {
			val, _ := t.Get(k)
			m[k] = Plain(val)
		}
		return m
	case orderedmap.OrderedMap:
		return Plain(&t)
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = Plain(val)
		}
		return m
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	default:
		return v
	}
}

// FromPlain rebuilds an ordered value from plain engine output. Plain
// maps carry no order, so keys come back alphabetically sorted to keep
// serialization deterministic.
func FromPlain(v Value) Value {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := orderedmap.New()
		for _, k := range keys {
			o.Set(k, FromPlain(t[k]))
		}
		return o
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = FromPlain(e)
		}
		return out
	default:
		return v
	}
}
