// Package formatter serializes JSON values and applies the
// output-shaping transforms: indentation, deep key sorting, and key
// case conversion.
package formatter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/iancoleman/strcase"

	"github.com/ianrastall/jsontool/internal/errors"
	"github.com/ianrastall/jsontool/internal/models"
)

const (
	// DefaultIndentWidth is used when the indent option is missing or
	// unparseable.
	DefaultIndentWidth = 2
	// MaxIndentWidth caps the indent option.
	MaxIndentWidth = 10
)

// ResolveIndent maps the user-facing indent option onto the literal
// indent string: "tab" yields a tab, "0" yields compact output, and
// anything else is read as a space count clamped to MaxIndentWidth,
// defaulting to DefaultIndentWidth on any invalid value.
func ResolveIndent(option string) string {
	option = strings.TrimSpace(option)
	if strings.EqualFold(option, "tab") {
		return "\t"
	}
	width, err := strconv.Atoi(option)
	if err != nil || width < 0 {
		width = DefaultIndentWidth
	}
	if width > MaxIndentWidth {
		width = MaxIndentWidth
	}
	return strings.Repeat(" ", width)
}

// Serialize renders value with the given indent string, or compactly
// when indent is empty. Object keys keep their model order.
func Serialize(value models.Value, indent string) (string, error) {
	var (
		data []byte
		err  error
	)
	if indent == "" {
		data, err = json.Marshal(value)
	} else {
		data, err = json.MarshalIndent(value, "", indent)
	}
	if err != nil {
		return "", errors.NewProcessingError("failed to serialize value: "+err.Error(), err)
	}
	return string(data), nil
}

// CompactLine renders value as a single compact JSON line.
func CompactLine(value models.Value) (string, error) {
	return Serialize(value, "")
}

// SortKeysDeep returns a copy of value with object keys sorted
// alphabetically at every level. Array element order is preserved, and
// key values are only recursed into, never reordered themselves.
func SortKeysDeep(value models.Value) models.Value {
	switch t := value.(type) {
	case *orderedmap.OrderedMap:
		keys := append([]string(nil), t.Keys()...)
		sort.Strings(keys)
		out := orderedmap.New()
		for _, k := range keys {
			v, _ := t.Get(k)
			out.Set(k, SortKeysDeep(v))
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, v := range t {
			out[i] = SortKeysDeep(v)
		}
		return out
	default:
		return value
	}
}

// ConvertKeys returns a copy of value with every object key renamed
// through convert. When two keys collapse to the same name the later
// one wins.
func ConvertKeys(value models.Value, convert func(string) string) models.Value {
	switch t := value.(type) {
	case *orderedmap.OrderedMap:
		out := orderedmap.New()
		for _, k := range t.Keys() {
			v, _ := t.Get(k)
			out.Set(convert(k), ConvertKeys(v, convert))
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, v := range t {
			out[i] = ConvertKeys(v, convert)
		}
		return out
	default:
		return value
	}
}

// KeyCaser returns the key converter for a named case style, or nil for
// a blank name (no conversion).
func KeyCaser(name string) (func(string) string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return nil, nil
	case "camel":
		return strcase.ToLowerCamel, nil
	case "pascal":
		return strcase.ToCamel, nil
	case "snake":
		return strcase.ToSnake, nil
	case "kebab":
		return strcase.ToKebab, nil
	case "screaming-snake":
		return strcase.ToScreamingSnake, nil
	}
	return nil, errors.NewProcessingError(fmt.Sprintf("unknown key case %q", name), nil)
}
