package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianrastall/jsontool/internal/errors"
)

func TestParseString_SimpleObject(t *testing.T) {
	value, err := ParseString(`{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`)
	require.NoError(t, err)

	obj, ok := value.(*orderedmap.OrderedMap)
	require.True(t, ok, "root should be an ordered object, got %T", value)

	assert.Equal(t, []string{"name", "age", "isStudent", "city"}, obj.Keys(), "keys should keep insertion order")

	name, ok := obj.Get("name")
	require.True(t, ok)
	assert.Equal(t, "John Doe", name)

	age, ok := obj.Get("age")
	require.True(t, ok)
	assert.Equal(t, json.Number("30"), age)

	city, ok := obj.Get("city")
	require.True(t, ok)
	assert.Nil(t, city)
}

func TestParseString_SimpleArray(t *testing.T) {
	value, err := ParseString(`[1, "test", true, null, 3.14]`)
	require.NoError(t, err)

	arr, ok := value.([]interface{})
	require.True(t, ok, "root should be an array, got %T", value)
	assert.Equal(t, []interface{}{json.Number("1"), "test", true, nil, json.Number("3.14")}, arr)
}

func TestParseString_PrimitiveRoots(t *testing.T) {
	tests := []struct {
		input string
		want  interface{}
	}{
		{`"hello"`, "hello"},
		{`42`, json.Number("42")},
		{`true`, true},
		{`null`, nil},
	}
	for _, tc := range tests {
		value, err := ParseString(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, value, "input %q", tc.input)
	}
}

func TestParseString_NumberTextPreserved(t *testing.T) {
	value, err := ParseString(`{"price": 1.50, "big": 123456789012345678901234567890}`)
	require.NoError(t, err)

	obj := value.(*orderedmap.OrderedMap)
	price, _ := obj.Get("price")
	assert.Equal(t, json.Number("1.50"), price, "number source text should survive parsing")
	big, _ := obj.Get("big")
	assert.Equal(t, json.Number("123456789012345678901234567890"), big)
}

func TestParseString_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\n"} {
		_, err := ParseString(input)
		require.Error(t, err)
		te := errors.Normalize(err)
		assert.Equal(t, errors.TypeSyntax, te.Type)
	}
}

func TestParseString_SyntaxErrorLocation(t *testing.T) {
	_, err := ParseString(`{"a": }`)
	require.Error(t, err)

	te := errors.Normalize(err)
	assert.Equal(t, errors.TypeSyntax, te.Type)
	assert.Equal(t, 1, te.Line)
	assert.GreaterOrEqual(t, te.Column, 6, "column should point at or before the offending token")
	assert.LessOrEqual(t, te.Column, 8)
	assert.NotEmpty(t, te.Message)
}

func TestParseString_SyntaxErrorMultiline(t *testing.T) {
	_, err := ParseString("{\n  \"a\": 1,\n  \"b\": !\n}")
	require.Error(t, err)

	te := errors.Normalize(err)
	assert.Equal(t, errors.TypeSyntax, te.Type)
	assert.Equal(t, 3, te.Line)
	assert.Greater(t, te.Column, 0)
}

func TestParseString_UnexpectedEnd(t *testing.T) {
	_, err := ParseString(`{"a": [1, 2`)
	require.Error(t, err)

	te := errors.Normalize(err)
	assert.Equal(t, errors.TypeSyntax, te.Type)
	assert.Greater(t, te.Line, 0)
}

func TestParseString_TrailingData(t *testing.T) {
	_, err := ParseString(`{"a": 1} {"b": 2}`)
	require.Error(t, err)

	te := errors.Normalize(err)
	assert.Equal(t, errors.TypeSyntax, te.Type)
}

func TestParseString_RejectsRelaxedJSON(t *testing.T) {
	inputs := []string{
		`{"a": 1,}`,          // trailing comma
		`{// comment
		"a": 1}`, // comment
		`{'a': 1}`,  // single quotes
		`{a: 1}`,    // bare key
		`[1, 2, 3,]`, // trailing comma in array
	}
	for _, input := range inputs {
		_, err := ParseString(input)
		assert.Error(t, err, "input %q should be rejected", input)
	}
}

func TestParseString_DeepNesting(t *testing.T) {
	depth := 2000
	input := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	_, err := ParseString(input)
	require.NoError(t, err, "nesting below the parser guard should parse")
}

func TestParseString_ExceedsParserGuard(t *testing.T) {
	depth := maxParseDepth + 5
	input := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	_, err := ParseString(input)
	require.Error(t, err)

	te := errors.Normalize(err)
	assert.Equal(t, errors.TypeProcessing, te.Type)
	assert.Contains(t, te.Message, "nesting depth")
}

func TestParseLines_Basic(t *testing.T) {
	input := "{\"a\": 1}\n{\"b\": 2}\n[3, 4]"
	lines, err := ParseLines(input)
	require.NoError(t, err)
	assert.Equal(t, 3, lines.Count)
	require.Len(t, lines.Records, 3)

	first, ok := lines.Records[0].(*orderedmap.OrderedMap)
	require.True(t, ok)
	a, _ := first.Get("a")
	assert.Equal(t, json.Number("1"), a)
}

func TestParseLines_SkipsBlankLines(t *testing.T) {
	input := "\n{\"a\": 1}\n\n   \n{\"b\": 2}\n\n"
	lines, err := ParseLines(input)
	require.NoError(t, err)
	assert.Equal(t, 2, lines.Count)
}

func TestParseLines_CRLF(t *testing.T) {
	input := "{\"a\": 1}\r\n{\"b\": 2}\r\n"
	lines, err := ParseLines(input)
	require.NoError(t, err)
	assert.Equal(t, 2, lines.Count)
}

func TestParseLines_FailFastWithLineNumber(t *testing.T) {
	input := "{\"a\": 1}\n{bad}\n{\"c\": 3}"
	_, err := ParseLines(input)
	require.Error(t, err)

	te := errors.Normalize(err)
	assert.Equal(t, errors.TypeSyntax, te.Type)
	assert.Equal(t, 2, te.Line, "line field should carry the failing line number")
	assert.Contains(t, te.Message, "line 2", "message should embed the line number")
}

func TestParseLines_EmptyInput(t *testing.T) {
	_, err := ParseLines("  \n  ")
	require.Error(t, err)
	assert.Equal(t, errors.TypeSyntax, errors.Normalize(err).Type)
}

func TestLocateInMessage(t *testing.T) {
	text := "{\n  \"a\": 1,\n  \"b\": 2\n}"

	line, col := LocateInMessage(text, "unexpected token at line 3, column 5")
	assert.Equal(t, 3, line)
	assert.Equal(t, 5, col)

	line, col = LocateInMessage(text, "unexpected token in JSON at position 14")
	assert.Equal(t, 3, line)
	assert.Equal(t, 3, col)

	line, col = LocateInMessage(text, "something went wrong")
	assert.Zero(t, line, "no position should ever be fabricated")
	assert.Zero(t, col)
}
