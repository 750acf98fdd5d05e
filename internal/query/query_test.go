package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianrastall/jsontool/internal/errors"
	"github.com/ianrastall/jsontool/internal/formatter"
	"github.com/ianrastall/jsontool/internal/parser"
)

func TestApply_BlankIsPassthrough(t *testing.T) {
	value, err := parser.ParseString(`{"z": 1, "a": 2}`)
	require.NoError(t, err)

	for _, expr := range []string{"", "   ", "\t"} {
		result, applied, err := Apply(value, expr)
		require.NoError(t, err)
		assert.False(t, applied)

		text, err := formatter.Serialize(result, "")
		require.NoError(t, err)
		assert.Equal(t, `{"z":1,"a":2}`, text, "passthrough must not disturb key order")
	}
}

func TestApply_Extraction(t *testing.T) {
	value, err := parser.ParseString(`{"users": [{"name": "ann"}, {"name": "bob"}]}`)
	require.NoError(t, err)

	result, applied, err := Apply(value, "users[*].name")
	require.NoError(t, err)
	assert.True(t, applied)

	text, err := formatter.Serialize(result, "")
	require.NoError(t, err)
	assert.Equal(t, `["ann","bob"]`, text)
}

func TestApply_ObjectResultKeysSorted(t *testing.T) {
	value, err := parser.ParseString(`{"outer": {"z": 1, "a": 2}}`)
	require.NoError(t, err)

	result, _, err := Apply(value, "outer")
	require.NoError(t, err)

	text, err := formatter.Serialize(result, "")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"z":1}`, text, "query results are rebuilt with sorted keys")
}

func TestApply_NoResult(t *testing.T) {
	value, err := parser.ParseString(`{"a": 1}`)
	require.NoError(t, err)

	_, applied, err := Apply(value, "missing")
	require.Error(t, err)
	assert.True(t, applied)

	te := errors.Normalize(err)
	assert.Equal(t, errors.TypeQuery, te.Type)
	assert.Contains(t, te.Message, "no result")
}

func TestApply_InvalidExpression(t *testing.T) {
	value, err := parser.ParseString(`{"a": 1}`)
	require.NoError(t, err)

	_, _, err = Apply(value, "a[")
	require.Error(t, err)
	assert.Equal(t, errors.TypeQuery, errors.Normalize(err).Type)
}
