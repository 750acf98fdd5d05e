package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ianrastall/jsontool/internal/errors"
	"github.com/ianrastall/jsontool/internal/parser"
)

const ageSchema = `{
	"type": "object",
	"properties": {
		"age": {"type": "integer"}
	}
}`

func TestValidate_Passes(t *testing.T) {
	value, err := parser.ParseString(`{"age": 42}`)
	require.NoError(t, err)

	result, err := Validate(value, ageSchema)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Violations)
}

func TestValidate_SingleViolation(t *testing.T) {
	value, err := parser.ParseString(`{"age": "old"}`)
	require.NoError(t, err)

	result, err := Validate(value, ageSchema)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)

	v := result.Violations[0]
	assert.Equal(t, 1, v.Index)
	assert.Equal(t, "/age", v.InstancePath)
	assert.Contains(t, v.SchemaPath, "age")
	assert.NotEmpty(t, v.Message)
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	schemaText := `{
		"type": "object",
		"properties": {
			"age": {"type": "integer"},
			"name": {"type": "string"}
		}
	}`
	value, err := parser.ParseString(`{"age": "old", "name": 7}`)
	require.NoError(t, err)

	result, err := Validate(value, schemaText)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Len(t, result.Violations, 2, "validation must not stop at the first violation")

	for i, v := range result.Violations {
		assert.Equal(t, i+1, v.Index)
	}
}

func TestValidate_RootViolation(t *testing.T) {
	value, err := parser.ParseString(`[1, 2]`)
	require.NoError(t, err)

	result, err := Validate(value, `{"type": "object"}`)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "/", result.Violations[0].InstancePath, "root violations use / as their instance path")
}

func TestValidate_MalformedSchema(t *testing.T) {
	value, err := parser.ParseString(`{"age": 42}`)
	require.NoError(t, err)

	_, err = Validate(value, `{"type": }`)
	require.Error(t, err)

	te := errors.Normalize(err)
	assert.Equal(t, errors.TypeSchemaSyntax, te.Type)
	assert.Greater(t, te.Line, 0, "schema syntax errors carry a position")
}

func TestValidate_CompilationError(t *testing.T) {
	value, err := parser.ParseString(`{"age": 42}`)
	require.NoError(t, err)

	_, err = Validate(value, `{"type": "nosuchtype"}`)
	require.Error(t, err)

	te := errors.Normalize(err)
	assert.Equal(t, errors.TypeSchema, te.Type)
	assert.Contains(t, te.Message, "Schema Compilation Error")
}
