// Package schema validates parsed JSON values against JSON Schema
// documents. Keyword semantics and draft handling are delegated to the
// jsonschema engine; this package turns its cause tree into a flat,
// ordered violation list.
package schema

import (
	stderrors "errors"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ianrastall/jsontool/internal/errors"
	"github.com/ianrastall/jsontool/internal/models"
	"github.com/ianrastall/jsontool/internal/parser"
)

// Violation is one schema violation row.
type Violation struct {
	Index        int
	InstancePath string
	SchemaPath   string
	Keyword      string
	Message      string
}

// Result is the outcome of a schema check. Violations is empty when
// Valid is true, and lists every violation (not just the first) when
// false, in engine order.
type Result struct {
	Valid      bool
	Violations []Violation
}

// Validate checks value against schemaText. A schema document that is
// not valid JSON yields a schemaSyntax error with a derived position; a
// schema that fails to compile yields a schema-tagged compilation
// error. Instance violations are returned in the Result, not as an
// error.
func Validate(value models.Value, schemaText string) (*Result, error) {
	// Parse the schema ourselves first so malformed documents get the
	// same positioned syntax errors as malformed input.
	if _, err := parser.ParseString(schemaText); err != nil {
		te := errors.Normalize(err)
		return nil, errors.NewSchemaSyntaxError(te.Message, te.Line, te.Column)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schemaText)); err != nil {
		return nil, errors.NewSchemaError("Schema Compilation Error: "+err.Error(), "")
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, errors.NewSchemaError("Schema Compilation Error: "+err.Error(), "")
	}

	err = compiled.Validate(models.Plain(value))
	if err == nil {
		return &Result{Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !stderrors.As(err, &ve) {
		return nil, errors.NewProcessingError("schema validation failed: "+err.Error(), err)
	}

	result := &Result{}
	collect(ve, result)
	for i := range result.Violations {
		result.Violations[i].Index = i + 1
	}
	return result, nil
}

// collect flattens the engine's cause tree into leaf violations.
func collect(ve *jsonschema.ValidationError, result *Result) {
	if len(ve.Causes) == 0 {
		result.Violations = append(result.Violations, Violation{
			InstancePath: instancePath(ve.InstanceLocation),
			SchemaPath:   ve.KeywordLocation,
			Keyword:      keyword(ve.KeywordLocation),
			Message:      ve.Message,
		})
		return
	}
	for _, cause := range ve.Causes {
		collect(cause, result)
	}
}

// instancePath renders an instance location as a JSON Pointer, with "/"
// standing in for the document root.
func instancePath(location string) string {
	if location == "" {
		return "/"
	}
	return location
}

// keyword extracts the failing keyword from a keyword location.
func keyword(location string) string {
	parts := strings.Split(location, "/")
	return parts[len(parts)-1]
}
