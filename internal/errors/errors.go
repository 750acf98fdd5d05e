package errors

import (
	"errors"
	"fmt"

	"github.com/ianrastall/jsontool/internal/models"
)

// ErrorType categorizes pipeline failures.
type ErrorType string

const (
	// TypeSyntax marks malformed JSON or JSONL input.
	TypeSyntax ErrorType = "syntax"
	// TypeSchemaSyntax marks a schema document that is not valid JSON.
	TypeSchemaSyntax ErrorType = "schemaSyntax"
	// TypeSchema marks input that violates the supplied schema, or a
	// schema that fails to compile.
	TypeSchema ErrorType = "schema"
	// TypeQuery marks an invalid JMESPath expression or one that yields
	// no usable result.
	TypeQuery ErrorType = "query"
	// TypeProcessing marks everything else: unsupported mode,
	// serialization failure, internal invariant violation.
	TypeProcessing ErrorType = "processing"
)

// Title returns the display heading for an error category.
func (t ErrorType) Title() string {
	switch t {
	case TypeSyntax:
		return "JSON Syntax Error"
	case TypeSchemaSyntax:
		return "Schema Syntax Error"
	case TypeSchema:
		return "Schema Validation Error"
	case TypeQuery:
		return "Query Error"
	default:
		return "Processing Error"
	}
}

// Source names which job input the category refers to.
func (t ErrorType) Source() string {
	switch t {
	case TypeSchemaSyntax, TypeSchema:
		return "schema"
	case TypeQuery:
		return "query"
	default:
		return "input"
	}
}

// ToolError is the canonical pipeline error. Line and Column are 1-based
// and zero when no position could be derived. Stats and Report ride
// along when a later stage failed after structural analysis had already
// succeeded, so callers can still show counts next to the failure.
type ToolError struct {
	Type    ErrorType
	Message string
	Line    int
	Column  int
	Stats   *models.Stats
	Report  string
	Err     error
}

// Error implements error interface
func (e *ToolError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("%s: %s (line %d, column %d)", e.Type, e.Message, e.Line, e.Column)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d)", e.Type, e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison by category
func (e *ToolError) Is(target error) bool {
	t, ok := target.(*ToolError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithStats attaches partial stats to e and returns it.
func (e *ToolError) WithStats(s *models.Stats) *ToolError {
	e.Stats = s
	return e
}

// NewSyntaxError creates a new error for malformed JSON input
func NewSyntaxError(message string, line, column int) *ToolError {
	return &ToolError{
		Type:    TypeSyntax,
		Message: message,
		Line:    line,
		Column:  column,
	}
}

// NewSchemaSyntaxError creates a new error for a malformed schema document
func NewSchemaSyntaxError(message string, line, column int) *ToolError {
	return &ToolError{
		Type:    TypeSchemaSyntax,
		Message: message,
		Line:    line,
		Column:  column,
	}
}

// NewSchemaError creates a new error for schema violations or a schema
// that fails to compile; report carries the itemized violation text
func NewSchemaError(message, report string) *ToolError {
	return &ToolError{
		Type:    TypeSchema,
		Message: message,
		Report:  report,
	}
}

// NewQueryError creates a new error related to query evaluation
func NewQueryError(message string, err error) *ToolError {
	return &ToolError{
		Type:    TypeQuery,
		Message: message,
		Err:     err,
	}
}

// NewProcessingError creates a new error for internal pipeline failures
func NewProcessingError(message string, err error) *ToolError {
	return &ToolError{
		Type:    TypeProcessing,
		Message: message,
		Err:     err,
	}
}

// Normalize converts any error into a canonical *ToolError. An
// already-tagged error passes through with its position preserved only
// when it is usable; anything else is wrapped as a processing error.
// This is the single place the error shape is enforced, so every
// failure path in every mode can return loosely-typed errors.
func Normalize(err error) *ToolError {
	if err == nil {
		return nil
	}
	var te *ToolError
	if errors.As(err, &te) {
		if te.Line < 0 {
			te.Line = 0
		}
		if te.Column < 0 {
			te.Column = 0
		}
		if te.Message == "" {
			te.Message = "unknown error"
		}
		if !known(te.Type) {
			te.Type = TypeProcessing
		}
		return te
	}
	return &ToolError{Type: TypeProcessing, Message: err.Error(), Err: err}
}

func known(t ErrorType) bool {
	switch t {
	case TypeSyntax, TypeSchemaSyntax, TypeSchema, TypeQuery, TypeProcessing:
		return true
	}
	return false
}

// Info converts err into the wire shape carried by job responses.
func Info(err error) *models.ErrorInfo {
	te := Normalize(err)
	if te == nil {
		return nil
	}
	return &models.ErrorInfo{
		Type:    string(te.Type),
		Title:   te.Type.Title(),
		Source:  te.Type.Source(),
		Message: te.Message,
		Line:    te.Line,
		Column:  te.Column,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	te := Normalize(err)
	if te == nil {
		return ""
	}
	if te.Line > 0 && te.Column > 0 {
		return fmt.Sprintf("%s: %s (line %d, column %d)", te.Type.Title(), te.Message, te.Line, te.Column)
	}
	if te.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d)", te.Type.Title(), te.Message, te.Line)
	}
	return fmt.Sprintf("%s: %s", te.Type.Title(), te.Message)
}
