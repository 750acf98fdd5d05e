// Package parser turns raw text into JSON values with insertion-ordered
// objects, for both single documents and line-delimited JSON (JSONL).
// Failures are reported as tagged syntax errors carrying a best-effort
// 1-based line and column.
package parser

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/ianrastall/jsontool/internal/errors"
	"github.com/ianrastall/jsontool/internal/models"
)

// maxParseDepth bounds decoder recursion. It sits well above the
// analyzer's limit, so the analyzer's limit is the one callers observe
// for deeply nested but otherwise legal input.
const maxParseDepth = 10000

// ParseString parses text as a single JSON document. Trailing commas,
// comments, and other JSON5-style relaxations are rejected. Objects
// decode as *orderedmap.OrderedMap, numbers as json.Number so their
// source text survives reformatting.
func ParseString(text string) (models.Value, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewSyntaxError("input is empty or contains only whitespace", 0, 0)
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	value, err := decodeValue(dec, 0)
	if err != nil {
		return nil, syntaxError(text, err)
	}

	// Anything after the first document is an error.
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, syntaxError(text, err)
		}
		line, col := offsetToLineCol(text, int(dec.InputOffset())-1)
		return nil, errors.NewSyntaxError(fmt.Sprintf("unexpected %v after end of JSON document", tok), line, col)
	}

	return value, nil
}

// Lines is the result of parsing line-delimited JSON.
type Lines struct {
	Records []models.Value
	Count   int
}

// ParseLines parses text as JSONL: each line is an independent, complete
// JSON document. Blank lines are skipped without producing a record.
// Parsing stops at the first bad line; the error message embeds the
// 1-based line number and the Line field is set to it.
func ParseLines(text string) (*Lines, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewSyntaxError("input is empty or contains only whitespace", 0, 0)
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	result := &Lines{}
	for i, lineText := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(lineText) == "" {
			continue
		}
		value, err := ParseString(lineText)
		if err != nil {
			te := errors.Normalize(err)
			return nil, errors.NewSyntaxError(fmt.Sprintf("line %d: %s", i+1, te.Message), i+1, te.Column)
		}
		result.Records = append(result.Records, value)
		result.Count++
	}
	return result, nil
}

// decodeValue reads one complete JSON value from dec.
func decodeValue(dec *json.Decoder, depth int) (models.Value, error) {
	if depth > maxParseDepth {
		return nil, errors.NewProcessingError(fmt.Sprintf("maximum nesting depth of %d exceeded", maxParseDepth), nil)
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		// string, bool, json.Number, or nil
		return tok, nil
	}

	switch delim {
	case '{':
		obj := orderedmap.New()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is not a string: %v", keyTok)
			}
			value, err := decodeValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		return obj, nil
	case '[':
		arr := make([]interface{}, 0)
		for dec.More() {
			value, err := decodeValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim.String())
	}
}

// syntaxError converts a decoder failure into a tagged syntax error with
// a derived position. Already-tagged errors pass through unchanged.
func syntaxError(text string, err error) error {
	var te *errors.ToolError
	if stderrors.As(err, &te) {
		return te
	}

	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		line, col := offsetToLineCol(text, len(text))
		return errors.NewSyntaxError("unexpected end of JSON input", line, col)
	}

	var syn *json.SyntaxError
	if stderrors.As(err, &syn) {
		// Offset counts bytes read when the error was detected, so the
		// offending byte sits just before it.
		line, col := offsetToLineCol(text, int(syn.Offset)-1)
		return errors.NewSyntaxError(syn.Error(), line, col)
	}

	msg := err.Error()
	line, col := LocateInMessage(text, msg)
	return errors.NewSyntaxError(msg, line, col)
}
