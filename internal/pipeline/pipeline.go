// Package pipeline routes jobs through the mode-specific processing
// stages: parse, optional query, optional key transforms, structural
// analysis, and serialization.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/ianrastall/jsontool/internal/analyzer"
	"github.com/ianrastall/jsontool/internal/errors"
	"github.com/ianrastall/jsontool/internal/formatter"
	"github.com/ianrastall/jsontool/internal/models"
	"github.com/ianrastall/jsontool/internal/parser"
	"github.com/ianrastall/jsontool/internal/query"
	"github.com/ianrastall/jsontool/internal/schema"
)

// Output modes reported alongside result text.
const (
	OutputJSON  = "json"
	OutputJSONL = "jsonl"
	OutputText  = "text"
)

// Result is a successful processing outcome.
type Result struct {
	Text       string
	OutputMode string
	Stats      *models.Stats
	Message    string
}

// Dispatcher runs jobs through the pipeline for their mode. It holds no
// state between jobs and is safe to reuse.
type Dispatcher struct{}

// New creates a new Dispatcher instance.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Process runs one job. Failures are tagged *errors.ToolError values,
// optionally bundling the stats computed before the failing stage.
func (d *Dispatcher) Process(rawInput string, mode models.Mode, opts models.Options) (*Result, error) {
	switch mode {
	case models.ModeFormat:
		return d.format(rawInput, opts)
	case models.ModeJSONToJSONL:
		return d.jsonToJSONL(rawInput, opts)
	case models.ModeJSONLToJSON:
		return d.jsonlToJSON(rawInput, opts)
	case models.ModeValidate:
		return d.validate(rawInput, opts)
	}
	return nil, errors.NewProcessingError(fmt.Sprintf("unsupported mode %q", mode), nil)
}

// AnalyzeInput computes live stats for raw input without running a full
// pipeline. jsonlToJson mode parses JSONL first; every other mode
// parses a single document. A parse failure yields valid == false
// rather than an error.
func (d *Dispatcher) AnalyzeInput(rawInput string, mode models.Mode) (bool, *models.Stats) {
	var value models.Value
	if mode == models.ModeJSONLToJSON {
		lines, err := parser.ParseLines(rawInput)
		if err != nil {
			return false, nil
		}
		value = []interface{}(lines.Records)
	} else {
		v, err := parser.ParseString(rawInput)
		if err != nil {
			return false, nil
		}
		value = v
	}
	stats, err := analyzer.Analyze(value)
	if err != nil {
		return false, nil
	}
	return true, stats
}

func (d *Dispatcher) format(rawInput string, opts models.Options) (*Result, error) {
	value, err := parser.ParseString(rawInput)
	if err != nil {
		return nil, err
	}
	value, _, err = query.Apply(value, opts.Query)
	if err != nil {
		return nil, err
	}
	value, err = shapeKeys(value, opts)
	if err != nil {
		return nil, err
	}
	stats, err := analyzer.Analyze(value)
	if err != nil {
		return nil, err
	}
	text, err := formatter.Serialize(value, formatter.ResolveIndent(opts.Indent))
	if err != nil {
		return nil, withStats(err, stats)
	}
	return &Result{
		Text:       text,
		OutputMode: OutputJSON,
		Stats:      stats,
		Message:    statsMessage("Formatted JSON", stats),
	}, nil
}

func (d *Dispatcher) jsonToJSONL(rawInput string, opts models.Options) (*Result, error) {
	value, err := parser.ParseString(rawInput)
	if err != nil {
		return nil, err
	}
	value, applied, err := query.Apply(value, opts.Query)
	if err != nil {
		return nil, err
	}
	stats, err := analyzer.Analyze(value)
	if err != nil {
		return nil, err
	}

	if arr, ok := value.([]interface{}); ok {
		lines := make([]string, len(arr))
		for i, element := range arr {
			line, err := formatter.CompactLine(element)
			if err != nil {
				return nil, withStats(err, stats)
			}
			lines[i] = line
		}
		return &Result{
			Text:       strings.Join(lines, "\n"),
			OutputMode: OutputJSONL,
			Stats:      stats,
			Message:    fmt.Sprintf("Converted array to %d JSONL %s.", len(arr), plural("record", len(arr))),
		}, nil
	}

	if applied {
		// A query that narrows to a single non-array value still gets
		// one line, it is not an error.
		line, err := formatter.CompactLine(value)
		if err != nil {
			return nil, withStats(err, stats)
		}
		return &Result{
			Text:       line,
			OutputMode: OutputJSONL,
			Stats:      stats,
			Message:    "Query returned a single value; wrote a single JSONL line.",
		}, nil
	}

	return nil, errors.NewProcessingError(
		"JSONL conversion requires a top-level array; supply an array or a query that produces one",
		nil,
	).WithStats(stats)
}

func (d *Dispatcher) jsonlToJSON(rawInput string, opts models.Options) (*Result, error) {
	lines, err := parser.ParseLines(rawInput)
	if err != nil {
		return nil, err
	}
	value, err := shapeKeys([]interface{}(lines.Records), opts)
	if err != nil {
		return nil, err
	}
	stats, err := analyzer.Analyze(value)
	if err != nil {
		return nil, err
	}
	text, err := formatter.Serialize(value, formatter.ResolveIndent(opts.Indent))
	if err != nil {
		return nil, withStats(err, stats)
	}
	return &Result{
		Text:       text,
		OutputMode: OutputJSON,
		Stats:      stats,
		Message:    fmt.Sprintf("Converted %d JSONL %s to a JSON array.", lines.Count, plural("record", lines.Count)),
	}, nil
}

func (d *Dispatcher) validate(rawInput string, opts models.Options) (*Result, error) {
	value, err := parser.ParseString(rawInput)
	if err != nil {
		return nil, err
	}
	stats, err := analyzer.Analyze(value)
	if err != nil {
		return nil, err
	}

	schemaChecked := strings.TrimSpace(opts.SchemaText) != ""
	if schemaChecked {
		result, err := schema.Validate(value, opts.SchemaText)
		if err != nil {
			return nil, withStats(err, stats)
		}
		if !result.Valid {
			n := len(result.Violations)
			return nil, errors.NewSchemaError(
				fmt.Sprintf("schema validation failed with %d %s", n, plural("violation", n)),
				failureReport(result, stats),
			).WithStats(stats)
		}
	}

	message := "JSON is valid."
	if schemaChecked {
		message = "JSON is valid and matches the schema."
	}
	return &Result{
		Text:       successReport(value, stats, schemaChecked),
		OutputMode: OutputText,
		Stats:      stats,
		Message:    message,
	}, nil
}

// shapeKeys applies the key case conversion and deep key sort, in that
// order, so sorting reflects the final key names.
func shapeKeys(value models.Value, opts models.Options) (models.Value, error) {
	caser, err := formatter.KeyCaser(opts.KeyCase)
	if err != nil {
		return nil, err
	}
	if caser != nil {
		value = formatter.ConvertKeys(value, caser)
	}
	if opts.SortKeys {
		value = formatter.SortKeysDeep(value)
	}
	return value, nil
}

func withStats(err error, stats *models.Stats) error {
	te := errors.Normalize(err)
	if te.Stats == nil {
		te.Stats = stats
	}
	return te
}

func statsMessage(prefix string, stats *models.Stats) string {
	return fmt.Sprintf("%s: %d %s, %d %s, %d %s, max depth %d.",
		prefix,
		stats.Objects, plural("object", stats.Objects),
		stats.Arrays, plural("array", stats.Arrays),
		stats.Keys, plural("key", stats.Keys),
		stats.MaxDepth,
	)
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
