// Package query applies JMESPath expressions as a pre-filter ahead of
// formatting or JSONL conversion, delegating evaluation to the
// go-jmespath engine.
package query

import (
	stderrors "errors"
	"strings"

	"github.com/jmespath/go-jmespath"

	"github.com/ianrastall/jsontool/internal/errors"
	"github.com/ianrastall/jsontool/internal/models"
)

// Apply evaluates expression against value. A blank or whitespace-only
// expression is a no-op passthrough, reported by applied == false.
//
// The engine works on plain maps, so object key order does not survive
// a query; result objects come back with alphabetically sorted keys. A
// nil result is reported as a "no result" query error, since downstream
// serialization has nothing to represent.
func Apply(value models.Value, expression string) (result models.Value, applied bool, err error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return value, false, nil
	}

	raw, err := jmespath.Search(expression, models.Plain(value))
	if err != nil {
		var te *errors.ToolError
		if stderrors.As(err, &te) {
			return nil, true, te
		}
		return nil, true, errors.NewQueryError(err.Error(), err)
	}
	if raw == nil {
		return nil, true, errors.NewQueryError("query produced no result", nil)
	}
	return models.FromPlain(raw), true, nil
}
