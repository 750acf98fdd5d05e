// Package analyzer computes structural statistics over parsed JSON
// values: object, array, and key counts plus maximum nesting depth.
package analyzer

import (
	"fmt"

	"github.com/iancoleman/orderedmap"

	"github.com/ianrastall/jsontool/internal/errors"
	"github.com/ianrastall/jsontool/internal/models"
)

// MaxDepth is the deepest nesting the analyzer will walk. Extremely deep
// nesting is legal JSON, so it must fail cleanly rather than exhaust the
// stack.
const MaxDepth = 1000

// Analyze walks value and returns its structural stats. It fails with a
// processing error when nesting reaches MaxDepth.
func Analyze(value models.Value) (*models.Stats, error) {
	stats := &models.Stats{}
	if err := walk(value, 0, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func walk(value models.Value, depth int, stats *models.Stats) error {
	if depth >= MaxDepth {
		return errors.NewProcessingError(fmt.Sprintf("maximum nesting depth of %d exceeded", MaxDepth), nil)
	}
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	switch t := value.(type) {
	case *orderedmap.OrderedMap:
		stats.Objects++
		keys := t.Keys()
		stats.Keys += len(keys)
		for _, k := range keys {
			v, _ := t.Get(k)
			if err := walk(v, depth+1, stats); err != nil {
				return err
			}
		}
	case map[string]interface{}:
		// plain objects show up in query results
		stats.Objects++
		stats.Keys += len(t)
		for _, v := range t {
			if err := walk(v, depth+1, stats); err != nil {
				return err
			}
		}
	case []interface{}:
		stats.Arrays++
		for _, v := range t {
			if err := walk(v, depth+1, stats); err != nil {
				return err
			}
		}
	}
	return nil
}
