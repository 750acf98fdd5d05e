package pipeline

import (
	"fmt"
	"strings"

	"github.com/ianrastall/jsontool/internal/models"
	"github.com/ianrastall/jsontool/internal/schema"
)

// successReport renders the plain-text summary produced by validate
// mode instead of reformatted JSON.
func successReport(value models.Value, stats *models.Stats, schemaChecked bool) string {
	var b strings.Builder
	b.WriteString("Valid JSON\n\n")
	fmt.Fprintf(&b, "Type: %s\n", models.TypeName(value))
	writeStats(&b, stats)
	if schemaChecked {
		b.WriteString("Schema Checked: Yes (passed)\n")
	} else {
		b.WriteString("Schema Checked: No\n")
	}
	return b.String()
}

// failureReport renders the itemized schema violation report, one line
// per violation, followed by the same stats lines as the success
// report.
func failureReport(result *schema.Result, stats *models.Stats) string {
	var b strings.Builder
	b.WriteString("Schema validation failed\n\n")
	fmt.Fprintf(&b, "Violations: %d\n\n", len(result.Violations))
	for _, v := range result.Violations {
		fmt.Fprintf(&b, "%d. %s: %s (%s)\n", v.Index, v.InstancePath, v.Message, v.SchemaPath)
	}
	b.WriteString("\n")
	writeStats(&b, stats)
	return b.String()
}

func writeStats(b *strings.Builder, stats *models.Stats) {
	fmt.Fprintf(b, "Objects: %d\n", stats.Objects)
	fmt.Fprintf(b, "Arrays: %d\n", stats.Arrays)
	fmt.Fprintf(b, "Total Keys: %d\n", stats.Keys)
	fmt.Fprintf(b, "Max Depth: %d\n", stats.MaxDepth)
}
