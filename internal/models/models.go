package models

// Value is a generic type to represent any parsed JSON value.
// This can be nil, a bool, a string, a json.Number, a []interface{} for
// arrays, or an *orderedmap.OrderedMap for objects, so that object keys
// keep their insertion order all the way to serialization.
type Value = interface{}

// Mode selects which processing pipeline runs for a job.
type Mode string

const (
	ModeFormat      Mode = "format"
	ModeJSONToJSONL Mode = "jsonToJsonl"
	ModeJSONLToJSON Mode = "jsonlToJson"
	ModeValidate    Mode = "validate"
)

// Valid reports whether m names a known pipeline.
func (m Mode) Valid() bool {
	switch m {
	case ModeFormat, ModeJSONToJSONL, ModeJSONLToJSON, ModeValidate:
		return true
	}
	return false
}

// Options carries the per-job processing options.
type Options struct {
	// Indent is the requested indentation: "tab", "0" for compact output,
	// or a space count as a string.
	Indent string `json:"indent"`
	// SortKeys sorts object keys alphabetically at every nesting level.
	SortKeys bool `json:"sortKeys"`
	// KeyCase renames object keys to the named case style when non-empty.
	KeyCase string `json:"keyCase,omitempty"`
	// Query is a JMESPath expression applied before formatting or JSONL
	// conversion. Blank means no query.
	Query string `json:"query"`
	// SchemaText is a JSON Schema document for validate mode. Blank means
	// no schema check.
	SchemaText string `json:"schemaText"`
}

// Stats is the structural aggregate over one JSON value tree.
type Stats struct {
	Objects  int `json:"objects"`
	Arrays   int `json:"arrays"`
	Keys     int `json:"keys"`
	MaxDepth int `json:"maxDepth"`
}

// Action names a worker job kind.
type Action string

const (
	// ActionProcess runs the full pipeline for the requested mode.
	ActionProcess Action = "process"
	// ActionAnalyze computes stats only, for live feedback while typing.
	ActionAnalyze Action = "analyzeInput"
)

// Payload is the input half of a job request.
type Payload struct {
	RawInput string  `json:"rawInput"`
	Mode     Mode    `json:"mode"`
	Options  Options `json:"options"`
}

// Request is one job dispatched to the worker. JobID is caller-assigned
// and unique per outstanding job; responses echo it back so the caller
// can match them up and discard stale ones.
type Request struct {
	JobID   int64   `json:"jobId"`
	Action  Action  `json:"action"`
	Payload Payload `json:"payload"`
}

// ErrorInfo is the wire shape of a job failure.
type ErrorInfo struct {
	Type    string `json:"errorType"`
	Title   string `json:"title,omitempty"`
	Source  string `json:"source,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// Response is the worker's answer to one Request. OK selects between the
// success fields (ResultText, OutputMode, Message) and Error. Stats may
// accompany either outcome. DurationMs is wall-clock time spent inside
// the worker for this job.
type Response struct {
	JobID      int64   `json:"jobId"`
	Action     Action  `json:"action"`
	OK         bool    `json:"ok"`
	DurationMs float64 `json:"durationMs"`

	ResultText string `json:"resultText,omitempty"`
	OutputMode string `json:"outputMode,omitempty"`
	Message    string `json:"message,omitempty"`
	Stats      *Stats `json:"stats,omitempty"`

	// Valid is the analyzeInput verdict. Analyze jobs never report a
	// tagged error; a parse failure simply yields Valid == false, so the
	// field is always present on the wire.
	Valid bool `json:"valid"`

	Error            *ErrorInfo `json:"error,omitempty"`
	ValidationReport string     `json:"validationReport,omitempty"`
}
