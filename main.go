package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ianrastall/jsontool/internal/config"
	"github.com/ianrastall/jsontool/internal/errors"
	"github.com/ianrastall/jsontool/internal/models"
	"github.com/ianrastall/jsontool/internal/worker"
)

// Version information
const Version = "0.1.0"

// CLI defines the command-line interface
var CLI struct {
	Config  string           `help:"Path to a YAML config file. The nearest .jsontool.yml is used when omitted." type:"path"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Format    FormatCmd    `cmd:"" help:"Parse a JSON document and pretty-print it."`
	ToJsonl   ToJsonlCmd   `cmd:"" name:"to-jsonl" help:"Convert a JSON array to JSON Lines."`
	FromJsonl FromJsonlCmd `cmd:"" name:"from-jsonl" help:"Convert JSON Lines to a JSON array."`
	Validate  ValidateCmd  `cmd:"" help:"Validate a JSON document, optionally against a JSON Schema."`
	Stats     StatsCmd     `cmd:"" help:"Print structural statistics for a JSON document."`
}

// ioFlags are the input/output options shared by every command.
type ioFlags struct {
	Input  string `help:"Path to input file. Reads stdin when omitted." short:"i" type:"path"`
	Output string `help:"Path to output file. Writes stdout when omitted." short:"o" type:"path"`
}

// shapeFlags are the output-shaping options shared by the commands that
// emit reformatted JSON.
type shapeFlags struct {
	Indent   string `help:"Indent width in spaces, or \"tab\". 0 writes compact output. Defaults to 2."`
	SortKeys *bool  `help:"Sort object keys alphabetically at every level. --sort-keys=false overrides a config default."`
	KeyCase  string `help:"Rename object keys: camel, pascal, snake, kebab or screaming-snake."`
}

// FormatCmd pretty-prints a JSON document.
type FormatCmd struct {
	ioFlags
	shapeFlags
	Query string `help:"JMESPath expression applied before formatting." short:"q"`
}

func (c *FormatCmd) Run(app *appContext) error {
	return app.process(c.ioFlags, models.ModeFormat, models.Options{
		Indent:   c.Indent,
		SortKeys: app.resolveSortKeys(c.SortKeys),
		KeyCase:  c.KeyCase,
		Query:    c.Query,
	})
}

// ToJsonlCmd converts a JSON array to JSON Lines.
type ToJsonlCmd struct {
	ioFlags
	Query string `help:"JMESPath expression applied before conversion." short:"q"`
}

func (c *ToJsonlCmd) Run(app *appContext) error {
	return app.process(c.ioFlags, models.ModeJSONToJSONL, models.Options{Query: c.Query})
}

// FromJsonlCmd converts JSON Lines to a JSON array.
type FromJsonlCmd struct {
	ioFlags
	shapeFlags
}

func (c *FromJsonlCmd) Run(app *appContext) error {
	return app.process(c.ioFlags, models.ModeJSONLToJSON, models.Options{
		Indent:   c.Indent,
		SortKeys: app.resolveSortKeys(c.SortKeys),
		KeyCase:  c.KeyCase,
	})
}

// ValidateCmd validates a JSON document, optionally against a schema.
type ValidateCmd struct {
	ioFlags
	Schema string `help:"Path to a JSON Schema file to validate against." short:"s" type:"path"`
}

func (c *ValidateCmd) Run(app *appContext) error {
	schemaText := ""
	if c.Schema != "" {
		data, err := os.ReadFile(c.Schema)
		if err != nil {
			return fmt.Errorf("failed to read schema file %q: %w", c.Schema, err)
		}
		schemaText = string(data)
	}
	return app.process(c.ioFlags, models.ModeValidate, models.Options{SchemaText: schemaText})
}

// StatsCmd prints structural statistics without reformatting anything.
type StatsCmd struct {
	ioFlags
	Jsonl bool `help:"Treat the input as JSON Lines."`
}

func (c *StatsCmd) Run(app *appContext) error {
	raw, err := readInput(c.Input)
	if err != nil {
		return err
	}
	mode := models.ModeFormat
	if c.Jsonl {
		mode = models.ModeJSONLToJSON
	}
	resp, err := app.w.Do(models.Request{
		JobID:   app.w.NextJobID(),
		Action:  models.ActionAnalyze,
		Payload: models.Payload{RawInput: raw, Mode: mode},
	})
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Valid: %t\n", resp.Valid)
	if resp.Stats != nil {
		fmt.Fprintf(&b, "Objects: %d\n", resp.Stats.Objects)
		fmt.Fprintf(&b, "Arrays: %d\n", resp.Stats.Arrays)
		fmt.Fprintf(&b, "Total Keys: %d\n", resp.Stats.Keys)
		fmt.Fprintf(&b, "Max Depth: %d\n", resp.Stats.MaxDepth)
	}
	return writeOutput(c.Output, b.String())
}

// appContext carries the runtime pieces every command needs.
type appContext struct {
	cfg *config.Config
	w   *worker.Worker
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("jsontool"),
		kong.Description("Format, convert, query and validate JSON and JSON Lines."),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("jsontool version %s", Version)},
	)

	cfg, err := loadConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	app := &appContext{cfg: cfg, w: worker.New(cfg.QueueSize)}
	err = ctx.Run(app)
	app.w.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}
	if found := config.FindConfigFile(); found != "" {
		return config.LoadConfig(found)
	}
	return config.NewConfig(), nil
}

// process runs one job end to end: read input, fill defaults, dispatch
// to the worker, write the result or surface the failure.
func (app *appContext) process(in ioFlags, mode models.Mode, opts models.Options) error {
	raw, err := readInput(in.Input)
	if err != nil {
		return err
	}

	req := models.Request{
		JobID:  app.w.NextJobID(),
		Action: models.ActionProcess,
		Payload: models.Payload{
			RawInput: raw,
			Mode:     mode,
			Options:  app.applyDefaults(opts),
		},
	}
	resp, err := app.w.Do(req)
	if err != nil {
		return err
	}

	if !resp.OK {
		if resp.ValidationReport != "" {
			// The itemized report is the useful artifact; write it even
			// though the job failed.
			if werr := writeOutput(in.Output, resp.ValidationReport); werr != nil {
				return werr
			}
		}
		return responseError(resp)
	}

	if err := writeOutput(in.Output, resp.ResultText); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s (%.1f ms)\n", resp.Message, resp.DurationMs)
	return nil
}

// applyDefaults fills options the user left blank from the config file.
// SortKeys is resolved earlier via resolveSortKeys, since false is a
// meaningful value and cannot mark "unset" here.
func (app *appContext) applyDefaults(opts models.Options) models.Options {
	if opts.Indent == "" {
		opts.Indent = app.cfg.Indent
	}
	if opts.KeyCase == "" {
		opts.KeyCase = app.cfg.KeyCase
	}
	if opts.Query == "" {
		opts.Query = app.cfg.Query
	}
	return opts
}

// resolveSortKeys layers the config default under the flag; a nil flag
// means --sort-keys was not given at all.
func (app *appContext) resolveSortKeys(flag *bool) bool {
	if flag != nil {
		return *flag
	}
	return app.cfg.SortKeys
}

// responseError rebuilds a tagged error from the wire shape so the
// top-level handler renders job failures consistently.
func responseError(resp models.Response) error {
	if resp.Error == nil {
		return fmt.Errorf("job %d failed", resp.JobID)
	}
	return &errors.ToolError{
		Type:    errors.ErrorType(resp.Error.Type),
		Message: resp.Error.Message,
		Line:    resp.Error.Line,
		Column:  resp.Error.Column,
	}
}

// readInput reads raw text from a file or stdin
func readInput(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("file %q not found", path)
			}
			return "", fmt.Errorf("failed to read file %q: %w", path, err)
		}
		if len(data) == 0 {
			return "", fmt.Errorf("input file %q is empty", path)
		}
		return string(data), nil
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to access stdin: %w", err)
	}
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		return "", fmt.Errorf("no input provided: specify a file with -i or pipe JSON to stdin")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty input received from stdin")
	}
	return string(data), nil
}

// writeOutput writes text to a file or stdout
func writeOutput(path, text string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return fmt.Errorf("failed to write to file %q: %w", path, err)
		}
		return nil
	}
	_, err := fmt.Println(strings.TrimRight(text, "\n"))
	if err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}
