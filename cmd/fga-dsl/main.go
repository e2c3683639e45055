// Command fga-dsl converts OpenFGA authorization models between their DSL
// text form and their structured JSON form, and checks DSL text for
// structural problems.
//
// Usage:
//
//	fga-dsl [flags] check file1.fga [file2.fga ...]
//	fga-dsl [flags] parse file.fga
//	fga-dsl [flags] write file.json
//
// check runs the line-by-line validator and prints its diagnostics; parse
// converts DSL text to the structured JSON document; write converts a
// structured JSON document back to DSL text.
//
// Exit codes:
//
//	0  Success (for check: no diagnostics)
//	1  check found diagnostics
//	2  Input or usage error (missing file, invalid JSON, bad flags)
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/nithish611/openfga-ui/internal/diag"
	"github.com/nithish611/openfga-ui/internal/dsl"
	"github.com/nithish611/openfga-ui/internal/schema"
	"github.com/nithish611/openfga-ui/internal/transform"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("fga-dsl", flag.ContinueOnError)

	formatFlag := fs.String("format", "text", "Diagnostic output format: text or json")
	quiet := fs.Bool("quiet", false, "Suppress output (exit code only)")
	edit := fs.Bool("edit", false, "For write: render DSL that seeds the editor instead of the read-only view")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if *showVersion {
		fmt.Printf("fga-dsl %s\n", version)
		return 0
	}

	if *formatFlag != "text" && *formatFlag != "json" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q (use text or json)\n", *formatFlag)
		return 2
	}

	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "Error: expected a command (check, parse, write) and at least one file")
		fs.Usage()
		return 2
	}
	command, files := rest[0], rest[1:]

	switch command {
	case "check":
		exitCode := 0
		for _, path := range files {
			code, err := runCheck(path, *formatFlag, *quiet)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 2
			}
			exitCode = max(exitCode, code)
		}
		return exitCode

	case "parse":
		if err := runParse(files[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		return 0

	case "write":
		if err := runWrite(files[0], *edit); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q (use check, parse, or write)\n", command)
		return 2
	}
}

// runCheck validates one DSL file and prints its diagnostics. Returns 1 when
// diagnostics were found, 0 when the file is clean.
func runCheck(path string, format string, quiet bool) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	r := diag.NewReport(path)
	for _, d := range dsl.Validate(string(data)) {
		r.Add(d)
	}

	if !quiet {
		if err := printReport(r, format); err != nil {
			return 0, err
		}
	}

	if r.HasDiagnostics() {
		return 1, nil
	}
	return 0, nil
}

// runParse converts a DSL file to the structured JSON document on stdout.
// Parsing is lenient and total; the validator never gates it.
func runParse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, err := transform.EncodeJSON(dsl.Parse(string(data)))
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// runWrite converts a structured JSON document to DSL text on stdout, after
// checking the document against the embedded JSON Schema.
func runWrite(path string, edit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	sv, err := schema.NewSchemaValidator()
	if err != nil {
		return err
	}
	if schemaErrors := sv.ValidateDocument(doc); len(schemaErrors) > 0 {
		for _, se := range schemaErrors {
			fmt.Fprintf(os.Stderr, "  %s\n", se)
		}
		return fmt.Errorf("%s: not a valid authorization model document", path)
	}

	m, err := transform.DecodeJSON(data)
	if err != nil {
		return err
	}

	mode := dsl.ModeDisplay
	if edit {
		mode = dsl.ModeEdit
	}
	fmt.Print(dsl.Serialize(m, mode))
	return nil
}

// printReport outputs the report in the specified format.
func printReport(r *diag.Report, format string) error {
	switch format {
	case "json":
		data, err := diag.FormatJSON(r)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "text":
		fmt.Print(diag.FormatText(r))
	}
	return nil
}
