package dsl

import (
	"fmt"
	"strings"

	"github.com/nithish611/openfga-ui/internal/diag"
	"github.com/nithish611/openfga-ui/internal/model"
)

// scanState is the validator's position in the document structure. Each
// validation pass starts fresh at scanStart; the validator holds no state
// between calls.
type scanState int

const (
	scanStart     scanState = iota // before the model declaration
	scanModel                      // after model, outside any type
	scanType                       // inside a type, before its relations block
	scanRelations                  // inside a relations block
	scanCondition                  // inside a condition body
)

// Validate runs the advisory line-by-line structural check over DSL text and
// returns a fresh ordered list of diagnostics. It does not parse the text and
// never blocks anything: the diagnostics drive inline editor markers only.
func Validate(text string) []diag.Diagnostic {
	var diags []diag.Diagnostic

	state := scanStart
	hasModel, hasSchema, hasContent := false, false, false

	for i, raw := range strings.Split(text, "\n") {
		n := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		hasContent = true
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if state == scanCondition {
			if line == "}" {
				state = scanModel
			}
			continue
		}

		switch {
		case line == "model":
			if hasModel {
				diags = append(diags, diag.New(n, "Duplicate model declaration"))
			}
			hasModel = true
			state = scanModel

		case line == "schema" || strings.HasPrefix(line, "schema "):
			version := strings.TrimSpace(strings.TrimPrefix(line, "schema"))
			switch {
			case !hasModel:
				diags = append(diags, diag.New(n, "schema must follow the model declaration"))
			case hasSchema:
				diags = append(diags, diag.New(n, "Duplicate schema declaration"))
			case !model.ValidSchemaVersion(version):
				diags = append(diags, diag.New(n, fmt.Sprintf("Invalid schema version: %q", version)))
			}
			hasSchema = true

		case strings.HasPrefix(line, "type "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "type "))
			switch {
			case !hasModel:
				diags = append(diags, diag.New(n, "type declared before the model declaration"))
			case !model.ValidIdentifier(name):
				diags = append(diags, diag.New(n, fmt.Sprintf("Invalid type name: %q", name)))
			}
			state = scanType

		case line == "relations":
			if state != scanType && state != scanRelations {
				diags = append(diags, diag.New(n, "relations must be inside a type definition"))
			}
			state = scanRelations

		case line == "define" || strings.HasPrefix(line, "define "):
			name, _, hasColon := strings.Cut(strings.TrimPrefix(line, "define"), ":")
			name = strings.TrimSpace(name)
			switch {
			case state != scanRelations:
				diags = append(diags, diag.New(n, "define must be inside a relations block"))
			case !hasColon:
				diags = append(diags, diag.New(n, "define is missing ':' before its expression"))
			case !model.ValidIdentifier(name):
				diags = append(diags, diag.New(n, fmt.Sprintf("Invalid relation name: %q", name)))
			}

		case strings.HasPrefix(line, "condition "):
			// Closes any open type context; condition bodies are skipped
			// until the closing brace. An inline body closes immediately.
			if strings.HasSuffix(line, "}") {
				state = scanModel
			} else {
				state = scanCondition
			}

		default:
			if !startsIndented(raw) {
				diags = append(diags, diag.New(n, fmt.Sprintf("Unknown statement: %q", firstWord(line))))
			}
		}
	}

	// Whole-document checks. The missing-model diagnostic always leads so the
	// first marker points at line 1; missing-schema is only meaningful once a
	// model declaration exists.
	if hasContent && !hasModel {
		diags = append([]diag.Diagnostic{diag.New(1, "model declaration is required and must come first")}, diags...)
	} else if hasModel && !hasSchema {
		diags = append(diags, diag.New(2, "schema declaration is required after model"))
	}

	return diags
}

func startsIndented(raw string) bool {
	return len(raw) > 0 && (raw[0] == ' ' || raw[0] == '\t')
}

func firstWord(line string) string {
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i]
	}
	return line
}
