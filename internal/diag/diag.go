// Package diag defines line-addressed diagnostics produced by the live DSL
// validator and the report structure used to collect and present them.
package diag

// Diagnostic is a single advisory finding against one line of DSL text.
// Line numbers are 1-based.
type Diagnostic struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// New creates a Diagnostic for the given line.
func New(line int, message string) Diagnostic {
	return Diagnostic{Line: line, Message: message}
}

// Report collects all diagnostics for a single DSL file or editor buffer.
type Report struct {
	File        string       `json:"file"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NewReport creates a Report for the given file with an empty diagnostic slice.
func NewReport(file string) *Report {
	return &Report{File: file, Diagnostics: []Diagnostic{}}
}

// Add appends a diagnostic to the report.
func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// HasDiagnostics returns true if the report contains any diagnostics.
func (r *Report) HasDiagnostics() bool {
	return len(r.Diagnostics) > 0
}
