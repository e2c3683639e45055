package diag

import (
	"fmt"
	"strings"
)

// FormatText returns a human-readable string representation of the report.
// Each diagnostic is on its own line with its line number and message.
// A summary line is appended at the end.
func FormatText(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "File: %s\n", r.File)

	for _, d := range r.Diagnostics {
		fmt.Fprintf(&b, "  line %d: %s\n", d.Line, d.Message)
	}

	fmt.Fprintf(&b, "\n%d problems\n", len(r.Diagnostics))
	return b.String()
}
