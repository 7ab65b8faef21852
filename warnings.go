package pdftext

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal problem met during extraction. Page is 0 for
// problems that concern the whole document.
type Warning struct {
	Page    int
	Message string
	Err     error
}

// String formats the warning for display.
func (w Warning) String() string {
	var b strings.Builder
	if w.Page > 0 {
		fmt.Fprintf(&b, "page %d: ", w.Page)
	}
	b.WriteString(w.Message)
	if w.Err != nil {
		fmt.Fprintf(&b, ": %v", w.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error, if any.
func (w Warning) Unwrap() error { return w.Err }

// FormatWarnings joins warnings into one line each.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// Error makes a Warning usable with errors.Is and errors.As.
func (w Warning) Error() string { return w.String() }
