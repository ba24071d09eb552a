// Package diag implements the compiler's error surface: every error is
// fatal to the compile (§7), carries a message, and optionally the id of
// the visual item the editor should highlight. The shape is modeled on the
// teacher's own diagnostics plumbing (grafana/river's diag.Diagnostics,
// wired through converter/diag in cmd_convert.go: RunE does
// `errors.As(err, &diags)`), adapted to highlight a graph item id instead
// of a source text position, since our input is a visual graph, not text.
package diag

import (
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarn
)

func (s Severity) String() string {
	if s == SeverityWarn {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single compiler error or warning.
type Diagnostic struct {
	Severity Severity
	Message  string
	// HighlightItem is the id of the offending visual item, if any (§6:
	// "an optional 'highlight item' id used by the editor to mark the
	// offending node").
	HighlightItem string
}

func (d Diagnostic) String() string {
	if d.HighlightItem == "" {
		return d.Severity.String() + ": " + d.Message
	}
	return d.Severity.String() + ": " + d.Message + " (at " + d.HighlightItem + ")"
}

// Diagnostics is a collection of Diagnostic that itself satisfies error,
// letting callers either range over individual diagnostics or treat the
// whole batch as a single Go error, mirroring the teacher's
// `errors.As(err, &diags)` pattern.
type Diagnostics []Diagnostic

func (d Diagnostics) Error() string {
	parts := make([]string, len(d))
	for i, diagnostic := range d {
		parts[i] = diagnostic.String()
	}
	return strings.Join(parts, "; ")
}

func (d *Diagnostics) Add(diagnostic Diagnostic) {
	*d = append(*d, diagnostic)
}

func (d Diagnostics) HasErrors() bool {
	for _, diagnostic := range d {
		if diagnostic.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errorf constructs a single-entry error-severity Diagnostics value, the
// common case for a fatal compile error.
func Errorf(highlight, format string, args ...any) Diagnostics {
	return Diagnostics{{
		Severity:      SeverityError,
		Message:       fmt.Sprintf(format, args...),
		HighlightItem: highlight,
	}}
}
