package diag

import (
	"fmt"

	"mf2/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding produced by a pipeline phase. Primary is the
// canonical span pointing at the issue; Message is short, human oriented,
// and stable across releases so tests can rely on it.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s (at %s)", d.Severity, d.Code, d.Message, d.Primary)
}
