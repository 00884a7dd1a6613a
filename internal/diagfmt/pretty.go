// Package diagfmt renders diagnostics and syntax trees for the CLI.
// Formatting lives here so that internal/diag stays free of IO concerns.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mf2/internal/diag"
	"mf2/internal/source"
)

// PrettyOpts configures human-readable diagnostic output.
type PrettyOpts struct {
	Color bool
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	posColor     = color.New(color.FgWhite, color.Bold)
	caretColor   = color.New(color.FgRed)
)

// Pretty writes diagnostics in a human-readable form:
//
//	<path>:<line>:<col>: <SEVERITY> <Code>: <message>
//	  <source line>
//	  <caret underline>
//
// Lines and columns are printed 1-based. The caret underline is aligned with
// display width so wide runes underline correctly.
func Pretty(w io.Writer, diags []diag.Diagnostic, file *source.File, opts PrettyOpts) {
	for _, d := range diags {
		prettyOne(w, d, file, opts)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, file *source.File, opts PrettyOpts) {
	start := file.PositionOf(d.Primary.Start)

	sev := d.Severity.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	pos := fmt.Sprintf("%s:%d:%d", file.Name, start.Line+1, start.Character+1)
	if opts.Color {
		pos = posColor.Sprint(pos)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", pos, sev, d.Code, d.Message)

	line, lineStart := lineOf(file, d.Primary.Start)
	if line == "" && d.Primary.Empty() {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	// underline the span within this line only
	uStart := d.Primary.Start - lineStart
	uEnd := d.Primary.End - lineStart
	if uEnd > uint32(len(line)) {
		uEnd = uint32(len(line))
	}
	if uStart > uEnd {
		uStart = uEnd
	}
	pad := runewidth.StringWidth(line[:uStart])
	width := runewidth.StringWidth(line[uStart:uEnd])
	if width == 0 {
		width = 1
	}
	underline := strings.Repeat("^", width)
	if opts.Color {
		underline = caretColor.Sprint(underline)
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", pad), underline)
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// lineOf returns the text of the line containing the offset (without its
// trailing line break) and the offset of the line's first byte.
func lineOf(file *source.File, off uint32) (string, uint32) {
	pos := file.PositionOf(off)
	lineStart := file.OffsetOf(source.Position{Line: pos.Line})
	lineEnd := file.OffsetOf(source.Position{Line: pos.Line + 1})
	line := file.Content[lineStart:lineEnd]
	line = strings.TrimRight(line, "\r\n")
	return line, lineStart
}
