package diagfmt

import (
	"encoding/json"
	"io"

	"mf2/internal/diag"
	"mf2/internal/source"
)

// DiagnosticOutput is the JSON shape of one diagnostic.
type DiagnosticOutput struct {
	File     string      `json:"file"`
	Code     string      `json:"code"`
	Severity string      `json:"severity"`
	Message  string      `json:"message"`
	Span     SpanOutput  `json:"span"`
	Range    RangeOutput `json:"range"`
}

// SpanOutput is a byte-offset span.
type SpanOutput struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// PositionOutput is a 0-based line and UTF-16 character pair.
type PositionOutput struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// RangeOutput is a pair of positions.
type RangeOutput struct {
	Start PositionOutput `json:"start"`
	End   PositionOutput `json:"end"`
}

// JSON writes diagnostics as a JSON array.
func JSON(w io.Writer, diags []diag.Diagnostic, file *source.File) error {
	out := make([]DiagnosticOutput, 0, len(diags))
	for _, d := range diags {
		rng := file.RangeOf(d.Primary)
		out = append(out, DiagnosticOutput{
			File:     file.Name,
			Code:     d.Code.String(),
			Severity: d.Severity.String(),
			Message:  d.Message,
			Span:     SpanOutput{Start: d.Primary.Start, End: d.Primary.End},
			Range: RangeOutput{
				Start: PositionOutput{Line: rng.Start.Line, Character: rng.Start.Character},
				End:   PositionOutput{Line: rng.End.Line, Character: rng.End.Character},
			},
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
