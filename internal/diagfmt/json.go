package diagfmt

import (
	"encoding/json"
	"io"

	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// PositionJSON is one 1-based line/col position.
type PositionJSON struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// SpanJSON is a start/end position pair, end-exclusive at column level.
type SpanJSON struct {
	Start PositionJSON `json:"start"`
	End   PositionJSON `json:"end"`
}

// FixJSON is the machine-readable shape of a diagnostic's preferred fix.
type FixJSON struct {
	Kind    string `json:"kind"`
	NewText string `json:"new_text"`
}

// DiagnosticJSON is one diagnostic in the JSON output contract.
type DiagnosticJSON struct {
	Code     string   `json:"code"`
	Severity string   `json:"severity"`
	Message  string   `json:"message"`
	Span     SpanJSON `json:"span"`
	Fix      *FixJSON `json:"fix,omitempty"`
}

// SummaryJSON tallies diagnostics by severity.
type SummaryJSON struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Style    int `json:"style"`
}

// OutputJSON is the root of the JSON diagnostic format.
type OutputJSON struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Summary     SummaryJSON      `json:"summary"`
}

// sevJSON renders a severity in the title-case spelling the JSON contract
// uses ("Warning", not the pretty format's "WARNING").
func sevJSON(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "Error"
	case diag.SevWarning:
		return "Warning"
	case diag.SevInfo:
		return "Info"
	case diag.SevStyle:
		return "Style"
	}
	return "Unknown"
}

// BuildOutput assembles the JSON output structure without serializing it.
func BuildOutput(diags []diag.Diagnostic, fs *source.FileSet) OutputJSON {
	out := OutputJSON{Diagnostics: make([]DiagnosticJSON, 0, len(diags))}
	ctx := diag.FixBuildContext{FileSet: fs}
	for _, d := range diags {
		dj := DiagnosticJSON{
			Code:     d.Code.String(),
			Severity: sevJSON(d.Severity),
			Message:  d.Message,
			Span: SpanJSON{
				Start: PositionJSON{Line: d.Primary.Start.Line, Col: d.Primary.Start.Col},
				End:   PositionJSON{Line: d.Primary.End.Line, Col: d.Primary.End.Col},
			},
		}
		if fj, ok := firstFix(ctx, d); ok {
			dj.Fix = &fj
		}
		out.Diagnostics = append(out.Diagnostics, dj)
		switch d.Severity {
		case diag.SevError:
			out.Summary.Errors++
		case diag.SevWarning:
			out.Summary.Warnings++
		case diag.SevInfo:
			out.Summary.Info++
		case diag.SevStyle:
			out.Summary.Style++
		}
	}
	return out
}

func firstFix(ctx diag.FixBuildContext, d diag.Diagnostic) (FixJSON, bool) {
	for _, f := range d.Fixes {
		resolved, err := f.Resolve(ctx)
		if err != nil || len(resolved.Edits) == 0 {
			continue
		}
		edit := resolved.Edits[0]
		kind := "replace"
		if edit.Span.Start == edit.Span.End {
			kind = "insert"
		} else if edit.NewText == "" {
			kind = "delete"
		}
		return FixJSON{Kind: kind, NewText: edit.NewText}, true
	}
	return FixJSON{}, false
}

// JSON writes diagnostics in the machine-readable diagnostic format.
func JSON(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildOutput(diags, fs))
}
