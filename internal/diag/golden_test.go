package diag

import (
	"testing"

	"bashrs/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/golden/sample.sg", []byte("a\nb\n"), 0)
	internalFile := fs.Add("/workspace/internal/helper.sg", []byte("x\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: source.Position{Line: 1, Col: 1}, End: source.Position{Line: 1, Col: 2}},
			Notes: []Note{
				{Span: source.Span{File: internalFile, Start: source.Position{Line: 1, Col: 1}, End: source.Position{Line: 1, Col: 1}}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: source.Position{Line: 2, Col: 1}, End: source.Position{Line: 2, Col: 2}}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SEC001,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: source.Position{Line: 2, Col: 1}, End: source.Position{Line: 2, Col: 2}},
		},
	}

	expected := "error SYN001 testdata/golden/sample.sg:1:1 first line second\n" +
		"note SYN001 testdata/golden/sample.sg:2:1 note line\n" +
		"warning SEC001 testdata/golden/sample.sg:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
