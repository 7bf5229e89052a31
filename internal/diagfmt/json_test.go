package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/parser"
	"bashrs/internal/source"
)

func parseForDump(t *testing.T, fset *source.FileSet, f *source.File) *ast.Script {
	t.Helper()
	script, bag := parser.Parse(fset, f, parser.Options{})
	if bag.HasErrors() {
		t.Fatal("parse failed")
	}
	return script
}

func sampleDiagnostics(fset *source.FileSet) []diag.Diagnostic {
	id := fset.AddVirtual("test.sh", []byte("echo $VAR\n"))
	d := diag.New(diag.SevWarning, diag.SC2086,
		source.Span{File: id, Start: source.Position{Line: 1, Col: 6}, End: source.Position{Line: 1, Col: 10}},
		"double quote to prevent globbing and word splitting")
	d = d.WithFix("double quote the expansion", diag.TextEdit{
		Span:    source.ByteSpan{File: id, Start: 5, End: 9},
		NewText: `"$VAR"`,
		OldText: "$VAR",
	})
	e := diag.New(diag.SevError, diag.SEC001,
		source.Span{File: id, Start: source.Position{Line: 1, Col: 1}, End: source.Position{Line: 1, Col: 5}},
		"eval executes its argument as shell code")
	return []diag.Diagnostic{d, e}
}

func TestJSONShape(t *testing.T) {
	fset := source.NewFileSet()
	diags := sampleDiagnostics(fset)

	var buf bytes.Buffer
	if err := JSON(&buf, diags, fset); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded struct {
		Diagnostics []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
			Message  string `json:"message"`
			Span     struct {
				Start struct {
					Line uint32 `json:"line"`
					Col  uint32 `json:"col"`
				} `json:"start"`
				End struct {
					Line uint32 `json:"line"`
					Col  uint32 `json:"col"`
				} `json:"end"`
			} `json:"span"`
			Fix *struct {
				Kind    string `json:"kind"`
				NewText string `json:"new_text"`
			} `json:"fix"`
		} `json:"diagnostics"`
		Summary struct {
			Errors   int `json:"errors"`
			Warnings int `json:"warnings"`
			Info     int `json:"info"`
			Style    int `json:"style"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(decoded.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %d, want 2", len(decoded.Diagnostics))
	}
	first := decoded.Diagnostics[0]
	if first.Code != "SC2086" || first.Severity != "Warning" {
		t.Errorf("first = %+v", first)
	}
	if first.Span.Start.Line != 1 || first.Span.Start.Col != 6 || first.Span.End.Col != 10 {
		t.Errorf("span = %+v", first.Span)
	}
	if first.Fix == nil || first.Fix.Kind != "replace" || first.Fix.NewText != `"$VAR"` {
		t.Errorf("fix = %+v", first.Fix)
	}
	second := decoded.Diagnostics[1]
	if second.Severity != "Error" || second.Fix != nil {
		t.Errorf("second = %+v", second)
	}
	if decoded.Summary.Errors != 1 || decoded.Summary.Warnings != 1 || decoded.Summary.Info != 0 || decoded.Summary.Style != 0 {
		t.Errorf("summary = %+v", decoded.Summary)
	}
}

func TestPrettyPlain(t *testing.T) {
	fset := source.NewFileSet()
	diags := sampleDiagnostics(fset)

	var buf bytes.Buffer
	Pretty(&buf, diags, fset, PrettyOpts{Color: false, PathMode: PathModeBasename})
	out := buf.String()
	if !strings.Contains(out, "test.sh:1:6: WARNING SC2086:") {
		t.Errorf("output missing header line:\n%s", out)
	}
	if !strings.Contains(out, "echo $VAR") {
		t.Errorf("output missing source context:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("output missing caret underline:\n%s", out)
	}
}

func TestSummaryPlain(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, map[diag.Severity]int{diag.SevError: 1, diag.SevWarning: 2}, false)
	got := strings.TrimSpace(buf.String())
	want := "1 error, 2 warnings, 0 info, 0 style"
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestDumpScript(t *testing.T) {
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte("echo ${A:-${B:-default}}\n"))
	f := fset.Get(id)
	script := parseForDump(t, fset, f)
	dump := Dump(script, fset)
	if dump["kind"] != "script" {
		t.Errorf("root kind = %v", dump["kind"])
	}
	data, err := json.Marshal(dump)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, frag := range []string{`"command"`, `"param-expansion"`, `"name":"A"`, `"name":"B"`} {
		if !strings.Contains(string(data), frag) {
			t.Errorf("dump missing %s:\n%s", frag, data)
		}
	}
}
