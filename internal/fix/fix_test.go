package fix

import (
	"os"
	"path/filepath"
	"testing"

	"bashrs/internal/diag"
	"bashrs/internal/source"
)

func writeTempScript(t *testing.T, content string) (string, *source.FileSet, source.FileID) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	fset := source.NewFileSet()
	id, err := fset.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return path, fset, id
}

func fixDiag(file source.FileID, start, end uint32, old, new string) diag.Diagnostic {
	d := diag.New(diag.SevWarning, diag.SC2086,
		source.Span{File: file, Start: source.Position{Line: 1, Col: start + 1}, End: source.Position{Line: 1, Col: end + 1}},
		"double quote to prevent globbing and word splitting")
	return d.WithFix("double quote the expansion", diag.TextEdit{
		Span:    source.ByteSpan{File: file, Start: start, End: end},
		NewText: new,
		OldText: old,
	})
}

func TestApplyReplacesSpan(t *testing.T) {
	path, fset, id := writeTempScript(t, "echo $VAR\n")
	result, err := Apply(fset, []diag.Diagnostic{fixDiag(id, 5, 9, "$VAR", `"$VAR"`)}, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Applied) != 1 {
		t.Fatalf("applied = %d (skipped: %v)", len(result.Applied), result.Skipped)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "echo \"$VAR\"\n" {
		t.Errorf("file = %q", got)
	}
}

func TestApplySkipsGuardMismatch(t *testing.T) {
	_, fset, id := writeTempScript(t, "echo $VAR\n")
	result, err := Apply(fset, []diag.Diagnostic{fixDiag(id, 5, 9, "$OTHER", `"$OTHER"`)}, ApplyOptions{Mode: ApplyModeAll})
	if err != ErrNoFixes {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(result.Applied) != 0 {
		t.Errorf("applied = %v, want none (guard mismatch)", result.Applied)
	}
	if len(result.Skipped) != 1 {
		t.Errorf("skipped = %v, want 1", result.Skipped)
	}
}

func TestApplySkipsOverlappingFixes(t *testing.T) {
	path, fset, id := writeTempScript(t, "echo $VAR\n")
	diags := []diag.Diagnostic{
		fixDiag(id, 5, 9, "$VAR", `"$VAR"`),
		fixDiag(id, 5, 9, "$VAR", `'$VAR'`),
	}
	result, err := Apply(fset, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Applied) != 1 {
		t.Fatalf("applied = %d, want exactly 1 of the overlapping pair", len(result.Applied))
	}
	got, _ := os.ReadFile(path)
	if string(got) != "echo \"$VAR\"\n" && string(got) != "echo '$VAR'\n" {
		t.Errorf("file = %q", got)
	}
}

func TestApplyVirtualFileSkipped(t *testing.T) {
	fset := source.NewFileSet()
	id := fset.AddVirtual("<stdin>", []byte("echo $VAR\n"))
	result, err := Apply(fset, []diag.Diagnostic{fixDiag(id, 5, 9, "$VAR", `"$VAR"`)}, ApplyOptions{Mode: ApplyModeAll})
	if err != ErrNoFixes {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(result.Applied) != 0 {
		t.Errorf("applied to a virtual file: %v", result.Applied)
	}
}
