package suppress

import (
	"testing"

	"bashrs/internal/diag"
	"bashrs/internal/source"
)

func scanFile(t *testing.T, content string) (*source.File, []Directive) {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte(content))
	f := fset.Get(id)
	return f, Scan(f)
}

func diagAt(code diag.Code, line uint32) diag.Diagnostic {
	pos := source.Position{Line: line, Col: 1}
	return diag.New(diag.SevWarning, code, source.Span{Start: pos, End: pos}, "msg")
}

func TestScanDirectiveForms(t *testing.T) {
	_, dirs := scanFile(t,
		"# bashrs-disable IDEM001,IDEM002\n"+
			"# bashrs-disable-next-line SC2086\n"+
			"mkdir x # bashrs-disable-line IDEM001\n"+
			"# bashrs-enable IDEM001\n")
	if len(dirs) != 4 {
		t.Fatalf("directives = %d, want 4", len(dirs))
	}
	if dirs[0].Kind != KindDisable || len(dirs[0].Codes) != 2 {
		t.Errorf("dir 0 = %+v", dirs[0])
	}
	if dirs[1].Kind != KindDisableNextLine || dirs[1].Line != 2 {
		t.Errorf("dir 1 = %+v", dirs[1])
	}
	if dirs[2].Kind != KindDisableLine || dirs[2].Line != 3 {
		t.Errorf("dir 2 = %+v", dirs[2])
	}
	if dirs[3].Kind != KindEnable {
		t.Errorf("dir 3 = %+v", dirs[3])
	}
}

func TestApplyNextLine(t *testing.T) {
	_, dirs := scanFile(t, "# bashrs-disable-next-line IDEM001\nmkdir x\n")
	kept := Apply([]diag.Diagnostic{diagAt(diag.IDEM001, 2), diagAt(diag.IDEM002, 2)}, dirs)
	if len(kept) != 1 || kept[0].Code != diag.IDEM002 {
		t.Errorf("kept = %v", kept)
	}
}

func TestApplyLine(t *testing.T) {
	_, dirs := scanFile(t, "mkdir x # bashrs-disable-line IDEM001\n")
	kept := Apply([]diag.Diagnostic{diagAt(diag.IDEM001, 1)}, dirs)
	if len(kept) != 0 {
		t.Errorf("kept = %v, want none", kept)
	}
}

func TestApplyBlockScope(t *testing.T) {
	_, dirs := scanFile(t, "# bashrs-disable IDEM001\nmkdir x\n# bashrs-enable IDEM001\nmkdir y\n")
	kept := Apply([]diag.Diagnostic{diagAt(diag.IDEM001, 2), diagAt(diag.IDEM001, 4)}, dirs)
	if len(kept) != 1 || kept[0].Primary.Start.Line != 4 {
		t.Errorf("kept = %v, want only line 4", kept)
	}
}

func TestApplyDisableAllCodes(t *testing.T) {
	_, dirs := scanFile(t, "# bashrs-disable\nmkdir x\n")
	kept := Apply([]diag.Diagnostic{diagAt(diag.IDEM001, 2), diagAt(diag.SC2086, 2)}, dirs)
	if len(kept) != 0 {
		t.Errorf("kept = %v, want none", kept)
	}
}

func TestApplyUnknownCodeWarns(t *testing.T) {
	_, dirs := scanFile(t, "# bashrs-disable-next-line NOPE999\necho hi\n")
	out := Apply(nil, dirs)
	if len(out) != 1 || out[0].Code != diag.CONFIG001 || out[0].Severity != diag.SevWarning {
		t.Errorf("out = %v, want one CONFIG001 warning", out)
	}
}

func TestDirectiveDoesNotSuppressOtherLines(t *testing.T) {
	_, dirs := scanFile(t, "# bashrs-disable-next-line IDEM001\nmkdir x\nmkdir y\n")
	kept := Apply([]diag.Diagnostic{diagAt(diag.IDEM001, 3)}, dirs)
	if len(kept) != 1 {
		t.Errorf("kept = %v, want the line-3 diagnostic", kept)
	}
}
