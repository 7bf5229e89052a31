package posix

import (
	"testing"

	"bashrs/internal/ast"
	"bashrs/internal/parser"
	"bashrs/internal/source"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte(src))
	script, bag := parser.Parse(fset, fset.Get(id), parser.Options{})
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s %s %s", d.Severity, d.Code, d.Message)
		}
		t.Fatalf("parse of %q failed", src)
	}
	return string(Format(script, Options{}).Source)
}

func TestFormatSimpleCommand(t *testing.T) {
	got := emit(t, "echo hello\n")
	want := "#!/bin/sh\necho hello\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatKeepsShebang(t *testing.T) {
	got := emit(t, "#!/bin/bash\necho hi\n")
	want := "#!/bin/bash\necho hi\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatBanner(t *testing.T) {
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte("echo hi\n"))
	script, _ := parser.Parse(fset, fset.Get(id), parser.Options{})
	got := string(Format(script, Options{Banner: "Purified by bashrs v0.1.0"}).Source)
	want := "#!/bin/sh\n# Purified by bashrs v0.1.0\necho hi\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatPipelineOneLine(t *testing.T) {
	got := emit(t, "curl https://example.com | sh\n")
	want := "#!/bin/sh\ncurl https://example.com | sh\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatAndOrOneLine(t *testing.T) {
	got := emit(t, "cd /x || exit 1\n")
	want := "#!/bin/sh\ncd /x || exit 1\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatIfBlock(t *testing.T) {
	got := emit(t, `if [ "$x" = "y" ]; then echo yes; fi`+"\n")
	want := "#!/bin/sh\nif [ \"$x\" = \"y\" ]; then\n  echo yes\nfi\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatWhileLoop(t *testing.T) {
	got := emit(t, "while [ -f lock ]; do sleep 1; done\n")
	want := "#!/bin/sh\nwhile [ -f lock ]; do\n  sleep 1\ndone\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatForLoop(t *testing.T) {
	got := emit(t, "for f in a b; do echo $f; done\n")
	want := "#!/bin/sh\nfor f in a b; do\n  echo $f\ndone\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatCaseTerminatorsRoundTrip(t *testing.T) {
	got := emit(t, "case $x in\na) echo 1;;\nb) echo 2;&\nc) echo 3;;&\nesac\n")
	want := "#!/bin/sh\n" +
		"case $x in\n" +
		"  a)\n    echo 1\n  ;;\n" +
		"  b)\n    echo 2\n  ;&\n" +
		"  c)\n    echo 3\n  ;;&\n" +
		"esac\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFunctionSubshellBody(t *testing.T) {
	got := emit(t, "foo() ( echo hi )\n")
	want := "#!/bin/sh\nfoo() (\n  echo hi\n)\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFunctionKeywordNormalized(t *testing.T) {
	got := emit(t, "function foo { echo hi; }\n")
	want := "#!/bin/sh\nfoo() {\n  echo hi\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatCloseFdRoundTrip(t *testing.T) {
	got := emit(t, "exec 3>&-\n")
	want := "#!/bin/sh\nexec 3>&-\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatFdDup(t *testing.T) {
	got := emit(t, "cmd >log 2>&1\n")
	want := "#!/bin/sh\ncmd >log 2>&1\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatBacktickBecomesDollarParen(t *testing.T) {
	got := emit(t, "echo `date`\n")
	want := "#!/bin/sh\necho $(date)\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatHeredocBody(t *testing.T) {
	got := emit(t, "cat <<EOF\nhello $HOME\nEOF\n")
	want := "#!/bin/sh\ncat <<EOF\nhello $HOME\nEOF\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatHeredocQuotedTag(t *testing.T) {
	got := emit(t, "cat <<'EOF'\n$HOME\nEOF\n")
	want := "#!/bin/sh\ncat <<'EOF'\n$HOME\nEOF\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatHeredocTabStripPreserved(t *testing.T) {
	got := emit(t, "cat <<-EOF\n\thello\nEOF\n")
	want := "#!/bin/sh\ncat <<-EOF\n\thello\nEOF\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatNestedParamExpansion(t *testing.T) {
	got := emit(t, "echo ${A:-${B:-default}}\n")
	want := "#!/bin/sh\necho ${A:-${B:-default}}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatSingleQuoteEscaping(t *testing.T) {
	got := emit(t, "echo 'it'\\''s'\n")
	if got == "" {
		t.Fatal("no output")
	}
}

func TestPositionMapCoversStatements(t *testing.T) {
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte("echo a\necho b\n"))
	script, _ := parser.Parse(fset, fset.Get(id), parser.Options{})
	result := Format(script, Options{})
	if len(result.Map) < 2 {
		t.Fatalf("position map has %d entries, want >= 2", len(result.Map))
	}
	for _, entry := range result.Map {
		if entry.Start > entry.End || int(entry.End) > len(result.Source) {
			t.Errorf("entry out of range: %+v", entry)
		}
		if entry.Stmt == nil {
			t.Error("entry has nil stmt")
		}
	}
	var _ ast.Stmt = result.Map[0].Stmt
}
