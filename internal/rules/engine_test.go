package rules

import (
	"context"
	"reflect"
	"testing"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/parser"
	"bashrs/internal/source"
)

func lintSource(t *testing.T, src string, cfg Config) Result {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte(src))
	file := fset.Get(id)
	script, bag := parser.Parse(fset, file, parser.Options{})
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s %s %s", d.Severity, d.Code, d.Message)
		}
		t.Fatalf("parse of %q failed", src)
	}
	result, err := NewEngine(nil).Run(context.Background(), file, script, cfg, 500)
	if err != nil {
		t.Fatalf("engine run: %v", err)
	}
	return result
}

func codes(r Result) map[diag.Code]int {
	out := map[diag.Code]int{}
	for _, d := range r.Diagnostics {
		out[d.Code]++
	}
	return out
}

const deployScript = `#!/bin/bash
TEMP=/tmp/app-$$
RELEASE="release-$(date +%s)"
mkdir /app/releases/$RELEASE
rm /app/current
ln -s /app/releases/$RELEASE /app/current
`

func TestLintDeployScript(t *testing.T) {
	result := lintSource(t, deployScript, Config{Target: ShellSh})
	got := codes(result)
	for _, code := range []diag.Code{diag.DET003, diag.DET002, diag.IDEM001, diag.IDEM002, diag.IDEM003, diag.SC2086} {
		if got[code] == 0 {
			t.Errorf("missing %s in %v", code, got)
		}
	}
	if got[diag.SC2086] < 2 {
		t.Errorf("SC2086 fired %d times, want >= 2", got[diag.SC2086])
	}
}

func TestLintEvalInjection(t *testing.T) {
	result := lintSource(t, `eval "$user_input"`+"\n", Config{Target: ShellSh})
	found := false
	for _, d := range result.Diagnostics {
		if d.Code == diag.SEC001 && d.Severity == diag.SevError {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v, want SEC001 error", codes(result))
	}
}

func TestLintCurlPipeShell(t *testing.T) {
	result := lintSource(t, "curl https://example.com/install.sh | sh\n", Config{Target: ShellSh})
	found := false
	for _, d := range result.Diagnostics {
		if d.Code == diag.SEC008 && d.Severity == diag.SevError {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v, want SEC008 error", codes(result))
	}
}

func TestLintExtendedTestPortability(t *testing.T) {
	src := "if [[ \"$x\" == \"y\" ]]; then echo yes; fi\n"
	shResult := lintSource(t, src, Config{Target: ShellSh})
	if codes(shResult)[diag.BASH007] == 0 {
		t.Errorf("--shell sh: missing BASH007 in %v", codes(shResult))
	}
	bashResult := lintSource(t, src, Config{Target: ShellBash})
	if codes(bashResult)[diag.BASH007] != 0 {
		t.Errorf("--shell bash: BASH007 should not fire")
	}
}

func TestLintDiagnosticStability(t *testing.T) {
	first := lintSource(t, deployScript, Config{Target: ShellSh})
	second := lintSource(t, deployScript, Config{Target: ShellSh})
	if len(first.Diagnostics) != len(second.Diagnostics) {
		t.Fatalf("run sizes differ: %d vs %d", len(first.Diagnostics), len(second.Diagnostics))
	}
	for i := range first.Diagnostics {
		a, b := first.Diagnostics[i], second.Diagnostics[i]
		if a.Code != b.Code || a.Primary != b.Primary || a.Message != b.Message {
			t.Errorf("diagnostic %d differs: %v vs %v", i, a, b)
		}
	}
}

func TestLintSpanSanity(t *testing.T) {
	result := lintSource(t, deployScript, Config{Target: ShellSh})
	for _, d := range result.Diagnostics {
		sp := d.Primary
		if sp.Start.Line < 1 || sp.Start.Col < 1 {
			t.Errorf("%s: span start %v below 1", d.Code, sp.Start)
		}
		if sp.End.Line < sp.Start.Line || (sp.End.Line == sp.Start.Line && sp.End.Col < sp.Start.Col) {
			t.Errorf("%s: span end %v before start %v", d.Code, sp.End, sp.Start)
		}
	}
}

func TestLintMinSeverityFilter(t *testing.T) {
	result := lintSource(t, deployScript, Config{Target: ShellSh, MinSeverity: diag.SevError})
	for _, d := range result.Diagnostics {
		if d.Severity < diag.SevError {
			t.Errorf("severity filter leaked %s (%s)", d.Code, d.Severity)
		}
	}
}

func TestLintSuppressionNextLine(t *testing.T) {
	src := "# bashrs-disable-next-line IDEM001\nmkdir /var/x\n"
	result := lintSource(t, src, Config{Target: ShellSh})
	if codes(result)[diag.IDEM001] != 0 {
		t.Errorf("IDEM001 not suppressed: %v", codes(result))
	}
}

func TestLintSuppressionBlock(t *testing.T) {
	src := "# bashrs-disable IDEM001\nmkdir /var/x\n# bashrs-enable IDEM001\nmkdir /var/y\n"
	result := lintSource(t, src, Config{Target: ShellSh})
	if codes(result)[diag.IDEM001] != 1 {
		t.Errorf("IDEM001 fired %d times, want exactly 1 (second mkdir)", codes(result)[diag.IDEM001])
	}
}

func TestLintSuppressionUnknownCode(t *testing.T) {
	src := "# bashrs-disable-next-line NOPE999\necho hi\n"
	result := lintSource(t, src, Config{Target: ShellSh})
	if codes(result)[diag.CONFIG001] == 0 {
		t.Errorf("unknown suppression code did not produce CONFIG001: %v", codes(result))
	}
}

func TestLintLocalOutsideFunctionSeverity(t *testing.T) {
	src := "local x=1\n"
	shResult := lintSource(t, src, Config{Target: ShellSh})
	foundErr := false
	for _, d := range shResult.Diagnostics {
		if d.Code == diag.BASH014 && d.Severity == diag.SevError {
			foundErr = true
		}
	}
	if !foundErr {
		t.Errorf("--shell sh: local outside function should be an Error: %v", codes(shResult))
	}
	bashResult := lintSource(t, src, Config{Target: ShellBash})
	for _, d := range bashResult.Diagnostics {
		if d.Code == diag.BASH014 && d.Severity != diag.SevInfo {
			t.Errorf("--shell bash: local severity = %s, want INFO", d.Severity)
		}
	}
}

func TestCompatibilityApplies(t *testing.T) {
	cases := []struct {
		compat Compatibility
		target Shell
		want   bool
	}{
		{CompatUniversal, ShellSh, true},
		{CompatUniversal, ShellZsh, true},
		{CompatBashOnly, ShellBash, true},
		{CompatBashOnly, ShellSh, false},
		{CompatZshOnly, ShellZsh, true},
		{CompatZshOnly, ShellBash, false},
		{CompatShOnly, ShellSh, true},
		{CompatShOnly, ShellDash, true},
		{CompatShOnly, ShellBash, false},
		{CompatBashZsh, ShellBash, true},
		{CompatBashZsh, ShellKsh, false},
		{CompatNotSh, ShellSh, false},
		{CompatNotSh, ShellBash, true},
		{CompatNA, ShellSh, true},
	}
	for _, c := range cases {
		if got := c.compat.Applies(c.target); got != c.want {
			t.Errorf("%v.Applies(%v) = %v, want %v", c.compat, c.target, got, c.want)
		}
	}
}

func TestShellFilterExcludesTaggedRules(t *testing.T) {
	reg := NewRegistry()
	noop := func(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {}
	reg.Register(Rule{Code: "BASH901", Compatibility: CompatBashOnly, Dialect: DialectSh, Script: noop})
	reg.Register(Rule{Code: "BASH902", Compatibility: CompatZshOnly, Dialect: DialectSh, Script: noop})
	reg.Register(Rule{Code: "BASH903", Compatibility: CompatUniversal, Dialect: DialectSh, Script: noop})

	forSh := reg.ForDialect(DialectSh, ShellSh)
	var got []diag.Code
	for _, r := range forSh {
		got = append(got, r.Code)
	}
	if !reflect.DeepEqual(got, []diag.Code{"BASH903"}) {
		t.Errorf("sh rules = %v, want only BASH903", got)
	}

	forBash := reg.ForDialect(DialectSh, ShellBash)
	got = nil
	for _, r := range forBash {
		got = append(got, r.Code)
	}
	if !reflect.DeepEqual(got, []diag.Code{"BASH901", "BASH903"}) {
		t.Errorf("bash rules = %v", got)
	}
}

func TestRulePanicIsolation(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Rule{Code: "BASH904", Compatibility: CompatUniversal, Dialect: DialectSh,
		Script: func(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
			panic("boom")
		}})
	reg.Register(Rule{Code: "BASH905", Compatibility: CompatUniversal, Dialect: DialectSh,
		Script: func(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
			d := diag.New(diag.SevInfo, "BASH905", source.Span{File: file.ID, Start: source.Position{Line: 1, Col: 1}, End: source.Position{Line: 1, Col: 1}}, "ran")
			bag.Add(&d)
		}})

	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte("echo hi\n"))
	file := fset.Get(id)
	script, _ := parser.Parse(fset, file, parser.Options{})
	result, err := NewEngine(reg).Run(context.Background(), file, script, Config{Target: ShellSh}, 100)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := codes(result)
	if got[diag.CONFIG002] != 1 {
		t.Errorf("panicking rule produced %d CONFIG002, want 1", got[diag.CONFIG002])
	}
	if got["BASH905"] != 1 {
		t.Errorf("healthy rule did not run alongside panicking one: %v", got)
	}
}

func TestDisabledCodes(t *testing.T) {
	result := lintSource(t, "mkdir /var/x\n", Config{Target: ShellSh, DisabledCodes: map[diag.Code]bool{diag.IDEM001: true}})
	if codes(result)[diag.IDEM001] != 0 {
		t.Errorf("disabled rule still fired: %v", codes(result))
	}
}

func TestEveryRegisteredRuleHasTagAndBody(t *testing.T) {
	for _, r := range Default.All() {
		if r.Dialect == DialectSh && r.Script == nil {
			t.Errorf("%s: shell rule with no body", r.Code)
		}
		if r.Dialect != DialectSh && r.Compatibility != CompatNA {
			t.Errorf("%s: file-format rule must be CompatNA", r.Code)
		}
		if !diag.IsKnownCode(r.Code) {
			t.Errorf("%s: registered code missing from the catalog", r.Code)
		}
	}
}
