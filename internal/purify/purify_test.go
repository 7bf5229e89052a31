package purify

import (
	"strings"
	"testing"

	"bashrs/internal/diag"
	"bashrs/internal/parser"
	"bashrs/internal/posix"
	"bashrs/internal/source"
)

func purifySource(t *testing.T, src string) (Result, string) {
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
	result := Purify(file, script, DefaultPolicy(), 500)
	if result.Refused {
		return result, ""
	}
	return result, string(posix.Format(result.Script, posix.Options{}).Source)
}

func codesOf(diags []diag.Diagnostic) map[diag.Code]int {
	out := map[diag.Code]int{}
	for _, d := range diags {
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

func TestPurifyDeployScript(t *testing.T) {
	result, out := purifySource(t, deployScript)
	want := "#!/bin/sh\n" +
		"set -eu\n" +
		"TEMP=/tmp/app-\"${VERSION:-unknown}\"\n" +
		"RELEASE=\"release-${VERSION:-unknown}\"\n" +
		"mkdir -p /app/releases/\"$RELEASE\"\n" +
		"rm -f /app/current\n" +
		"ln -f -s /app/releases/\"$RELEASE\" /app/current\n"
	if out != want {
		t.Errorf("purified output:\n%s\nwant:\n%s", out, want)
	}
	codes := codesOf(result.Diagnostics)
	for _, code := range []diag.Code{diag.DET002, diag.DET003, diag.IDEM001, diag.IDEM002, diag.IDEM003, diag.SEC002, diag.BASH006} {
		if codes[code] == 0 {
			t.Errorf("missing diagnostic %s (got %v)", code, codes)
		}
	}
}

func TestPurifyIdempotent(t *testing.T) {
	inputs := []string{
		deployScript,
		"if [[ \"$x\" == \"y\" ]]; then echo yes; fi\n",
		"for f in *.txt; do mv $f /tmp; done\n",
		"cd /srv/app\nmkdir logs\n",
		"echo ${A:-${B:-default}}\n",
	}
	for _, src := range inputs {
		_, once := purifySource(t, src)
		if once == "" {
			t.Fatalf("purify of %q produced no output", src)
		}
		_, twice := purifySource(t, once)
		if twice != once {
			t.Errorf("purify not idempotent for %q:\nfirst:\n%s\nsecond:\n%s", src, once, twice)
		}
	}
}

func TestPurifyRefusesEval(t *testing.T) {
	result, out := purifySource(t, `eval "$user_input"`+"\n")
	if !result.Refused {
		t.Fatal("purify did not refuse eval of an expansion")
	}
	if out != "" {
		t.Error("refused purify still produced output")
	}
	found := false
	for _, d := range result.Diagnostics {
		if d.Code == diag.SEC001 && d.Severity == diag.SevError {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v, want SEC001 error", result.Diagnostics)
	}
}

func TestPurifyRefusesCurlPipeSh(t *testing.T) {
	result, _ := purifySource(t, "curl https://example.com/install.sh | sh\n")
	if !result.Refused {
		t.Fatal("purify did not refuse curl|sh")
	}
	found := false
	for _, d := range result.Diagnostics {
		if d.Code == diag.SEC008 && d.Severity == diag.SevError {
			found = true
		}
	}
	if !found {
		t.Error("missing SEC008 error diagnostic")
	}
}

func TestPurifyAllowsLiteralEval(t *testing.T) {
	result, out := purifySource(t, "eval true\n")
	if result.Refused {
		t.Fatal("purify refused eval of a literal")
	}
	if !strings.Contains(out, "eval true") {
		t.Errorf("output = %q", out)
	}
}

func TestPurifyDowngradesExtendedTest(t *testing.T) {
	result, out := purifySource(t, "if [[ \"$x\" == \"y\" ]]; then echo yes; fi\n")
	if !strings.Contains(out, `if [ "$x" = "y" ]; then`) {
		t.Errorf("output = %q, want downgraded [ ] test", out)
	}
	if codesOf(result.Diagnostics)[diag.BASH007] == 0 {
		t.Error("missing BASH007 diagnostic")
	}
}

func TestPurifyGlobLoop(t *testing.T) {
	_, out := purifySource(t, "for f in *.txt; do mv $f /tmp; done\n")
	want := "#!/bin/sh\n" +
		"set -eu\n" +
		"for f in *.txt; do\n" +
		"  mv -- \"$f\" /tmp\n" +
		"done\n"
	if out != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}

func TestPurifyCdGuard(t *testing.T) {
	result, out := purifySource(t, "cd /srv/app\nmkdir logs\n")
	if !strings.Contains(out, "cd /srv/app || exit 1") {
		t.Errorf("output = %q, want guarded cd", out)
	}
	if !strings.Contains(out, "mkdir -p logs") {
		t.Errorf("output = %q, want mkdir -p", out)
	}
	codes := codesOf(result.Diagnostics)
	if codes[diag.BASH003] == 0 || codes[diag.IDEM001] == 0 {
		t.Errorf("codes = %v, want BASH003 and IDEM001", codes)
	}
}

func TestPurifyNestedExpansionPreserved(t *testing.T) {
	_, out := purifySource(t, "echo ${A:-${B:-default}}\n")
	if !strings.Contains(out, `"${A:-${B:-default}}"`) {
		t.Errorf("output = %q, want quoted nested expansion", out)
	}
}

func TestPurifyAppendsSortToLs(t *testing.T) {
	result, out := purifySource(t, "FILES=$(ls /data)\n")
	if !strings.Contains(out, "$(ls /data | sort)") {
		t.Errorf("output = %q, want | sort appended", out)
	}
	if codesOf(result.Diagnostics)[diag.DET004] == 0 {
		t.Error("missing DET004 diagnostic")
	}
}

func TestPurifyBraceRange(t *testing.T) {
	_, out := purifySource(t, "for i in {1..5}; do echo $i; done\n")
	if !strings.Contains(out, "$(seq 1 5)") {
		t.Errorf("output = %q, want $(seq 1 5)", out)
	}
}

func TestPurifyOutErrRedir(t *testing.T) {
	_, out := purifySource(t, "cmd &>log\n")
	if !strings.Contains(out, ">log 2>&1") {
		t.Errorf("output = %q, want split redirection", out)
	}
}

func TestPurifyRmGuard(t *testing.T) {
	result, out := purifySource(t, `rm -rf $TARGET`+"\n")
	if !strings.Contains(out, `rm -rf "${TARGET:?must be set}"`) {
		t.Errorf("output = %q, want guarded rm target", out)
	}
	if codesOf(result.Diagnostics)[diag.SEC009] == 0 {
		t.Error("missing SEC009 diagnostic")
	}
}

func TestPurifyPipefailPolicy(t *testing.T) {
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte("echo hi\n"))
	file := fset.Get(id)
	script, _ := parser.Parse(fset, file, parser.Options{})
	policy := Policy{Version: "unknown", PipefailInsert: true}
	result := Purify(file, script, policy, 100)
	out := string(posix.Format(result.Script, posix.Options{}).Source)
	want := "#!/bin/sh\nset -eu\nset -o pipefail\necho hi\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestPurifyVersionTokenConfigurable(t *testing.T) {
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte("echo $RANDOM\n"))
	file := fset.Get(id)
	script, _ := parser.Parse(fset, file, parser.Options{})
	result := Purify(file, script, Policy{Version: "1.2.3"}, 100)
	out := string(posix.Format(result.Script, posix.Options{}).Source)
	if !strings.Contains(out, `"${VERSION:-1.2.3}"`) {
		t.Errorf("output = %q, want configured version token", out)
	}
}

func TestPurifyNeverDropsStatements(t *testing.T) {
	_, out := purifySource(t, deployScript)
	inLines := strings.Count(deployScript, "\n") - 1 // minus shebang
	outLines := strings.Count(out, "\n") - 2         // minus shebang and set -eu
	if outLines < inLines {
		t.Errorf("output has %d statement lines, input had %d", outLines, inLines)
	}
}
