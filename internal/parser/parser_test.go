package parser

import (
	"testing"

	"bashrs/internal/ast"
	"bashrs/internal/source"
)

func parseOK(t *testing.T, src string) *ast.Script {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte(src))
	script, bag := Parse(fset, fset.Get(id), Options{})
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s %s %s", d.Severity, d.Code, d.Message)
		}
		t.Fatalf("parse of %q failed", src)
	}
	return script
}

func parseErr(t *testing.T, src string) []string {
	t.Helper()
	fset := source.NewFileSet()
	id := fset.AddVirtual("test.sh", []byte(src))
	_, bag := Parse(fset, fset.Get(id), Options{})
	if !bag.HasErrors() {
		t.Fatalf("parse of %q unexpectedly succeeded", src)
	}
	var codes []string
	for _, d := range bag.Items() {
		codes = append(codes, d.Code.String())
	}
	return codes
}

func TestParseSimpleCommand(t *testing.T) {
	script := parseOK(t, "echo hello world\n")
	if len(script.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(script.Items))
	}
	cmd, ok := script.Items[0].(*ast.Command)
	if !ok {
		t.Fatalf("item is %T, want *ast.Command", script.Items[0])
	}
	if name, _ := literalWordText(cmd.Name); name != "echo" {
		t.Errorf("name = %q, want echo", name)
	}
	if len(cmd.Args) != 2 {
		t.Fatalf("args = %d, want 2", len(cmd.Args))
	}
}

func literalWordText(w *ast.Word) (string, bool) {
	if w == nil || len(w.Parts) != 1 {
		return "", false
	}
	lit, ok := w.Parts[0].(*ast.Literal)
	if !ok {
		return "", false
	}
	return lit.Text, true
}

func TestParseShebang(t *testing.T) {
	script := parseOK(t, "#!/bin/bash\necho hi\n")
	if script.Shebang != "#!/bin/bash" {
		t.Errorf("shebang = %q", script.Shebang)
	}
	if len(script.Items) != 1 {
		t.Errorf("items = %d, want 1", len(script.Items))
	}
}

func TestParseAssignment(t *testing.T) {
	script := parseOK(t, "TEMP=/tmp/app-$$\n")
	a, ok := script.Items[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("item is %T, want *ast.Assignment", script.Items[0])
	}
	if a.Name != "TEMP" || a.Op != ast.AssignSet {
		t.Errorf("got name=%q op=%v", a.Name, a.Op)
	}
	if len(a.Value.Parts) != 2 {
		t.Fatalf("value parts = %d, want 2", len(a.Value.Parts))
	}
	if lit, ok := a.Value.Parts[0].(*ast.Literal); !ok || lit.Text != "/tmp/app-" {
		t.Errorf("part 0 = %#v", a.Value.Parts[0])
	}
	if pe, ok := a.Value.Parts[1].(*ast.ParamExpansion); !ok || pe.Name != "$" {
		t.Errorf("part 1 = %#v", a.Value.Parts[1])
	}
}

func TestParseExportedLooksLikeCommand(t *testing.T) {
	// `export FOO=bar` parses as a command named export whose argument
	// carries the assignment text; the rule engine treats it that way too.
	script := parseOK(t, "export FOO=bar\n")
	if _, ok := script.Items[0].(*ast.Command); !ok {
		t.Fatalf("item is %T, want *ast.Command", script.Items[0])
	}
}

func TestParsePipelineAndOr(t *testing.T) {
	script := parseOK(t, "a | b && c\n")
	andor, ok := script.Items[0].(*ast.AndOr)
	if !ok {
		t.Fatalf("item is %T, want *ast.AndOr", script.Items[0])
	}
	if andor.Op != ast.AndOrAnd {
		t.Errorf("op = %v, want AndOrAnd", andor.Op)
	}
	pipe, ok := andor.Left.(*ast.Pipeline)
	if !ok {
		t.Fatalf("left is %T, want *ast.Pipeline", andor.Left)
	}
	if len(pipe.Stages) != 2 {
		t.Errorf("stages = %d, want 2", len(pipe.Stages))
	}
}

func TestParseNegatedPipeline(t *testing.T) {
	script := parseOK(t, "! grep -q x file\n")
	pipe, ok := script.Items[0].(*ast.Pipeline)
	if !ok {
		t.Fatalf("item is %T, want *ast.Pipeline", script.Items[0])
	}
	if !pipe.Negated {
		t.Error("pipeline not negated")
	}
}

func TestParseNestedParamExpansion(t *testing.T) {
	script := parseOK(t, "echo ${A:-${B:-default}}\n")
	cmd := script.Items[0].(*ast.Command)
	if len(cmd.Args) != 1 {
		t.Fatalf("args = %d, want 1", len(cmd.Args))
	}
	outer, ok := cmd.Args[0].Parts[0].(*ast.ParamExpansion)
	if !ok {
		t.Fatalf("arg part is %T, want *ast.ParamExpansion", cmd.Args[0].Parts[0])
	}
	if outer.Name != "A" || outer.Op != ast.ParamExpDefault || !outer.ColonForm {
		t.Errorf("outer = name %q op %v colon %v", outer.Name, outer.Op, outer.ColonForm)
	}
	if outer.RHS == nil || len(outer.RHS.Parts) != 1 {
		t.Fatalf("outer RHS = %#v", outer.RHS)
	}
	inner, ok := outer.RHS.Parts[0].(*ast.ParamExpansion)
	if !ok {
		t.Fatalf("inner part is %T, want *ast.ParamExpansion", outer.RHS.Parts[0])
	}
	if inner.Name != "B" || inner.Op != ast.ParamExpDefault || !inner.ColonForm {
		t.Errorf("inner = name %q op %v colon %v", inner.Name, inner.Op, inner.ColonForm)
	}
	if got, _ := literalWordText(inner.RHS); got != "default" {
		t.Errorf("inner RHS = %q, want default", got)
	}
}

func TestParseSubstringExpansion(t *testing.T) {
	script := parseOK(t, "echo ${x:5:2}\n")
	cmd := script.Items[0].(*ast.Command)
	pe := cmd.Args[0].Parts[0].(*ast.ParamExpansion)
	if pe.Op != ast.ParamExpSubstring {
		t.Fatalf("op = %v, want substring", pe.Op)
	}
	if pe.Offset == nil || pe.Offset.Literal != "5" {
		t.Errorf("offset = %#v", pe.Offset)
	}
	if pe.Length == nil || pe.Length.Literal != "2" {
		t.Errorf("length = %#v", pe.Length)
	}
}

func TestParseIfTest(t *testing.T) {
	script := parseOK(t, `if [ "$x" = "y" ]; then echo yes; fi`+"\n")
	ifStmt, ok := script.Items[0].(*ast.If)
	if !ok {
		t.Fatalf("item is %T, want *ast.If", script.Items[0])
	}
	test, ok := ifStmt.Arms[0].Cond.(*ast.TestStmt)
	if !ok {
		t.Fatalf("cond is %T, want *ast.TestStmt", ifStmt.Arms[0].Cond)
	}
	if test.Bracket != ast.BracketSingle {
		t.Error("bracket kind not single")
	}
	if test.Expr.Kind != ast.TestKindBinary || test.Expr.Op != ast.TestEq {
		t.Errorf("expr = kind %v op %v", test.Expr.Kind, test.Expr.Op)
	}
}

func TestParseExtendedTestDoubleEquals(t *testing.T) {
	script := parseOK(t, `if [[ "$x" == "y" ]]; then echo yes; fi`+"\n")
	test := script.Items[0].(*ast.If).Arms[0].Cond.(*ast.TestStmt)
	if test.Bracket != ast.BracketDouble {
		t.Error("bracket kind not double")
	}
	if test.Expr.Op != ast.TestEq {
		t.Errorf("op = %v, want TestEq", test.Expr.Op)
	}
}

func TestParseCaseTerminators(t *testing.T) {
	src := "case $x in\na) echo 1;;\nb) echo 2;&\nc) echo 3;;&\nesac\n"
	script := parseOK(t, src)
	c, ok := script.Items[0].(*ast.Case)
	if !ok {
		t.Fatalf("item is %T, want *ast.Case", script.Items[0])
	}
	if len(c.Arms) != 3 {
		t.Fatalf("arms = %d, want 3", len(c.Arms))
	}
	want := []ast.CaseTerminator{ast.CaseEnd, ast.CaseFallThrough, ast.CaseResume}
	for i, arm := range c.Arms {
		if arm.Terminator != want[i] {
			t.Errorf("arm %d terminator = %v, want %v", i, arm.Terminator, want[i])
		}
	}
}

func TestParseFunctionSubshellBody(t *testing.T) {
	script := parseOK(t, "foo() ( echo hi )\n")
	fn, ok := script.Items[0].(*ast.Function)
	if !ok {
		t.Fatalf("item is %T, want *ast.Function", script.Items[0])
	}
	if fn.Name != "foo" || !fn.Subshell {
		t.Errorf("fn = name %q subshell %v", fn.Name, fn.Subshell)
	}
	if len(fn.Body) != 1 {
		t.Errorf("body = %d stmts, want 1", len(fn.Body))
	}
}

func TestParseFunctionKeywordForm(t *testing.T) {
	script := parseOK(t, "function foo { echo hi; }\n")
	fn, ok := script.Items[0].(*ast.Function)
	if !ok {
		t.Fatalf("item is %T, want *ast.Function", script.Items[0])
	}
	if fn.Name != "foo" || fn.Subshell {
		t.Errorf("fn = name %q subshell %v", fn.Name, fn.Subshell)
	}
}

func TestParseHeredoc(t *testing.T) {
	script := parseOK(t, "cat <<EOF\nhello $HOME\nEOF\n")
	cmd := script.Items[0].(*ast.Command)
	if len(cmd.Redirs) != 1 {
		t.Fatalf("redirs = %d, want 1", len(cmd.Redirs))
	}
	h := cmd.Redirs[0].Heredoc
	if h == nil {
		t.Fatal("heredoc not attached")
	}
	if h.Tag != "EOF" || h.QuotedTag || h.StripTabs {
		t.Errorf("heredoc = %+v", h)
	}
	if h.Body != "hello $HOME\n" {
		t.Errorf("body = %q", h.Body)
	}
}

func TestParseHeredocQuotedTag(t *testing.T) {
	script := parseOK(t, "cat <<'EOF'\n$HOME\nEOF\n")
	h := script.Items[0].(*ast.Command).Redirs[0].Heredoc
	if h == nil || !h.QuotedTag {
		t.Fatalf("heredoc = %+v", h)
	}
	if h.Body != "$HOME\n" {
		t.Errorf("body = %q", h.Body)
	}
}

func TestParseHeredocTabStrip(t *testing.T) {
	script := parseOK(t, "cat <<-EOF\n\thello\n\tEOF\n")
	h := script.Items[0].(*ast.Command).Redirs[0].Heredoc
	if h == nil || !h.StripTabs {
		t.Fatalf("heredoc = %+v", h)
	}
}

func TestParseCloseFdRedir(t *testing.T) {
	script := parseOK(t, "exec 3>&-\n")
	cmd := script.Items[0].(*ast.Command)
	if len(cmd.Redirs) != 1 {
		t.Fatalf("redirs = %d, want 1", len(cmd.Redirs))
	}
	r := cmd.Redirs[0]
	if r.FD != 3 || r.Op != ast.RedirDupOutput || !r.Closed {
		t.Errorf("redir = %+v", r)
	}
}

func TestParseFdDupRedir(t *testing.T) {
	script := parseOK(t, "cmd 2>&1\n")
	r := script.Items[0].(*ast.Command).Redirs[0]
	if r.FD != 2 || r.Op != ast.RedirDupOutput || r.DupFD != 1 {
		t.Errorf("redir = %+v", r)
	}
}

func TestParseNoClobberAndReadWrite(t *testing.T) {
	script := parseOK(t, "cmd >|out <>inout\n")
	redirs := script.Items[0].(*ast.Command).Redirs
	if len(redirs) != 2 {
		t.Fatalf("redirs = %d, want 2", len(redirs))
	}
	if redirs[0].Op != ast.RedirNoClobber {
		t.Errorf("redir 0 = %+v", redirs[0])
	}
	if redirs[1].Op != ast.RedirReadWrite {
		t.Errorf("redir 1 = %+v", redirs[1])
	}
}

func TestParseArithSubst(t *testing.T) {
	script := parseOK(t, "echo $((1 + 2 * x))\n")
	cmd := script.Items[0].(*ast.Command)
	as, ok := cmd.Args[0].Parts[0].(*ast.ArithSubst)
	if !ok {
		t.Fatalf("part is %T, want *ast.ArithSubst", cmd.Args[0].Parts[0])
	}
	e := as.Expr
	if e == nil || e.Kind != ast.ArithKindBinary || e.Op != ast.ArithAdd {
		t.Fatalf("expr = %#v", e)
	}
	if e.Y == nil || e.Y.Op != ast.ArithMul {
		t.Errorf("rhs = %#v, want multiplication", e.Y)
	}
}

func TestParseCStyleFor(t *testing.T) {
	script := parseOK(t, "for ((i=0; i<5; i++)); do echo $i; done\n")
	f, ok := script.Items[0].(*ast.CStyleFor)
	if !ok {
		t.Fatalf("item is %T, want *ast.CStyleFor", script.Items[0])
	}
	if f.Init == nil || f.Init.Op != ast.ArithAssign {
		t.Errorf("init = %#v", f.Init)
	}
	if f.Cond == nil || f.Cond.Op != ast.ArithLt {
		t.Errorf("cond = %#v", f.Cond)
	}
	if f.Step == nil || f.Step.Op != ast.ArithPostIncr {
		t.Errorf("step = %#v", f.Step)
	}
	if len(f.Body) != 1 {
		t.Errorf("body = %d stmts, want 1", len(f.Body))
	}
}

func TestParseForGlobWords(t *testing.T) {
	script := parseOK(t, "for f in *.txt; do mv $f /tmp; done\n")
	f, ok := script.Items[0].(*ast.For)
	if !ok {
		t.Fatalf("item is %T, want *ast.For", script.Items[0])
	}
	if f.Var != "f" || len(f.Words) != 1 {
		t.Fatalf("for = var %q words %d", f.Var, len(f.Words))
	}
	hasGlob := false
	for _, p := range f.Words[0].Parts {
		if _, ok := p.(*ast.Glob); ok {
			hasGlob = true
		}
	}
	if !hasGlob {
		t.Errorf("word parts = %#v, want a Glob part", f.Words[0].Parts)
	}
}

func TestParseBraceRangeWord(t *testing.T) {
	script := parseOK(t, "for i in {1..5}; do echo $i; done\n")
	f := script.Items[0].(*ast.For)
	if got, _ := literalWordText(f.Words[0]); got != "{1..5}" {
		t.Errorf("word = %q, want {1..5}", got)
	}
}

func TestParseExtGlob(t *testing.T) {
	script := parseOK(t, "ls !(old)\n")
	cmd := script.Items[0].(*ast.Command)
	if len(cmd.Args) != 1 {
		t.Fatalf("args = %d, want 1", len(cmd.Args))
	}
	g, ok := cmd.Args[0].Parts[0].(*ast.Glob)
	if !ok {
		t.Fatalf("part is %T, want *ast.Glob", cmd.Args[0].Parts[0])
	}
	if g.Kind != ast.GlobExtBang {
		t.Errorf("glob kind = %v, want GlobExtBang", g.Kind)
	}
}

func TestParseCommandSubstBody(t *testing.T) {
	script := parseOK(t, `RELEASE="release-$(date +%s)"`+"\n")
	a := script.Items[0].(*ast.Assignment)
	dq, ok := a.Value.Parts[0].(*ast.DoubleQuoted)
	if !ok {
		t.Fatalf("value part is %T, want *ast.DoubleQuoted", a.Value.Parts[0])
	}
	cs, ok := dq.Parts[1].(*ast.CommandSubst)
	if !ok {
		t.Fatalf("inner part is %T, want *ast.CommandSubst", dq.Parts[1])
	}
	if len(cs.Body) != 1 {
		t.Fatalf("subst body = %d stmts, want 1", len(cs.Body))
	}
	inner, ok := cs.Body[0].(*ast.Command)
	if !ok {
		t.Fatalf("subst stmt is %T", cs.Body[0])
	}
	if name, _ := literalWordText(inner.Name); name != "date" {
		t.Errorf("subst command = %q, want date", name)
	}
}

func TestParseBacktickSubst(t *testing.T) {
	script := parseOK(t, "echo `date`\n")
	cs, ok := script.Items[0].(*ast.Command).Args[0].Parts[0].(*ast.CommandSubst)
	if !ok || !cs.Backtick {
		t.Fatalf("part = %#v, want backtick CommandSubst", cs)
	}
	if len(cs.Body) != 1 {
		t.Errorf("body = %d stmts, want 1", len(cs.Body))
	}
}

func TestParseSubshellAndGroup(t *testing.T) {
	script := parseOK(t, "( cd /tmp; ls )\n{ echo a; echo b; }\n")
	if _, ok := script.Items[0].(*ast.Subshell); !ok {
		t.Errorf("item 0 is %T, want *ast.Subshell", script.Items[0])
	}
	g, ok := script.Items[1].(*ast.Group)
	if !ok {
		t.Fatalf("item 1 is %T, want *ast.Group", script.Items[1])
	}
	if len(g.Body) != 2 {
		t.Errorf("group body = %d stmts, want 2", len(g.Body))
	}
}

func TestParseCoprocNamed(t *testing.T) {
	script := parseOK(t, "coproc worker { sleep 1; }\n")
	cp, ok := script.Items[0].(*ast.Coproc)
	if !ok {
		t.Fatalf("item is %T, want *ast.Coproc", script.Items[0])
	}
	if cp.Name != "worker" {
		t.Errorf("name = %q, want worker", cp.Name)
	}
}

func TestParseTrap(t *testing.T) {
	script := parseOK(t, `trap "rm -f $TMP" EXIT INT`+"\n")
	tr, ok := script.Items[0].(*ast.Trap)
	if !ok {
		t.Fatalf("item is %T, want *ast.Trap", script.Items[0])
	}
	if len(tr.Signals) != 2 || tr.Signals[0] != "EXIT" || tr.Signals[1] != "INT" {
		t.Errorf("signals = %v", tr.Signals)
	}
}

func TestParseUnterminatedSubstitutionFails(t *testing.T) {
	codes := parseErr(t, "echo $(foo\n")
	found := false
	for _, c := range codes {
		if c == "LEX003" {
			found = true
		}
	}
	if !found {
		t.Errorf("codes = %v, want LEX003", codes)
	}
}

func TestParseUnterminatedBracedParamFails(t *testing.T) {
	parseErr(t, "echo ${x\n")
}

func TestParseUnterminatedQuoteFails(t *testing.T) {
	codes := parseErr(t, "echo 'abc\n")
	found := false
	for _, c := range codes {
		if c == "LEX001" {
			found = true
		}
	}
	if !found {
		t.Errorf("codes = %v, want LEX001", codes)
	}
}

func TestParseUnterminatedHeredocFails(t *testing.T) {
	codes := parseErr(t, "cat <<EOF\nbody\n")
	found := false
	for _, c := range codes {
		if c == "LEX002" {
			found = true
		}
	}
	if !found {
		t.Errorf("codes = %v, want LEX002", codes)
	}
}

func TestSpansNested(t *testing.T) {
	script := parseOK(t, "echo hello\n")
	cmd := script.Items[0].(*ast.Command)
	if cmd.Span.Start > cmd.Span.End {
		t.Error("command span inverted")
	}
	if cmd.Name.Span.Start < cmd.Span.Start || cmd.Args[0].Span.End > cmd.Span.End {
		t.Error("child spans not contained in parent span")
	}
}
