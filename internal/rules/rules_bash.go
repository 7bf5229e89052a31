package rules

import (
	"strings"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

func registerBashBestPracticeRules(r *Registry) {
	reg := []struct {
		code diag.Code
		sev  diag.Severity
		fix  bool
		fn   ScriptFunc
	}{
		{diag.BASH001, diag.SevWarning, false, ruleBASH001},
		{diag.BASH002, diag.SevInfo, false, ruleBASH002},
		{diag.BASH003, diag.SevWarning, true, ruleBASH003},
		{diag.BASH004, diag.SevWarning, false, ruleBASH004},
		{diag.BASH006, diag.SevWarning, false, ruleBASH006},
		{diag.BASH007, diag.SevWarning, true, ruleBASH007},
		{diag.BASH008, diag.SevWarning, false, ruleBASH008},
		{diag.BASH009, diag.SevWarning, true, ruleBASH009},
		{diag.BASH010, diag.SevWarning, true, ruleBASH010},
		{diag.BASH011, diag.SevInfo, false, ruleBASH011},
		{diag.BASH012, diag.SevWarning, true, ruleBASH012},
		{diag.BASH013, diag.SevInfo, true, ruleBASH013},
		{diag.BASH014, diag.SevWarning, false, ruleBASH014},
		{diag.BASH016, diag.SevWarning, false, ruleBASH016},
		{diag.BASH017, diag.SevInfo, false, ruleBASH017},
	}
	for _, e := range reg {
		r.Register(Rule{Code: e.code, Category: CategoryBashBestPractice, Compatibility: CompatUniversal,
			DefaultSeverity: e.sev, HasAutofix: e.fix, Dialect: DialectSh, Script: e.fn})
	}
}

// ruleBASH001 flags a script with no top-level `set -e`/`set -eu`.
func ruleBASH001(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	if hasTopLevelSet(script, "-e") {
		return
	}
	bag.Add(diagAt(diag.SevWarning, diag.BASH001, file, script.Span,
		"script has no `set -e`; a failing command is silently ignored"))
}

// ruleBASH002 flags a script with no `set -o pipefail`.
func ruleBASH002(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	if hasTopLevelSetPipefail(script) {
		return
	}
	bag.Add(diagAt(diag.SevInfo, diag.BASH002, file, script.Span,
		"script has no `set -o pipefail`; a failure mid-pipeline is masked by the last stage's exit status"))
}

func hasTopLevelSet(script *ast.Script, flag string) bool {
	for _, s := range script.Items {
		cmd, name, ok := commandName(s)
		if ok && name == "set" && hasFlag(cmd, flag) {
			return true
		}
	}
	return false
}

func hasTopLevelSetPipefail(script *ast.Script) bool {
	for _, s := range script.Items {
		cmd, name, ok := commandName(s)
		if !ok || name != "set" {
			continue
		}
		for i := 0; i < len(cmd.Args)-1; i++ {
			if a, ok := literalText(cmd.Args[i]); ok && a == "-o" {
				if b, ok := literalText(cmd.Args[i+1]); ok && b == "pipefail" {
					return true
				}
			}
		}
	}
	return false
}

// ruleBASH003 flags a bare `cd X` statement not followed by `|| exit`/`||
// return` in the same statement. Traverses statement lists directly
// (rather than via ast.Walk) so each cd can be checked against its own
// AndOr wrapper rather than in isolation.
func ruleBASH003(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	walkCdSafety(script.Items, file, bag)
}

func walkCdSafety(stmts []ast.Stmt, file *source.File, bag *diag.Bag) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.AndOr:
			if n.Op == ast.AndOrOr {
				if _, name, ok := commandName(n.Left); ok && name == "cd" {
					continue
				}
			}
			walkCdSafety([]ast.Stmt{n.Left, n.Right}, file, bag)
		case *ast.Command:
			if _, name, ok := commandName(n); ok && name == "cd" {
				d := diagAt(diag.SevWarning, diag.BASH003, file, n.Span,
					"cd without `|| exit`/`|| return` continues in the wrong directory on failure")
				bag.Add(withFix(d, "guard with || exit 1", insertAfterEdit(n.Span, " || exit 1")))
			}
		case *ast.Pipeline:
			walkCdSafety(n.Stages, file, bag)
		case *ast.Subshell:
			walkCdSafety(n.Body, file, bag)
		case *ast.Group:
			walkCdSafety(n.Body, file, bag)
		case *ast.If:
			for _, arm := range n.Arms {
				walkCdSafety([]ast.Stmt{arm.Cond}, file, bag)
				walkCdSafety(arm.Body, file, bag)
			}
			walkCdSafety(n.Else, file, bag)
		case *ast.Loop:
			walkCdSafety([]ast.Stmt{n.Cond}, file, bag)
			walkCdSafety(n.Body, file, bag)
		case *ast.For:
			walkCdSafety(n.Body, file, bag)
		case *ast.CStyleFor:
			walkCdSafety(n.Body, file, bag)
		case *ast.Case:
			for _, arm := range n.Arms {
				walkCdSafety(arm.Body, file, bag)
			}
		case *ast.Function:
			walkCdSafety(n.Body, file, bag)
		case *ast.Coproc:
			walkCdSafety(n.Body, file, bag)
		}
	}
}

// ruleBASH004 flags `rm -r` (including `rm -rf`) whose operand is the
// literal `/` or `/*`, the most catastrophic idempotency/safety failure
// mode. Other root-anchored paths are not flagged.
func ruleBASH004(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if !ok || name != "rm" || !hasFlag(cmd, "-r") {
			return true
		}
		for _, a := range cmd.Args {
			if txt, ok := literalText(a); ok && (txt == "/" || txt == "/*") {
				bag.Add(diagAt(diag.SevError, diag.BASH004, file, a.Span,
					"rm -rf "+txt+" would delete the entire filesystem"))
			}
		}
		return true
	})
}

// ruleBASH006 flags a script with no shebang at all.
func ruleBASH006(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	if script.Shebang == "" {
		bag.Add(diagAt(diag.SevWarning, diag.BASH006, file, script.Span,
			"script has no shebang; its interpreter depends on how it's invoked"))
	}
}

// ruleBASH007 flags `[[ ]]` under --shell sh, where it's a bashism.
func ruleBASH007(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	if cfg.Target != ShellSh && cfg.Target != ShellDash && cfg.Target != ShellAsh {
		return
	}
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		if t, ok := s.(*ast.TestStmt); ok && t.Bracket == ast.BracketDouble {
			bag.Add(diagAt(diag.SevWarning, diag.BASH007, file, t.Span,
				"[[ ]] is a bashism; --shell sh requires the POSIX [ ] test"))
		}
		return true
	})
}

// ruleBASH008 flags bash array assignment syntax (`arr=(a b c)`) under
// --shell sh, where arrays don't exist.
func ruleBASH008(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	if cfg.Target != ShellSh && cfg.Target != ShellDash && cfg.Target != ShellAsh {
		return
	}
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		if a, ok := s.(*ast.Assignment); ok && a.ArrayWords != nil {
			bag.Add(diagAt(diag.SevWarning, diag.BASH008, file, a.Span,
				"array assignment is a bashism; POSIX sh has no array type"))
		}
		return true
	})
}

// ruleBASH009 flags `&>file` redirection, a bashism for `>file 2>&1`.
func ruleBASH009(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, ok := s.(*ast.Command)
		if !ok {
			return true
		}
		for _, r := range cmd.Redirs {
			if r.Op == ast.RedirOutErr {
				bag.Add(diagAt(diag.SevWarning, diag.BASH009, file, r.Span,
					"&> is a bashism; use >file 2>&1 for POSIX sh"))
			}
		}
		return true
	})
}

// ruleBASH010 flags `==` inside a `[ ]` (single-bracket) test, a bashism;
// POSIX test only recognizes `=`. Since the AST folds both spellings into
// TestEq, the raw source text is consulted to tell them apart.
func ruleBASH010(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		t, ok := s.(*ast.TestStmt)
		if !ok || t.Bracket != ast.BracketSingle || t.Expr == nil || t.Expr.Kind != ast.TestKindBinary || t.Expr.Op != ast.TestEq {
			return true
		}
		if spanText(file, t.Expr.Span) != "" && strings.Contains(spanText(file, t.Expr.Span), "==") {
			bag.Add(diagAt(diag.SevWarning, diag.BASH010, file, t.Expr.Span,
				"== inside [ ] is a bashism; POSIX test uses a single ="))
		}
		return true
	})
}

// ruleBASH011 flags process substitution `<(...)`/`>(...)`, unsupported
// outside bash/zsh/ksh.
func ruleBASH011(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	if cfg.Target != ShellSh && cfg.Target != ShellDash && cfg.Target != ShellAsh {
		return
	}
	ast.WalkWords(script.Items, func(w *ast.Word) {
		for _, p := range w.Parts {
			if ps, ok := p.(*ast.ProcessSubst); ok {
				bag.Add(diagAt(diag.SevInfo, diag.BASH011, file, ps.Span,
					"process substitution is not available in POSIX sh"))
			}
		}
	})
}

// ruleBASH012 flags the `function NAME { ... }` keyword form (as opposed
// to `NAME() { ... }`), a bashism some sh implementations reject. Detected
// from the raw byte immediately preceding the function's own span.
func ruleBASH012(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		fn, ok := s.(*ast.Function)
		if !ok {
			return true
		}
		start := fn.Span.Start
		prefix := string(file.Content[:min32(start, uint32(len(file.Content)))])
		trimmed := strings.TrimRight(prefix, " \t")
		if strings.HasSuffix(trimmed, "function") {
			bag.Add(diagAt(diag.SevWarning, diag.BASH012, file, fn.Span,
				"`function NAME { }` is a bashism; use NAME() { } for POSIX sh"))
		}
		return true
	})
}

func min32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// ruleBASH013 flags brace-range expansion (`{1..10}`), a bashism with no
// POSIX sh equivalent (`$(seq 1 10)` is the purified replacement).
func ruleBASH013(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.WalkWords(script.Items, func(w *ast.Word) {
		for _, p := range w.Parts {
			lit, ok := p.(*ast.Literal)
			if !ok {
				continue
			}
			if looksLikeBraceRange(lit.Text) {
				bag.Add(diagAt(diag.SevInfo, diag.BASH013, file, lit.Span,
					"brace-range expansion is a bashism; use $(seq ...) for POSIX sh"))
			}
		}
	})
}

func looksLikeBraceRange(s string) bool {
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return false
	}
	inner := s[1 : len(s)-1]
	return strings.Contains(inner, "..")
}

// ruleBASH014 flags `local` used outside a function body.
func ruleBASH014(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	sev := diag.SevInfo
	if cfg.Target == ShellSh || cfg.Target == ShellDash || cfg.Target == ShellAsh {
		sev = diag.SevError
	}
	if cfg.HasLocalOverride {
		sev = cfg.LocalOutsideFunctionSeverity
	}
	walkLocalOutsideFunction(script.Items, file, sev, false, bag)
}

func walkLocalOutsideFunction(stmts []ast.Stmt, file *source.File, sev diag.Severity, inFunc bool, bag *diag.Bag) {
	for _, s := range stmts {
		if fn, ok := s.(*ast.Function); ok {
			walkLocalOutsideFunction(fn.Body, file, sev, true, bag)
			continue
		}
		if cmd, name, ok := commandName(s); ok && name == "local" && !inFunc {
			bag.Add(diagAt(sev, diag.BASH014, file, cmd.Span,
				"local used outside a function has no enclosing scope to limit"))
		}
		switch n := s.(type) {
		case *ast.If:
			for _, arm := range n.Arms {
				walkLocalOutsideFunction(arm.Body, file, sev, inFunc, bag)
			}
			walkLocalOutsideFunction(n.Else, file, sev, inFunc, bag)
		case *ast.Loop:
			walkLocalOutsideFunction(n.Body, file, sev, inFunc, bag)
		case *ast.For:
			walkLocalOutsideFunction(n.Body, file, sev, inFunc, bag)
		case *ast.CStyleFor:
			walkLocalOutsideFunction(n.Body, file, sev, inFunc, bag)
		case *ast.Case:
			for _, arm := range n.Arms {
				walkLocalOutsideFunction(arm.Body, file, sev, inFunc, bag)
			}
		case *ast.Subshell:
			walkLocalOutsideFunction(n.Body, file, sev, inFunc, bag)
		case *ast.Group:
			walkLocalOutsideFunction(n.Body, file, sev, inFunc, bag)
		}
	}
}

// ruleBASH016 flags a single-quoted string that contains a literal `$`,
// which often indicates the author meant it to expand.
func ruleBASH016(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.WalkWords(script.Items, func(w *ast.Word) {
		for _, p := range w.Parts {
			sq, ok := p.(*ast.SingleQuoted)
			if ok && strings.Contains(sq.Text, "$") {
				bag.Add(diagAt(diag.SevInfo, diag.BASH016, file, sq.Span,
					"single-quoted string contains '$'; expansions are suppressed inside single quotes"))
			}
		}
	})
}

// ruleBASH017 flags `echo` with a backslash escape sequence but no -e,
// whose interpretation of escapes is inconsistent across sh implementations.
func ruleBASH017(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if !ok || name != "echo" || hasFlag(cmd, "-e") {
			return true
		}
		for _, a := range cmd.Args {
			txt := rawText(a)
			if strings.Contains(txt, `\n`) || strings.Contains(txt, `\t`) {
				bag.Add(diagAt(diag.SevInfo, diag.BASH017, file, a.Span,
					"echo escape sequence without -e is interpreted inconsistently across shells; use printf"))
			}
		}
		return true
	})
}

func spanText(file *source.File, bsp source.ByteSpan) string {
	if int(bsp.End) > len(file.Content) || bsp.Start > bsp.End {
		return ""
	}
	return string(file.Content[bsp.Start:bsp.End])
}
