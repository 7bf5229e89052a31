package rules

import (
	"strings"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

func registerSecurityRules(r *Registry) {
	r.Register(Rule{Code: diag.SEC001, Category: CategorySecurity, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevError, Dialect: DialectSh, Script: ruleSEC001})
	r.Register(Rule{Code: diag.SEC002, Category: CategorySecurity, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, HasAutofix: true, Dialect: DialectSh, Script: ruleSEC002})
	r.Register(Rule{Code: diag.SEC003, Category: CategorySecurity, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, Dialect: DialectSh, Script: ruleSEC003})
	r.Register(Rule{Code: diag.SEC004, Category: CategorySecurity, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, Dialect: DialectSh, Script: ruleSEC004})
	r.Register(Rule{Code: diag.SEC005, Category: CategorySecurity, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, Dialect: DialectSh, Script: ruleSEC005})
	r.Register(Rule{Code: diag.SEC006, Category: CategorySecurity, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, Dialect: DialectSh, Script: ruleSEC006})
	r.Register(Rule{Code: diag.SEC007, Category: CategorySecurity, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, Dialect: DialectSh, Script: ruleSEC007})
	r.Register(Rule{Code: diag.SEC008, Category: CategorySecurity, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevError, Dialect: DialectSh, Script: ruleSEC008})
	r.Register(Rule{Code: diag.SEC009, Category: CategorySecurity, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, Dialect: DialectSh, Script: ruleSEC009})
	r.Register(Rule{Code: diag.SEC010, Category: CategorySecurity, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevInfo, Dialect: DialectSh, Script: ruleSEC010})
}

// ruleSEC001 flags `eval "..."` — arbitrary code execution if the operand
// carries any expansion the caller doesn't fully control.
func ruleSEC001(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if ok && name == "eval" {
			bag.Add(diagAt(diag.SevError, diag.SEC001, file, cmd.Span,
				"eval executes its argument as shell code; untrusted input reaching it is arbitrary code execution"))
		}
		return true
	})
}

// ruleSEC002 flags unquoted expansions that feed a security-sensitive
// command (rm, eval, chmod, ssh, scp, sudo, curl, wget) where word-splitting/globbing
// could alter which files or hosts are affected.
var sensitiveCommands = map[string]bool{
	"rm": true, "eval": true, "chmod": true, "ssh": true,
	"curl": true, "wget": true, "scp": true, "sudo": true,
}

func ruleSEC002(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if !ok || !sensitiveCommands[name] {
			return true
		}
		for _, a := range cmd.Args {
			if hasUnquotedExpansion(a) {
				bag.Add(diagAt(diag.SevWarning, diag.SEC002, file, a.Span,
					"unquoted expansion passed to "+name+"; word splitting/globbing could expand to unintended arguments"))
			}
		}
		return true
	})
}

var secretNamePattern = []string{"PASSWORD", "PASSWD", "SECRET", "API_KEY", "APIKEY", "TOKEN", "PRIVATE_KEY", "ACCESS_KEY"}

// ruleSEC003 flags assignments whose name looks like a credential and
// whose value is a plain literal (not an expansion pulling from env/vault).
func ruleSEC003(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		a, ok := s.(*ast.Assignment)
		if !ok {
			return true
		}
		upper := strings.ToUpper(a.Name)
		isSecretName := false
		for _, frag := range secretNamePattern {
			if strings.Contains(upper, frag) {
				isSecretName = true
				break
			}
		}
		if !isSecretName {
			return true
		}
		if val, ok := literalText(a.Value); ok && val != "" {
			bag.Add(diagAt(diag.SevWarning, diag.SEC003, file, a.Span,
				"hardcoded credential literal assigned to "+a.Name))
		}
		return true
	})
}

// ruleSEC004 flags hardcoded /tmp paths used as a file target instead of
// mktemp, which is predictable and symlink-racy.
func ruleSEC004(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.WalkWords(script.Items, func(w *ast.Word) {
		txt := rawText(w)
		if strings.HasPrefix(txt, "/tmp/") || strings.HasPrefix(txt, "\"/tmp/") {
			bag.Add(diagAt(diag.SevWarning, diag.SEC004, file, w.Span,
				"hardcoded /tmp path; prefer mktemp to avoid predictable-name races"))
		}
	})
}

// ruleSEC005 flags chmod with an overly permissive mode (777, a+rwx, etc).
func ruleSEC005(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if !ok || name != "chmod" {
			return true
		}
		for _, a := range cmd.Args {
			txt, ok := literalText(a)
			if !ok {
				continue
			}
			if txt == "777" || txt == "a+rwx" || txt == "ugo+rwx" || txt == "0777" {
				bag.Add(diagAt(diag.SevWarning, diag.SEC005, file, a.Span,
					"overly permissive mode "+txt+"; prefer the narrowest mode that works"))
			}
		}
		return true
	})
}

// ruleSEC006 flags curl/wget against a plain http:// URL.
func ruleSEC006(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if !ok || (name != "curl" && name != "wget") {
			return true
		}
		for _, a := range cmd.Args {
			txt, ok := literalText(a)
			if !ok {
				continue
			}
			if strings.HasPrefix(txt, "http://") {
				bag.Add(diagAt(diag.SevWarning, diag.SEC006, file, a.Span,
					"fetching over plain http; use https to avoid tampering in transit"))
			}
		}
		return true
	})
}

var sqlCommands = map[string]bool{"mysql": true, "psql": true, "sqlite3": true}

// ruleSEC007 flags a SQL client invoked with an unquoted expansion in its
// query argument — classic injection shape.
func ruleSEC007(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if !ok || !sqlCommands[name] {
			return true
		}
		for _, a := range cmd.Args {
			if hasUnquotedExpansion(a) {
				bag.Add(diagAt(diag.SevWarning, diag.SEC007, file, a.Span,
					"unquoted expansion interpolated into a "+name+" invocation; parameterize instead"))
			}
		}
		return true
	})
}

// ruleSEC008 flags `curl ... | sh` / `wget -O- ... | bash`-shaped pipelines:
// running unreviewed remote content with the interpreter's privileges.
func ruleSEC008(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		p, ok := s.(*ast.Pipeline)
		if !ok || len(p.Stages) < 2 {
			return true
		}
		_, first, ok := commandName(p.Stages[0])
		if !ok || (first != "curl" && first != "wget") {
			return true
		}
		_, last, ok := commandName(p.Stages[len(p.Stages)-1])
		if !ok {
			return true
		}
		switch last {
		case "sh", "bash", "zsh", "dash", "ash", "ksh":
			bag.Add(diagAt(diag.SevError, diag.SEC008, file, p.Span,
				"piping "+first+" output directly into "+last+" executes unreviewed remote content"))
		}
		return true
	})
}

// ruleSEC009 flags `rm -rf` whose target is an unquoted expansion with no
// surrounding guard against it expanding empty or to "/".
func ruleSEC009(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if !ok || name != "rm" {
			return true
		}
		if !hasFlag(cmd, "-r") && !hasFlag(cmd, "-rf") {
			return true
		}
		for _, a := range cmd.Args {
			if hasUnquotedExpansion(a) {
				bag.Add(diagAt(diag.SevWarning, diag.SEC009, file, a.Span,
					"rm -rf target comes from an unquoted, unvalidated expansion"))
			}
		}
		return true
	})
}

// ruleSEC010 flags a `[ -f X ]`/`[ -e X ]` test whose body then acts on X —
// a TOCTOU window between the check and the use.
func ruleSEC010(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		ifStmt, ok := s.(*ast.If)
		if !ok || len(ifStmt.Arms) == 0 {
			return true
		}
		test, ok := ifStmt.Arms[0].Cond.(*ast.TestStmt)
		if !ok || test.Expr == nil || test.Expr.Kind != ast.TestKindUnary {
			return true
		}
		if test.Expr.Op != ast.TestFileRegular && test.Expr.Op != ast.TestFileExists {
			return true
		}
		target, ok := literalText(test.Expr.Operand)
		if !ok || target == "" {
			return true
		}
		used := false
		ast.WalkWords(ifStmt.Arms[0].Body, func(w *ast.Word) {
			if txt, ok := literalText(w); ok && txt == target {
				used = true
			}
		})
		if used {
			bag.Add(diagAt(diag.SevInfo, diag.SEC010, file, ifStmt.Span,
				"checking "+target+" then using it separately is a check-then-use race; open it directly instead"))
		}
		return true
	})
}

// diagAt is a small convenience wrapper turning a ByteSpan-bearing node's
// span into the Span form diag.New expects, resolving through the file's
// line index, and returning the *diag.Diagnostic Bag.Add expects.
func diagAt(sev diag.Severity, code diag.Code, file *source.File, bsp source.ByteSpan, msg string) *diag.Diagnostic {
	d := diag.New(sev, code, source.Span{
		File:  file.ID,
		Start: file.PositionFor(bsp.Start),
		End:   file.PositionFor(bsp.End),
	}, msg)
	return &d
}
