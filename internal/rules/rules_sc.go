package rules

import (
	"strings"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// registerShellCheckRules wires a selection of ShellCheck-compatible codes
// to real AST-based detectors. The full SC catalog in diag/codes.go is
// much larger than what's implemented here; codes without a body below are
// deliberately out of scope for now (see DESIGN.md) rather than silently
// dropped — no rule registered for them means the registry simply never
// reports them, which is documented, not accidental.
func registerShellCheckRules(r *Registry) {
	reg := []struct {
		code diag.Code
		sev  diag.Severity
		fn   ScriptFunc
	}{
		{diag.SC2006, diag.SevStyle, ruleSC2006},
		{diag.SC2046, diag.SevWarning, ruleSC2046},
		{diag.SC2086, diag.SevWarning, ruleSC2086},
		{diag.SC2164, diag.SevWarning, ruleSC2164},
		{diag.SC2035, diag.SevWarning, ruleSC2035},
		{diag.SC2002, diag.SevStyle, ruleSC2002},
		{diag.SC2059, diag.SevWarning, ruleSC2059},
		{diag.SC2028, diag.SevInfo, ruleSC2028},
		{diag.SC2064, diag.SevWarning, ruleSC2064},
		{diag.SC2068, diag.SevWarning, ruleSC2068},
		{diag.SC2027, diag.SevWarning, ruleSC2027},
		{diag.SC2069, diag.SevWarning, ruleSC2069},
	}
	for _, e := range reg {
		r.Register(Rule{Code: e.code, Category: CategoryQuoting, Compatibility: CompatUniversal,
			DefaultSeverity: e.sev, HasAutofix: e.code == diag.SC2086 || e.code == diag.SC2006, Dialect: DialectSh, Script: e.fn})
	}
}

// ruleSC2006 flags legacy backtick command substitution.
func ruleSC2006(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.WalkWords(script.Items, func(w *ast.Word) {
		for _, p := range w.Parts {
			if cs, ok := p.(*ast.CommandSubst); ok && cs.Backtick {
				d := diagAt(diag.SevStyle, diag.SC2006, file, cs.Span,
					"use $(...) instead of legacy backticks")
				raw := byteSpanText(file, cs.Span)
				if len(raw) >= 2 && raw[0] == '`' && raw[len(raw)-1] == '`' {
					d = withFix(d, "rewrite as $(...)",
						replaceEdit(file, cs.Span, "$("+raw[1:len(raw)-1]+")"))
				}
				bag.Add(d)
			}
		}
	})
}

// ruleSC2046 flags an unquoted command substitution used directly as (or
// within) a command argument, where word splitting applies.
func ruleSC2046(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, ok := s.(*ast.Command)
		if !ok {
			return true
		}
		for _, a := range cmd.Args {
			for _, p := range a.Parts {
				if cs, ok := p.(*ast.CommandSubst); ok {
					bag.Add(diagAt(diag.SevWarning, diag.SC2046, file, cs.Span,
						"quote this command substitution to prevent word splitting"))
				}
			}
		}
		return true
	})
}

// ruleSC2086 flags any unquoted parameter expansion directly inside a
// command's argument list (the generic, non-security-scoped counterpart of
// SEC002, covering every command, not only sensitive ones).
func ruleSC2086(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, ok := s.(*ast.Command)
		if !ok {
			return true
		}
		for _, a := range cmd.Args {
			for _, p := range a.Parts {
				if pe, ok := isUnquotedParamExpansion(p); ok {
					d := diagAt(diag.SevWarning, diag.SC2086, file, pe.Span,
						"double quote to prevent globbing and word splitting")
					bag.Add(withFix(d, "double quote the expansion",
						replaceEdit(file, pe.Span, `"`+byteSpanText(file, pe.Span)+`"`)))
				}
			}
		}
		return true
	})
}

// ruleSC2164 flags `cd` without an `|| exit`/`|| return` guard — the same
// defect BASH003 reports, filed separately under its ShellCheck code
// because tooling that only recognizes SC codes should still see it.
func ruleSC2164(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	tmp := diag.NewBag(4096)
	walkCdSafety(script.Items, file, tmp)
	for _, d := range tmp.Items() {
		nd := diag.New(diag.SevWarning, diag.SC2164, d.Primary, "use cd ... || exit in case cd fails")
		bag.Add(&nd)
	}
}

// ruleSC2035 flags a glob argument passed to a command without a `--` or
// `./` prefix, which can be misparsed as an option if a matched filename
// happens to start with `-`.
func ruleSC2035(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, ok := s.(*ast.Command)
		if !ok {
			return true
		}
		sawDashDash := false
		for _, a := range cmd.Args {
			if txt, ok := literalText(a); ok && txt == "--" {
				sawDashDash = true
			}
			if sawDashDash {
				continue
			}
			for _, p := range a.Parts {
				if _, ok := p.(*ast.Glob); ok {
					bag.Add(diagAt(diag.SevWarning, diag.SC2035, file, a.Span,
						"use ./*glob* or -- to avoid filenames that look like options"))
				}
			}
		}
		return true
	})
}

// ruleSC2002 flags `cat file | cmd`, a useless use of cat when cmd could
// read the file directly.
func ruleSC2002(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		p, ok := s.(*ast.Pipeline)
		if !ok || len(p.Stages) < 2 {
			return true
		}
		cmd, name, ok := commandName(p.Stages[0])
		if ok && name == "cat" && len(cmd.Args) == 1 {
			bag.Add(diagAt(diag.SevStyle, diag.SC2002, file, cmd.Span,
				"useless use of cat; pipe the file's reader directly"))
		}
		return true
	})
}

// ruleSC2059 flags a printf whose format argument isn't a literal, letting
// the data control format specifiers.
func ruleSC2059(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if !ok || name != "printf" || len(cmd.Args) == 0 {
			return true
		}
		if _, ok := literalText(cmd.Args[0]); !ok {
			bag.Add(diagAt(diag.SevWarning, diag.SC2059, file, cmd.Args[0].Span,
				"don't use variables in the printf format string; use %s instead"))
		}
		return true
	})
}

// ruleSC2028 flags `echo` containing a literal backslash escape, since
// plain echo doesn't interpret escapes portably (see also BASH017).
func ruleSC2028(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		_, name, ok := commandName(s)
		if !ok || name != "echo" {
			return true
		}
		cmd := s.(*ast.Command)
		for _, a := range cmd.Args {
			if strings.Contains(rawText(a), `\`) {
				bag.Add(diagAt(diag.SevInfo, diag.SC2028, file, a.Span,
					"echo won't interpret escape sequences; use printf"))
			}
		}
		return true
	})
}

// ruleSC2064 flags `trap` whose handler word contains an unquoted
// expansion, which expands now (at trap-registration time) rather than
// later when the signal fires.
func ruleSC2064(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		t, ok := s.(*ast.Trap)
		if !ok || t.Handler == nil {
			return true
		}
		if hasUnquotedExpansion(t.Handler) {
			bag.Add(diagAt(diag.SevWarning, diag.SC2064, file, t.Handler.Span,
				"use single quotes around the trap handler so it expands when the signal fires, not now"))
		}
		return true
	})
}

// ruleSC2068 flags unquoted `$@`/`$*` used as a command argument.
func ruleSC2068(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, ok := s.(*ast.Command)
		if !ok {
			return true
		}
		for _, a := range cmd.Args {
			for _, p := range a.Parts {
				if pe, ok := p.(*ast.ParamExpansion); ok && (pe.Name == "@" || pe.Name == "*") {
					bag.Add(diagAt(diag.SevWarning, diag.SC2068, file, pe.Span,
						"quote this to prevent word splitting; use \"$@\""))
				}
			}
		}
		return true
	})
}

// ruleSC2027 flags a DoubleQuoted word part immediately adjacent to an
// unquoted expansion part in the same Word, a common accidental-quote-break
// shape (`"text"$var"more"` where $var is meant to be inside the quotes).
func ruleSC2027(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.WalkWords(script.Items, func(w *ast.Word) {
		for i := 0; i+1 < len(w.Parts); i++ {
			_, dq := w.Parts[i].(*ast.DoubleQuoted)
			pe, isPe := w.Parts[i+1].(*ast.ParamExpansion)
			if dq && isPe {
				bag.Add(diagAt(diag.SevWarning, diag.SC2027, file, pe.Span,
					"the quotes end right before this expansion; it's unquoted here"))
			}
		}
	})
}

// ruleSC2069 flags `cmd 2>&1 >file` (fd-dup before the redirect it's meant
// to follow), which still sends stderr to the old stdout, not file.
func ruleSC2069(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, ok := s.(*ast.Command)
		if !ok || len(cmd.Redirs) < 2 {
			return true
		}
		for i := 0; i+1 < len(cmd.Redirs); i++ {
			r1, r2 := cmd.Redirs[i], cmd.Redirs[i+1]
			if r1.Op == ast.RedirDupOutput && r1.FD == 2 && r1.DupFD == 1 && r2.Op == ast.RedirOutput && r2.FD <= 0 {
				bag.Add(diagAt(diag.SevWarning, diag.SC2069, file, r1.Span,
					"2>&1 is applied before the later redirect takes effect; put 2>&1 after the output redirect"))
			}
		}
		return true
	})
}
