package rules

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

func registerIdempotencyRules(r *Registry) {
	r.Register(Rule{Code: diag.IDEM001, Category: CategoryIdempotency, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, HasAutofix: true, Dialect: DialectSh, Script: ruleIDEM001})
	r.Register(Rule{Code: diag.IDEM002, Category: CategoryIdempotency, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, HasAutofix: true, Dialect: DialectSh, Script: ruleIDEM002})
	r.Register(Rule{Code: diag.IDEM003, Category: CategoryIdempotency, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, HasAutofix: true, Dialect: DialectSh, Script: ruleIDEM003})
	r.Register(Rule{Code: diag.IDEM004, Category: CategoryIdempotency, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevInfo, Dialect: DialectSh, Script: ruleIDEM004})
	r.Register(Rule{Code: diag.IDEM005, Category: CategoryIdempotency, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevInfo, Dialect: DialectSh, Script: ruleIDEM005})
}

// ruleIDEM001 flags `mkdir` invoked without `-p`: re-running the script
// against an already-created directory fails instead of being a no-op.
func ruleIDEM001(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if ok && name == "mkdir" && !hasFlag(cmd, "-p") {
			d := diagAt(diag.SevWarning, diag.IDEM001, file, cmd.Span,
				"mkdir without -p fails if the directory already exists")
			bag.Add(withFix(d, "insert -p", insertAfterEdit(cmd.Name.Span, " -p")))
		}
		return true
	})
}

// ruleIDEM002 flags `rm` invoked without `-f`: re-running against an
// already-removed path fails instead of being a no-op.
func ruleIDEM002(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if ok && name == "rm" && !hasFlag(cmd, "-f") {
			d := diagAt(diag.SevWarning, diag.IDEM002, file, cmd.Span,
				"rm without -f fails if the target is already gone")
			bag.Add(withFix(d, "insert -f", insertAfterEdit(cmd.Name.Span, " -f")))
		}
		return true
	})
}

// ruleIDEM003 flags `ln -s` invoked without `-f`: re-running against an
// already-existing link fails instead of replacing it.
func ruleIDEM003(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if ok && name == "ln" && hasFlag(cmd, "-s") && !hasFlag(cmd, "-f") {
			d := diagAt(diag.SevWarning, diag.IDEM003, file, cmd.Span,
				"ln -s without -f fails if the link already exists")
			bag.Add(withFix(d, "insert -f", insertAfterEdit(cmd.Name.Span, " -f")))
		}
		return true
	})
}

// ruleIDEM004 flags `touch` used to set mtime without -a -m — a plain
// `touch FILE` on an existing file silently no-ops on content but still
// bumps mtime every run, which can surprise build-timestamp-sensitive tools.
func ruleIDEM004(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, name, ok := commandName(s)
		if ok && name == "touch" && !hasFlag(cmd, "-d") && !hasFlag(cmd, "-t") && !(hasFlag(cmd, "-a") && hasFlag(cmd, "-m")) {
			bag.Add(diagAt(diag.SevInfo, diag.IDEM004, file, cmd.Span,
				"touch always updates mtime; if this is meant to be idempotent, guard with a stamp file check"))
		}
		return true
	})
}

// ruleIDEM005 flags `echo ... >> file` style blind appends, which
// duplicate their line on every re-run instead of checking first.
func ruleIDEM005(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		cmd, ok := s.(*ast.Command)
		if !ok {
			return true
		}
		for _, r := range cmd.Redirs {
			if r.Op == ast.RedirAppend {
				bag.Add(diagAt(diag.SevInfo, diag.IDEM005, file, r.Span,
					"blind append is not idempotent; check whether the content is already present first"))
			}
		}
		return true
	})
}
