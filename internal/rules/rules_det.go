package rules

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

func registerDeterminismRules(r *Registry) {
	r.Register(Rule{Code: diag.DET001, Category: CategoryDeterminism, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, HasAutofix: true, Dialect: DialectSh, Script: ruleDET001})
	r.Register(Rule{Code: diag.DET002, Category: CategoryDeterminism, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, HasAutofix: true, Dialect: DialectSh, Script: ruleDET002})
	r.Register(Rule{Code: diag.DET003, Category: CategoryDeterminism, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, HasAutofix: true, Dialect: DialectSh, Script: ruleDET003})
	r.Register(Rule{Code: diag.DET004, Category: CategoryDeterminism, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, HasAutofix: true, Dialect: DialectSh, Script: ruleDET004})
	r.Register(Rule{Code: diag.DET005, Category: CategoryDeterminism, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, HasAutofix: true, Dialect: DialectSh, Script: ruleDET005})
	r.Register(Rule{Code: diag.DET006, Category: CategoryDeterminism, Compatibility: CompatUniversal,
		DefaultSeverity: diag.SevWarning, HasAutofix: true, Dialect: DialectSh, Script: ruleDET006})
}

// nonDeterministicParams maps a bare parameter name to the DET code it
// triggers when read.
var nonDeterministicParams = map[string]diag.Code{
	"RANDOM":        diag.DET001,
	"$":             diag.DET003,
	"BASHPID":       diag.DET003,
	"EPOCHSECONDS":  diag.DET002,
	"SECONDS":       diag.DET002,
}

func ruleDET001(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	scanNonDeterministicParams(file, script, diag.DET001, bag)
}

func ruleDET003(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	scanNonDeterministicParams(file, script, diag.DET003, bag)
}

func ruleDET002(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	scanNonDeterministicParams(file, script, diag.DET002, bag)
	scanNonDeterministicSubst(file, script, diag.DET002, bag)
}

// flattenParts returns w's parts with double-quoted runs spliced in, so
// scans see `"$RANDOM"` and `"x-$(date)"` the same as their bare forms.
func flattenParts(w *ast.Word) []ast.WordPart {
	out := make([]ast.WordPart, 0, len(w.Parts))
	var add func(parts []ast.WordPart)
	add = func(parts []ast.WordPart) {
		for _, p := range parts {
			if dq, ok := p.(*ast.DoubleQuoted); ok {
				add(dq.Parts)
				continue
			}
			out = append(out, p)
		}
	}
	add(w.Parts)
	return out
}

func scanNonDeterministicParams(file *source.File, script *ast.Script, want diag.Code, bag *diag.Bag) {
	ast.WalkWords(script.Items, func(w *ast.Word) {
		for _, p := range flattenParts(w) {
			pe, ok := p.(*ast.ParamExpansion)
			if !ok {
				continue
			}
			code, known := nonDeterministicParams[pe.Name]
			if !known || code != want {
				continue
			}
			d := diagAt(diag.SevWarning, code, file, pe.Span,
				"$"+pe.Name+" is non-deterministic; replace with a supplied ${VERSION} or similar fixed value")
			bag.Add(withFix(d, "replace with ${VERSION}",
				replaceEdit(file, pe.Span, "${VERSION}")))
		}
	})
}

var nonDeterministicCommands = map[string]diag.Code{
	"date":     diag.DET002,
	"hostname": diag.DET005,
	"uuidgen":  diag.DET006,
}

// scanNonDeterministicSubst flags `$(date ...)`/`` `date` `` and similar
// command substitutions of a non-deterministic source, and `uname -n`.
// Only findings carrying want are reported, so the DET002/DET005/DET006
// bodies sharing this scan never double-report one site.
func scanNonDeterministicSubst(file *source.File, script *ast.Script, want diag.Code, bag *diag.Bag) {
	ast.WalkWords(script.Items, func(w *ast.Word) {
		for _, p := range flattenParts(w) {
			cs, ok := p.(*ast.CommandSubst)
			if !ok {
				continue
			}
			for _, stmt := range cs.Body {
				cmd, name, ok := commandName(stmt)
				if !ok {
					continue
				}
				if code, known := nonDeterministicCommands[name]; known && code == want {
					bag.Add(diagAt(diag.SevWarning, code, file, cs.Span,
						"command substitution of "+name+" is non-deterministic; replace with a supplied fixed value"))
					continue
				}
				if want == diag.DET005 && name == "uname" && hasFlag(cmd, "-n") {
					bag.Add(diagAt(diag.SevWarning, diag.DET005, file, cs.Span,
						"uname -n is host-dependent; replace with a supplied fixed value"))
				}
			}
		}
	})
}

func ruleDET005(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	scanNonDeterministicSubst(file, script, diag.DET005, bag)
}

func ruleDET006(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	scanNonDeterministicSubst(file, script, diag.DET006, bag)
}

// ruleDET004 flags a command substitution whose last command is `ls`
// (unsorted by default on some systems/locales) without a trailing
// `| sort`. Glob expansions are not flagged.
func ruleDET004(file *source.File, script *ast.Script, cfg Config, bag *diag.Bag) {
	ast.WalkWords(script.Items, func(w *ast.Word) {
		for _, p := range flattenParts(w) {
			cs, ok := p.(*ast.CommandSubst)
			if !ok || len(cs.Body) == 0 {
				continue
			}
			if pipeline, ok := cs.Body[len(cs.Body)-1].(*ast.Pipeline); ok && len(pipeline.Stages) > 0 {
				if _, last, ok := commandName(pipeline.Stages[len(pipeline.Stages)-1]); ok && last == "sort" {
					continue
				}
			}
			_, name, ok := commandName(cs.Body[len(cs.Body)-1])
			if ok && name == "ls" {
				bag.Add(diagAt(diag.SevWarning, diag.DET004, file, cs.Span,
					"$(ls ...) ordering is locale/filesystem dependent; pipe through sort for determinism"))
			}
		}
	})
}
