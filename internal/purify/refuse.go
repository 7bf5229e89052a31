package purify

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
)

// refusals scans the untransformed tree for constructs purification must
// not touch: `eval` fed by an expansion (rewriting it cannot be proven
// behavior-preserving) and pipe-to-shell downloads (the only safe output
// is no output). Each one is reported at Error severity; the caller sees
// Result.Refused and does not emit a purified script.
func (c *ctx) refusals(script *ast.Script) bool {
	refused := false
	ast.Walk(script.Items, func(s ast.Stmt) bool {
		switch n := s.(type) {
		case *ast.Command:
			name, ok := commandLiteralName(n)
			if !ok || name != "eval" {
				return true
			}
			for _, a := range n.Args {
				if wordHasExpansion(a) {
					c.report(diag.SevError, diag.SEC001, n.Span,
						"refusing to purify: eval of an expansion executes data as code")
					refused = true
					return true
				}
			}
		case *ast.Pipeline:
			if pipesDownloadToShell(n) {
				c.report(diag.SevError, diag.SEC008, n.Span,
					"refusing to purify: piping a download straight into a shell runs unreviewed remote code")
				refused = true
			}
		}
		return true
	})
	return refused
}

func wordHasExpansion(w *ast.Word) bool {
	if w == nil {
		return false
	}
	has := false
	var walk func(parts []ast.WordPart)
	walk = func(parts []ast.WordPart) {
		for _, p := range parts {
			switch n := p.(type) {
			case *ast.ParamExpansion, *ast.CommandSubst:
				has = true
			case *ast.DoubleQuoted:
				walk(n.Parts)
			}
		}
	}
	walk(w.Parts)
	return has
}

func pipesDownloadToShell(p *ast.Pipeline) bool {
	if len(p.Stages) < 2 {
		return false
	}
	firstCmd, ok := p.Stages[0].(*ast.Command)
	if !ok {
		return false
	}
	first, ok := commandLiteralName(firstCmd)
	if !ok || (first != "curl" && first != "wget") {
		return false
	}
	lastCmd, ok := p.Stages[len(p.Stages)-1].(*ast.Command)
	if !ok {
		return false
	}
	last, ok := commandLiteralName(lastCmd)
	if !ok {
		return false
	}
	switch last {
	case "sh", "bash", "dash", "ash", "zsh", "ksh":
		return true
	}
	return false
}
