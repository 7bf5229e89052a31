package purify

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
)

// guardRmTargets rewrites a bare `$VAR`/`${VAR}` expansion feeding an `rm`
// with -r or -f into `${VAR:?must be set}` (rmF runs first and inserts -f,
// so every `rm` operand of that shape is guarded), so an unset or empty
// variable aborts the script
// instead of letting `rm -rf` silently operate on an unintended path. Runs
// after quoteUnsafeWords, so the expansion to guard is nested one level
// inside a DoubleQuoted wrapper.
func (c *ctx) guardRmTargets(cmd *ast.Command) {
	name, ok := commandLiteralName(cmd)
	if !ok || name != "rm" {
		return
	}
	if !hasFlag(cmd, "-r") && !hasFlag(cmd, "-f") && !hasFlag(cmd, "-rf") {
		return
	}
	for _, a := range cmd.Args {
		c.guardWordTarget(a)
	}
}

func (c *ctx) guardWordTarget(w *ast.Word) {
	for _, p := range w.Parts {
		dq, ok := p.(*ast.DoubleQuoted)
		if !ok || len(dq.Parts) != 1 {
			continue
		}
		pe, ok := dq.Parts[0].(*ast.ParamExpansion)
		if !ok || pe.Op != ast.ParamExpNone {
			continue
		}
		pe.Op = ast.ParamExpError
		pe.ColonForm = true
		pe.RHS = &ast.Word{Span: pe.Span, Parts: []ast.WordPart{&ast.Literal{Span: pe.Span, Text: "must be set"}}}
		c.report(diag.SevWarning, diag.SEC009, w.Span,
			"guarded rm target with ${VAR:?} so an empty/unset value aborts instead of deleting the wrong path")
	}
}
