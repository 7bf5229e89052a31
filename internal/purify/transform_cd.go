package purify

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
)

// addCdGuards wraps every bare `cd X` statement in stmts as `cd X || exit
// 1`, so a failed directory change aborts the script instead of letting
// every following command run from the wrong working directory. Statements
// already guarded by `||` are left alone; nested statement lists have
// already been processed by the time this runs on their parent list.
func (c *ctx) addCdGuards(stmts []ast.Stmt) []ast.Stmt {
	for i, s := range stmts {
		cmd, ok := s.(*ast.Command)
		if !ok {
			continue
		}
		name, ok := commandLiteralName(cmd)
		if !ok || name != "cd" {
			continue
		}
		c.report(diag.SevWarning, diag.BASH003, cmd.Span, "guarded cd with || exit 1 in case it fails")
		stmts[i] = &ast.AndOr{
			Span: cmd.Span,
			Left: cmd,
			Op:   ast.AndOrOr,
			Right: &ast.Jump{
				Span: cmd.Span,
				Kind: ast.JumpExit,
				Arg:  &ast.Word{Span: cmd.Span, Parts: []ast.WordPart{&ast.Literal{Span: cmd.Span, Text: "1"}}},
			},
		}
	}
	return stmts
}
