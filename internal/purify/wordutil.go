package purify

import (
	"strings"

	"bashrs/internal/ast"
)

// literalText returns w's text if every part is a Literal, ok=false
// otherwise — used to recognize flags and bare command names.
func literalText(w *ast.Word) (string, bool) {
	if w == nil {
		return "", false
	}
	var b strings.Builder
	for _, p := range w.Parts {
		lit, ok := p.(*ast.Literal)
		if !ok {
			return "", false
		}
		b.WriteString(lit.Text)
	}
	return b.String(), true
}

func commandLiteralName(cmd *ast.Command) (string, bool) {
	if cmd.Name == nil {
		return "", false
	}
	return literalText(cmd.Name)
}

// hasFlag reports whether any argument word of cmd is the literal flag f
// (e.g. "-p") or, for combined short flags, contains its letter.
func hasFlag(cmd *ast.Command, f string) bool {
	letter := strings.TrimPrefix(f, "-")
	for _, a := range cmd.Args {
		txt, ok := literalText(a)
		if !ok {
			continue
		}
		if txt == f {
			return true
		}
		if strings.HasPrefix(txt, "-") && !strings.HasPrefix(txt, "--") && strings.Contains(txt, letter) {
			return true
		}
	}
	return false
}

// prependFlagArg inserts a new literal flag argument as cmd's first
// argument, ahead of any existing flags/operands.
func prependFlagArg(cmd *ast.Command, flag string) {
	w := &ast.Word{Span: cmd.Span, Parts: []ast.WordPart{&ast.Literal{Span: cmd.Span, Text: flag}}}
	cmd.Args = append([]*ast.Word{w}, cmd.Args...)
}
