package lexer

import (
	"bashrs/internal/ast"
)

// scanDollar dispatches on the character(s) following '$': bare/braced
// parameter expansion, `$(...)`/`$((...))` substitution, or a lone '$'
// that is not followed by anything expandable (treated as literal text).
func (lx *Lexer) scanDollar() (ast.WordPart, error) {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // '$'

	switch {
	case lx.cursor.Peek() == '(' && lx.cursor.PeekAt(1) == '(':
		return lx.scanArithSubst(m)
	case lx.cursor.Peek() == '(':
		return lx.scanDollarParenCommandSubst(m)
	case lx.cursor.Peek() == '{':
		return lx.scanBracedParam(m)
	case isIdentStart(lx.cursor.Peek()):
		return lx.scanBareParam(m)
	case isDigit(lx.cursor.Peek()) || isSpecialParamChar(lx.cursor.Peek()):
		return lx.scanSpecialParam(m)
	default:
		// Bare '$' with nothing expandable following: literal dollar sign.
		return &ast.Literal{Span: lx.cursor.SpanFrom(m), Text: "$"}, nil
	}
}

func isSpecialParamChar(ch byte) bool {
	switch ch {
	case '?', '!', '#', '@', '*', '$', '-':
		return true
	}
	return false
}

// scanBareParam scans `$NAME` with no braces.
func (lx *Lexer) scanBareParam(m Mark) (ast.WordPart, error) {
	nameStart := lx.cursor.Off
	for isIdentCont(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	name := string(lx.file.Content[nameStart:lx.cursor.Off])
	return &ast.ParamExpansion{
		Span: lx.cursor.SpanFrom(m),
		Name: name,
		Op:   ast.ParamExpNone,
	}, nil
}

// scanSpecialParam scans `$?`, `$!`, `$#`, `$@`, `$*`, `$$`, `$-`, or a
// positional parameter like `$1`.
func (lx *Lexer) scanSpecialParam(m Mark) (ast.WordPart, error) {
	if isDigit(lx.cursor.Peek()) {
		// Only a single digit is a positional parameter outside braces;
		// `$12` is `$1` followed by literal `2`.
		nameStart := lx.cursor.Off
		lx.cursor.Bump()
		name := string(lx.file.Content[nameStart:lx.cursor.Off])
		return &ast.ParamExpansion{Span: lx.cursor.SpanFrom(m), Name: name, Op: ast.ParamExpNone}, nil
	}
	nameStart := lx.cursor.Off
	lx.cursor.Bump()
	name := string(lx.file.Content[nameStart:lx.cursor.Off])
	return &ast.ParamExpansion{Span: lx.cursor.SpanFrom(m), Name: name, Op: ast.ParamExpNone}, nil
}
