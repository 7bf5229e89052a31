package lexer

import (
	"strings"

	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// scanDollarParenCommandSubst scans `$(...)`. The cursor sits on the '('
// immediately after the '$' consumed by scanDollar. Body is left nil: the
// parser recurses a sub-lexer/parser over the span once it owns a
// statement-list grammar.
func (lx *Lexer) scanDollarParenCommandSubst(m Mark) (ast.WordPart, error) {
	lx.cursor.Bump() // '('
	if err := lx.scanBalancedParens(m); err != nil {
		return nil, err
	}
	return &ast.CommandSubst{Span: lx.cursor.SpanFrom(m), Backtick: false, Body: nil}, nil
}

// scanArithSubst scans `$((...))`. Bash's own rule for the terminating
// `))` is followed here: a `)` only ends the construct when it is not
// balancing an inner `(` and is itself immediately followed by a second
// `)`. The expression body is left as a raw placeholder node (see
// rawArith) pending the parser's arithmetic sub-parser.
func (lx *Lexer) scanArithSubst(m Mark) (ast.WordPart, error) {
	lx.cursor.Bump() // first '('
	lx.cursor.Bump() // second '('
	contentStart := lx.cursor.Off
	depth := 0
	for {
		if lx.cursor.EOF() {
			return nil, errAt(diag.LexUnterminatedSubstitution, lx.cursor.SpanFrom(m), "unterminated arithmetic substitution")
		}
		switch lx.cursor.Peek() {
		case '(':
			depth++
			lx.cursor.Bump()
		case ')':
			if depth > 0 {
				depth--
				lx.cursor.Bump()
				continue
			}
			contentEnd := lx.cursor.Off
			lx.cursor.Bump() // first ')'
			if lx.cursor.Peek() == ')' {
				lx.cursor.Bump() // second ')'
				text := string(lx.file.Content[contentStart:contentEnd])
				expr := rawArith(source.ByteSpan{File: lx.file.ID, Start: contentStart, End: contentEnd}, text)
				return &ast.ArithSubst{Span: lx.cursor.SpanFrom(m), Expr: expr}, nil
			}
			// Lone ')' inside the expression (malformed but kept best-effort).
		default:
			lx.cursor.Bump()
		}
	}
}

// ScanArithCommandBody scans a standalone `(( ... ))` arithmetic command's
// body. The caller has already consumed both opening parens (the parser
// distinguishes this from a `( subshell (nested) )` by peeking for a
// second immediate '(' before committing). Mirrors scanArithSubst's
// nested-paren-aware terminator search, since bash uses the same rule for
// both forms.
func (lx *Lexer) ScanArithCommandBody() (*ast.ArithExpr, error) {
	m := lx.cursor.Mark()
	contentStart := lx.cursor.Off
	depth := 0
	for {
		if lx.cursor.EOF() {
			return nil, errAt(diag.LexUnterminatedSubstitution, lx.cursor.SpanFrom(m), "unterminated arithmetic command")
		}
		switch lx.cursor.Peek() {
		case '(':
			depth++
			lx.cursor.Bump()
		case ')':
			if depth > 0 {
				depth--
				lx.cursor.Bump()
				continue
			}
			contentEnd := lx.cursor.Off
			lx.cursor.Bump() // first ')'
			if lx.cursor.Peek() == ')' {
				lx.cursor.Bump() // second ')'
				text := string(lx.file.Content[contentStart:contentEnd])
				return rawArith(source.ByteSpan{File: lx.file.ID, Start: contentStart, End: contentEnd}, text), nil
			}
		default:
			lx.cursor.Bump()
		}
	}
}

// ScanCStyleForClauses scans the three ';'-separated arithmetic clauses of
// a `for (( init; cond; step ))` header, assuming the caller has already
// consumed both opening parens. A clause that is empty or all-whitespace
// (the header omitted it, as in `(( ; cond; ))`) is reported as nil.
func (lx *Lexer) ScanCStyleForClauses() (init, cond, step *ast.ArithExpr, err error) {
	m := lx.cursor.Mark()
	clauses := make([]*ast.ArithExpr, 0, 3)
	depth := 0
	start := lx.cursor.Off
	flush := func(end uint32) {
		text := string(lx.file.Content[start:end])
		if strings.TrimSpace(text) == "" {
			clauses = append(clauses, nil)
		} else {
			clauses = append(clauses, rawArith(source.ByteSpan{File: lx.file.ID, Start: start, End: end}, text))
		}
		start = end + 1
	}
	for {
		if lx.cursor.EOF() {
			return nil, nil, nil, errAt(diag.LexUnterminatedSubstitution, lx.cursor.SpanFrom(m), "unterminated C-style for header")
		}
		switch lx.cursor.Peek() {
		case '(':
			depth++
			lx.cursor.Bump()
		case ')':
			if depth > 0 {
				depth--
				lx.cursor.Bump()
				continue
			}
			end := lx.cursor.Off
			lx.cursor.Bump() // first ')'
			if lx.cursor.Peek() == ')' {
				lx.cursor.Bump() // second ')'
				flush(end)
				for len(clauses) < 3 {
					clauses = append(clauses, nil)
				}
				return clauses[0], clauses[1], clauses[2], nil
			}
		case ';':
			if depth == 0 {
				end := lx.cursor.Off
				lx.cursor.Bump()
				flush(end)
				continue
			}
			lx.cursor.Bump()
		default:
			lx.cursor.Bump()
		}
	}
}

// scanProcessSubst scans `<(...)` or `>(...)`.
func (lx *Lexer) scanProcessSubst() (ast.WordPart, error) {
	m := lx.cursor.Mark()
	dir := ast.ProcessSubstIn
	if lx.cursor.Peek() == '>' {
		dir = ast.ProcessSubstOut
	}
	lx.cursor.Bump() // '<' or '>'
	lx.cursor.Bump() // '('
	if err := lx.scanBalancedParens(m); err != nil {
		return nil, err
	}
	return &ast.ProcessSubst{Span: lx.cursor.SpanFrom(m), Dir: dir, Body: nil}, nil
}

// scanBacktick scans a `` `...` `` command substitution.
func (lx *Lexer) scanBacktick() (ast.WordPart, error) {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // opening `
	for {
		if lx.cursor.EOF() {
			return nil, errAt(diag.LexUnterminatedSubstitution, lx.cursor.SpanFrom(m), "unterminated backtick command substitution")
		}
		ch := lx.cursor.Peek()
		if ch == '\\' {
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
			continue
		}
		if ch == '`' {
			break
		}
		lx.cursor.Bump()
	}
	lx.cursor.Bump() // closing `
	return &ast.CommandSubst{Span: lx.cursor.SpanFrom(m), Backtick: true, Body: nil}, nil
}

// scanBalancedParens consumes up to and including the ')' matching the
// '(' the caller already consumed (m marks the span start, before that
// '('), tracking nesting and skipping over quoted content so an
// unbalanced paren inside a string doesn't end the construct early.
func (lx *Lexer) scanBalancedParens(m Mark) error {
	depth := 1
	for {
		if lx.cursor.EOF() {
			return errAt(diag.LexUnterminatedSubstitution, lx.cursor.SpanFrom(m), "unterminated substitution")
		}
		switch ch := lx.cursor.Peek(); ch {
		case '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case '\'':
			lx.cursor.Bump()
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\'' {
				lx.cursor.Bump()
			}
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case '"':
			lx.cursor.Bump()
			for !lx.cursor.EOF() && lx.cursor.Peek() != '"' {
				if lx.cursor.Peek() == '\\' {
					lx.cursor.Bump()
					if lx.cursor.EOF() {
						break
					}
				}
				lx.cursor.Bump()
			}
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
		case '(':
			depth++
			lx.cursor.Bump()
		case ')':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				return nil
			}
		default:
			lx.cursor.Bump()
		}
	}
}
