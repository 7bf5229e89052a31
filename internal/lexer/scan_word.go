package lexer

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
)

// ScanWord scans one shell word starting at the current cursor position.
// The active mode (Default vs DoubleQuoted) determines where the word
// ends: Default stops at whitespace or a structural operator character,
// DoubleQuoted stops at an unescaped '"'. Command/process substitution
// bodies and arithmetic expressions are extracted as raw byte spans only
// (Body left nil; Expr a raw ArithKindLiteral placeholder) — the parser owns
// recursing a sub-lexer/parser
// over those spans once the surrounding statement list is known.
func (lx *Lexer) ScanWord() (*ast.Word, error) {
	m := lx.cursor.Mark()
	var parts []ast.WordPart
	for {
		if lx.cursor.EOF() {
			break
		}
		if lx.wordEnds() {
			break
		}
		part, err := lx.scanWordPart()
		if err != nil {
			return nil, err
		}
		if part == nil {
			break
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return &ast.Word{Span: lx.cursor.SpanFrom(m), Parts: parts}, nil
}

// wordEnds reports whether the current byte terminates the word given the
// active mode.
func (lx *Lexer) wordEnds() bool {
	ch := lx.cursor.Peek()
	switch lx.Mode() {
	case ModeDoubleQuoted:
		return ch == '"'
	case ModeParameter:
		return ch == '}' || ch == 0
	default:
		return isWordBoundary(ch)
	}
}

func isPlainLiteral(ch byte, quoted bool) bool {
	switch ch {
	case '$', '`', '\\':
		return false
	case '\'', '"':
		return quoted // inside double quotes these ARE special (closing quote); outside, a bare quote starts a new part
	case '*', '?', '[':
		return quoted // glob metachars only special when unquoted
	}
	return true
}

// scanWordPart scans exactly one WordPart at the cursor, or returns
// (nil, nil) if the cursor sits on a word boundary.
func (lx *Lexer) scanWordPart() (ast.WordPart, error) {
	quoted := lx.Mode() == ModeDoubleQuoted
	ch := lx.cursor.Peek()

	switch {
	case ch == '\'' && !quoted:
		return lx.scanSingleQuoted()
	case ch == '"' && !quoted:
		return lx.scanDoubleQuoted()
	case ch == '$':
		return lx.scanDollar()
	case ch == '`' && !quoted:
		return lx.scanBacktick()
	case ch == '\\':
		return lx.scanBackslashEscape(quoted)
	case !quoted && (ch == '<' || ch == '>') && lx.cursor.PeekAt(1) == '(':
		return lx.scanProcessSubst()
	case !quoted && isExtGlobStart(ch) && lx.cursor.PeekAt(1) == '(':
		return lx.scanExtGlob()
	case !quoted && (ch == '*' || ch == '?' || ch == '['):
		if part, ok := lx.tryScanGlob(); ok {
			return part, nil
		}
		return lx.scanLiteralRun(quoted)
	default:
		return lx.scanLiteralRun(quoted)
	}
}

// scanLiteralRun consumes a maximal run of plain bytes with no special
// meaning in the current quoting context.
func (lx *Lexer) scanLiteralRun(quoted bool) (ast.WordPart, error) {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if lx.wordEnds() {
			break
		}
		ch := lx.cursor.Peek()
		if !isPlainLiteral(ch, quoted) {
			break
		}
		if !quoted && isWordBoundary(ch) {
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(m)
	if sp.Empty() {
		// Nothing plain to consume; advance one byte to guarantee forward
		// progress for characters scanWordPart's dispatch didn't claim
		// (e.g. a lone unmatched glob char already handled elsewhere).
		lx.cursor.Bump()
		sp = lx.cursor.SpanFrom(m)
	}
	return &ast.Literal{Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}, nil
}

func (lx *Lexer) scanSingleQuoted() (ast.WordPart, error) {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // opening '
	textStart := lx.cursor.Off
	for {
		if lx.cursor.EOF() {
			return nil, errAt(diag.LexUnterminatedQuote, lx.cursor.SpanFrom(m), "unterminated single-quoted string")
		}
		if lx.cursor.Peek() == '\'' {
			break
		}
		lx.cursor.Bump()
	}
	textEnd := lx.cursor.Off
	lx.cursor.Bump() // closing '
	return &ast.SingleQuoted{
		Span: lx.cursor.SpanFrom(m),
		Text: string(lx.file.Content[textStart:textEnd]),
	}, nil
}

func (lx *Lexer) scanDoubleQuoted() (ast.WordPart, error) {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // opening "
	lx.modes.push(ModeDoubleQuoted)
	var parts []ast.WordPart
	for {
		if lx.cursor.EOF() {
			lx.modes.pop()
			return nil, errAt(diag.LexUnterminatedQuote, lx.cursor.SpanFrom(m), "unterminated double-quoted string")
		}
		if lx.cursor.Peek() == '"' {
			break
		}
		part, err := lx.scanWordPart()
		if err != nil {
			lx.modes.pop()
			return nil, err
		}
		if part == nil {
			break
		}
		parts = append(parts, part)
	}
	lx.modes.pop()
	lx.cursor.Bump() // closing "
	return &ast.DoubleQuoted{Span: lx.cursor.SpanFrom(m), Parts: parts}, nil
}

// scanBackslashEscape handles a backslash outside single quotes. Inside
// double quotes only a restricted set of characters are escapable; outside
// any character may be escaped. Either way the escape collapses to a
// literal run covering the backslash and the escaped byte.
func (lx *Lexer) scanBackslashEscape(quoted bool) (ast.WordPart, error) {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // backslash
	if lx.cursor.Peek() == '\n' {
		// Line continuation inside a word: consumed, contributes no text.
		lx.cursor.Bump()
		return &ast.Literal{Span: lx.cursor.SpanFrom(m), Text: ""}, nil
	}
	if !lx.cursor.EOF() {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(m)
	text := string(lx.file.Content[sp.Start:sp.End])
	if quoted {
		// Literal.Text retains the backslash; purification/emission decide
		// whether it was meaningful in this quoting context.
		return &ast.Literal{Span: sp, Text: text}, nil
	}
	return &ast.Literal{Span: sp, Text: text}, nil
}

func isExtGlobStart(ch byte) bool {
	switch ch {
	case '@', '?', '+', '*', '!':
		return true
	}
	return false
}
