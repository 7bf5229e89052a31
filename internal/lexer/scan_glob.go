package lexer

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
)

// tryScanGlob attempts to scan a `*`, `?`, or `[...]` glob at the cursor.
// It returns ok=false (cursor untouched) when `[` does not close within
// the word, in which case the caller falls back to literal scanning.
func (lx *Lexer) tryScanGlob() (ast.WordPart, bool) {
	m := lx.cursor.Mark()
	switch lx.cursor.Peek() {
	case '*':
		lx.cursor.Bump()
		return &ast.Glob{Span: lx.cursor.SpanFrom(m), Kind: ast.GlobStar, Pattern: "*"}, true
	case '?':
		lx.cursor.Bump()
		return &ast.Glob{Span: lx.cursor.SpanFrom(m), Kind: ast.GlobQuestion, Pattern: "?"}, true
	case '[':
		return lx.tryScanBracketGlob(m)
	}
	return nil, false
}

func (lx *Lexer) tryScanBracketGlob(m Mark) (ast.WordPart, bool) {
	startOff := lx.cursor.Off
	lx.cursor.Bump() // '['
	if lx.cursor.Peek() == '!' || lx.cursor.Peek() == '^' {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == ']' {
		// A ']' as the first (post-negation) member is literal, not closing.
		lx.cursor.Bump()
	}
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			lx.cursor.Reset(Mark(startOff))
			return nil, false
		}
		if lx.cursor.Peek() == ']' {
			lx.cursor.Bump()
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(m)
	return &ast.Glob{Span: sp, Kind: ast.GlobBracket, Pattern: string(lx.file.Content[sp.Start:sp.End])}, true
}

// scanExtGlob scans an extended-glob group: `@(`, `?(`, `+(`, `*(`, or
// `!(` followed by `|`-separated word alternatives and a closing `)`.
// Nested ext-glob groups are consumed whole by the recursive call to
// scanWordPart inside scanExtGlobAlt, so this level only needs to watch
// for its own top-level `|` and `)`.
func (lx *Lexer) scanExtGlob() (ast.WordPart, error) {
	m := lx.cursor.Mark()
	var kind ast.GlobKind
	switch lx.cursor.Peek() {
	case '@':
		kind = ast.GlobExtAt
	case '?':
		kind = ast.GlobExtQ
	case '+':
		kind = ast.GlobExtPlus
	case '*':
		kind = ast.GlobExtStar
	case '!':
		kind = ast.GlobExtBang
	}
	lx.cursor.Bump() // lead char
	lx.cursor.Bump() // '('

	var alts []*ast.Word
	for {
		w, err := lx.scanExtGlobAlt()
		if err != nil {
			return nil, err
		}
		alts = append(alts, w)
		switch lx.cursor.Peek() {
		case '|':
			lx.cursor.Bump()
			continue
		case ')':
			lx.cursor.Bump()
		default:
			return nil, errAt(diag.LexUnterminatedSubstitution, lx.cursor.SpanFrom(m), "unterminated extended glob")
		}
		break
	}
	sp := lx.cursor.SpanFrom(m)
	return &ast.Glob{Span: sp, Kind: kind, Pattern: string(lx.file.Content[sp.Start:sp.End]), Alts: alts}, nil
}

func (lx *Lexer) scanExtGlobAlt() (*ast.Word, error) {
	m := lx.cursor.Mark()
	var parts []ast.WordPart
	for {
		ch := lx.cursor.Peek()
		if ch == 0 || ch == '|' || ch == ')' {
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
	return &ast.Word{Span: lx.cursor.SpanFrom(m), Parts: parts}, nil
}
