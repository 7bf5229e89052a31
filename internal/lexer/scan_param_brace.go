package lexer

import (
	"bashrs/internal/ast"
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// scanBracedParam scans `${...}` in full: optional `!` indirection or `#`
// length prefix, the parameter name, and an optional operator with its
// right-hand-side word. The cursor sits on the opening '{'.
func (lx *Lexer) scanBracedParam(m Mark) (ast.WordPart, error) {
	lx.cursor.Bump() // '{'
	lx.modes.push(ModeParameter)
	defer lx.modes.pop()

	if lx.cursor.Peek() == '#' && isNameStartAt(lx, 1) {
		// ${#NAME}: length operator, no RHS.
		lx.cursor.Bump()
		name, err := lx.scanParamName(m)
		if err != nil {
			return nil, err
		}
		if err := lx.expectBraceClose(m); err != nil {
			return nil, err
		}
		return &ast.ParamExpansion{Span: lx.cursor.SpanFrom(m), Name: name, Op: ast.ParamExpLength}, nil
	}

	indirect := false
	if lx.cursor.Peek() == '!' {
		indirect = true
		lx.cursor.Bump()
	}

	name, err := lx.scanParamName(m)
	if err != nil {
		return nil, err
	}
	if indirect {
		if err := lx.expectBraceClose(m); err != nil {
			return nil, err
		}
		return &ast.ParamExpansion{Span: lx.cursor.SpanFrom(m), Name: name, Op: ast.ParamExpIndirection}, nil
	}

	if lx.cursor.Peek() == '}' {
		lx.cursor.Bump()
		return &ast.ParamExpansion{Span: lx.cursor.SpanFrom(m), Name: name, Op: ast.ParamExpNone}, nil
	}

	pe := &ast.ParamExpansion{Name: name}
	colon := false
	if lx.cursor.Peek() == ':' {
		// ':' only modifies the -/=/?/+ operators; any other following
		// character means the colon itself introduces a substring form,
		// handled by the ':' switch case below.
		switch lx.cursor.PeekAt(1) {
		case '-', '=', '?', '+':
			colon = true
			lx.cursor.Bump()
		}
	}
	pe.ColonForm = colon

	switch ch := lx.cursor.Peek(); ch {
	case '-':
		lx.cursor.Bump()
		pe.Op = ast.ParamExpDefault
		if err := lx.scanParamRHS(pe); err != nil {
			return nil, err
		}
	case '=':
		lx.cursor.Bump()
		pe.Op = ast.ParamExpAssign
		if err := lx.scanParamRHS(pe); err != nil {
			return nil, err
		}
	case '?':
		lx.cursor.Bump()
		pe.Op = ast.ParamExpError
		if err := lx.scanParamRHS(pe); err != nil {
			return nil, err
		}
	case '+':
		lx.cursor.Bump()
		pe.Op = ast.ParamExpAlternate
		if err := lx.scanParamRHS(pe); err != nil {
			return nil, err
		}
	case ':':
		// ${x:offset} or ${x:offset:length} — substring. colon already
		// consumed above only for the ":-"-style forms; here the first
		// colon itself introduces the substring form.
		lx.cursor.Bump()
		pe.Op = ast.ParamExpSubstring
		if err := lx.scanSubstringBounds(pe); err != nil {
			return nil, err
		}
	case '#':
		lx.cursor.Bump()
		if lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			pe.Op = ast.ParamExpRemoveLongestPrefix
		} else {
			pe.Op = ast.ParamExpRemoveShortestPrefix
		}
		if err := lx.scanParamRHS(pe); err != nil {
			return nil, err
		}
	case '%':
		lx.cursor.Bump()
		if lx.cursor.Peek() == '%' {
			lx.cursor.Bump()
			pe.Op = ast.ParamExpRemoveLongestSuffix
		} else {
			pe.Op = ast.ParamExpRemoveShortestSuffix
		}
		if err := lx.scanParamRHS(pe); err != nil {
			return nil, err
		}
	case '/':
		lx.cursor.Bump()
		if lx.cursor.Peek() == '/' {
			lx.cursor.Bump()
			pe.Op = ast.ParamExpReplaceAll
		} else {
			pe.Op = ast.ParamExpReplace
		}
		if err := lx.scanParamRHS(pe); err != nil {
			return nil, err
		}
	case '^':
		lx.cursor.Bump()
		if lx.cursor.Peek() == '^' {
			lx.cursor.Bump()
			pe.Op = ast.ParamExpUpperAll
		} else {
			pe.Op = ast.ParamExpUpperFirst
		}
		if err := lx.scanParamRHS(pe); err != nil {
			return nil, err
		}
	case ',':
		lx.cursor.Bump()
		if lx.cursor.Peek() == ',' {
			lx.cursor.Bump()
			pe.Op = ast.ParamExpLowerAll
		} else {
			pe.Op = ast.ParamExpLowerFirst
		}
		if err := lx.scanParamRHS(pe); err != nil {
			return nil, err
		}
	default:
		return nil, errAt(diag.LexUnexpectedCharacter, lx.cursor.SpanFrom(m), "unrecognized parameter-expansion operator")
	}

	if err := lx.expectBraceClose(m); err != nil {
		return nil, err
	}
	pe.Span = lx.cursor.SpanFrom(m)
	return pe, nil
}

func isNameStartAt(lx *Lexer, n uint32) bool {
	return isIdentStart(lx.cursor.PeekAt(n)) || isDigit(lx.cursor.PeekAt(n))
}

func (lx *Lexer) scanParamName(m Mark) (string, error) {
	start := lx.cursor.Off
	if isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
		return string(lx.file.Content[start:lx.cursor.Off]), nil
	}
	if isSpecialParamChar(lx.cursor.Peek()) {
		lx.cursor.Bump()
		return string(lx.file.Content[start:lx.cursor.Off]), nil
	}
	if !isIdentStart(lx.cursor.Peek()) {
		return "", errAt(diag.LexUnexpectedCharacter, lx.cursor.SpanFrom(m), "expected parameter name")
	}
	for isIdentCont(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return string(lx.file.Content[start:lx.cursor.Off]), nil
}

// scanParamRHS scans the operand word up to the closing '}', pushing
// ModeParameter is already active so ScanWord stops at '}'.
func (lx *Lexer) scanParamRHS(pe *ast.ParamExpansion) error {
	w, err := lx.ScanWord()
	if err != nil {
		return err
	}
	pe.RHS = w
	return nil
}

// scanSubstringBounds scans `offset[:length]` as raw arithmetic spans. The
// expressions are left as placeholder ArithKindLiteral nodes carrying the
// raw source text; the parser's arithmetic sub-parser replaces them once
// invoked over the extracted span, matching how command/process
// substitution bodies are deferred.
func (lx *Lexer) scanSubstringBounds(pe *ast.ParamExpansion) error {
	offStart := lx.cursor.Off
	for lx.cursor.Peek() != ':' && lx.cursor.Peek() != '}' && !lx.cursor.EOF() {
		lx.cursor.Bump()
	}
	offSpan := lx.cursor.SpanFrom(Mark(offStart))
	pe.Offset = rawArith(offSpan, string(lx.file.Content[offStart:lx.cursor.Off]))

	if lx.cursor.Peek() == ':' {
		lx.cursor.Bump()
		lenStart := lx.cursor.Off
		for lx.cursor.Peek() != '}' && !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
		lenSpan := lx.cursor.SpanFrom(Mark(lenStart))
		pe.Length = rawArith(lenSpan, string(lx.file.Content[lenStart:lx.cursor.Off]))
	}
	return nil
}

// rawArith wraps an unparsed arithmetic expression's source text as a
// placeholder literal node, pending the parser's arithmetic sub-parser.
func rawArith(span source.ByteSpan, text string) *ast.ArithExpr {
	return &ast.ArithExpr{Span: span, Kind: ast.ArithKindLiteral, Literal: text}
}

func (lx *Lexer) expectBraceClose(m Mark) error {
	if lx.cursor.Peek() != '}' {
		return errAt(diag.LexUnterminatedSubstitution, lx.cursor.SpanFrom(m), "unterminated parameter expansion")
	}
	lx.cursor.Bump()
	return nil
}
