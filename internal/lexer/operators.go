package lexer

import (
	"bashrs/internal/token"
)

// opEntry pairs a literal spelling with the token kind it produces. Entries
// must be ordered longest-match-first within a shared leading byte so
// NextOperator's linear scan picks the correct alternative (e.g. ";;&"
// before ";;" before ";").
type opEntry struct {
	text string
	kind token.Kind
}

var operatorTable = []opEntry{
	{";;&", token.SemiSemiAmp},
	{";;", token.SemiSemi},
	{";&", token.SemiAmp},
	{";", token.Semicolon},
	{"&&", token.AndAnd},
	{"&>", token.AmpGreat},
	{"&", token.Amp},
	{"||", token.OrOr},
	{"|&", token.PipeAmp},
	{"|", token.Pipe},
	{"[[", token.LDBracket},
	{"]]", token.RDBracket},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{"<<-", token.DLessDash},
	{"<<", token.DLess},
	{"<>", token.LessGreat},
	{"<&", token.Less}, // fd-dup input, disambiguated by parser via DupFD scan
	{"<", token.Less},
	{">>", token.DGreat},
	{">|", token.GreatPipe},
	{">&", token.GreatAmp},
	{">", token.Great},
	{"==", token.EqEq},
	{"=~", token.RegexMatch},
	{"!=", token.BangAssign},
	{"!", token.Bang},
}

// NextOperator attempts to match a structural operator at the current
// cursor position (after skipping blank trivia). If the current position
// does not start an operator, it returns ok=false and the cursor is left
// untouched so the caller can fall back to ScanWord.
func (lx *Lexer) NextOperator() (tok token.Token, ok bool) {
	leading := lx.SkipBlank()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan(), Leading: leading}, true
	}

	if lx.cursor.Peek() == '\n' {
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		return token.Token{Kind: token.Newline, Span: lx.cursor.SpanFrom(m), Text: "\n", Leading: leading}, true
	}

	m := lx.cursor.Mark()
	for _, e := range operatorTable {
		if !lx.cursor.EatString(e.text) {
			continue
		}
		if !lx.operatorStands(e.kind) {
			lx.cursor.Reset(m)
			continue
		}
		return token.Token{Kind: e.kind, Span: lx.cursor.SpanFrom(m), Text: e.text, Leading: leading}, true
	}

	// Not an operator: restore trivia-skipped position is fine (trivia is
	// genuinely consumed either way), but no operator token is produced.
	if len(leading) > 0 {
		return token.Token{Leading: leading}, false
	}
	return token.Token{}, false
}

// operatorStands reports whether a just-matched operator really is one in
// context. Braces and test brackets are words unless a boundary follows
// (`{1..3}` and `[ab].txt` are words; `{ cmd; }` and `[ -f x ]` are not),
// and `!` immediately before '(' is the start of an ext-glob, not a
// pipeline negation.
func (lx *Lexer) operatorStands(k token.Kind) bool {
	next := lx.cursor.Peek()
	switch k {
	case token.LBrace, token.RBrace, token.LBracket, token.RBracket,
		token.LDBracket, token.RDBracket:
		return isWordBoundary(next)
	case token.Bang:
		return next != '('
	}
	return true
}

// PeekOperator reports the operator kind at the current position without
// consuming input, restoring the cursor afterward.
func (lx *Lexer) PeekOperator() (token.Kind, bool) {
	save := lx.cursor
	saveModes := *lx.modes
	tok, ok := lx.NextOperator()
	lx.cursor = save
	*lx.modes = saveModes
	if !ok {
		return token.Invalid, false
	}
	return tok.Kind, true
}

// ScanFDNumber scans a leading run of decimal digits immediately followed
// by a redirection operator (e.g. the "2" in "2>&1"), used by the parser
// to recognize a redirection's source file descriptor. Returns -1, false
// if the current position is not digits-then-redir.
func (lx *Lexer) ScanFDNumber() (int, bool) {
	m := lx.cursor.Mark()
	n := 0
	for isDigit(lx.cursor.Peek()) {
		n = n*10 + int(lx.cursor.Peek()-'0')
		lx.cursor.Bump()
	}
	if lx.cursor.Off == uint32(m) {
		return -1, false
	}
	ch := lx.cursor.Peek()
	if ch != '<' && ch != '>' {
		lx.cursor.Reset(m)
		return -1, false
	}
	return n, true
}
