package lexer

import (
	"unicode/utf8"

	"bashrs/internal/diag"
	"bashrs/internal/source"
	"bashrs/internal/token"
)

// Lexer tokenizes shell source under an explicit mode stack. Unlike a
// context-free language lexer, shell word boundaries depend on quoting
// and expansion state, so the parser drives two entry points rather than
// pulling a flat token stream: NextOperator for structural
// punctuation/keywords, and ScanWord for the word grammar itself. Both
// share the same Cursor and mode stack. Heredoc bodies are scanned line by
// line in a loop, and command/process substitution bodies are taken as raw
// spans without re-entering the lexer; nested `${...}` operands and quoted
// runs, however, are scanned by recursive Go calls (scanParamRHS calls
// ScanWord), with the mode stack recording the mode of each level.
type Lexer struct {
	file   *source.File
	cursor Cursor
	modes  *modeStack
}

// New creates a Lexer over the full content of f.
func New(f *source.File) *Lexer {
	return &Lexer{
		file:   f,
		cursor: NewCursor(f),
		modes:  newModeStack(),
	}
}

// NewSub creates a Lexer restricted to the [start, end) byte range of f,
// used by the parser to recurse into a command/process substitution body
// once it has located the body's raw span (scanBalancedParens in
// scan_subst.go leaves Body nil for exactly this reason).
func NewSub(f *source.File, start, end uint32) *Lexer {
	return &Lexer{
		file:   f,
		cursor: Cursor{File: f, Off: start, Limit: end},
		modes:  newModeStack(),
	}
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File { return lx.file }

// Mode returns the currently active lexer mode.
func (lx *Lexer) Mode() Mode { return lx.modes.top() }

// Offset returns the cursor's current byte offset.
func (lx *Lexer) Offset() uint32 { return lx.cursor.Off }

// Seek moves the cursor to an arbitrary byte offset (used when resuming
// after a heredoc body has been sliced out of the source by the parser).
func (lx *Lexer) Seek(off uint32) { lx.cursor.Off = off }

// EOF reports whether the cursor has consumed all input.
func (lx *Lexer) EOF() bool { return lx.cursor.EOF() }

// PeekByte returns the current byte without consuming it.
func (lx *Lexer) PeekByte() byte { return lx.cursor.Peek() }

// PeekAt returns the byte n positions ahead without consuming.
func (lx *Lexer) PeekAt(n uint32) byte { return lx.cursor.PeekAt(n) }

// EmptySpan returns a zero-length ByteSpan at the current offset.
func (lx *Lexer) EmptySpan() source.ByteSpan {
	return source.ByteSpan{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// SkipBlank consumes horizontal whitespace, '#' line comments, and
// backslash-newline line continuations, collecting them as trivia. It
// stops at a real newline, which is itself a significant token (spec
// §4.2's "newline-significant" token kind).
func (lx *Lexer) SkipBlank() []token.Trivia {
	var hold []token.Trivia
	for !lx.cursor.EOF() {
		m := lx.cursor.Mark()
		switch ch := lx.cursor.Peek(); {
		case ch == ' ' || ch == '\t':
			for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
				lx.cursor.Bump()
			}
			hold = append(hold, token.Trivia{Kind: token.TriviaSpace, Span: lx.cursor.SpanFrom(m)})
		case ch == '\\' && lx.cursor.PeekAt(1) == '\n':
			lx.cursor.Bump()
			lx.cursor.Bump()
			hold = append(hold, token.Trivia{Kind: token.TriviaLineContinuation, Span: lx.cursor.SpanFrom(m)})
		case ch == '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(m)
			hold = append(hold, token.Trivia{
				Kind: token.TriviaComment,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
		default:
			return hold
		}
	}
	return hold
}

// validateUTF8 scans the entire file content once up front; invalid
// UTF-8 is a fatal parse error rather than something the lexer tries to
// route around.
func (lx *Lexer) validateUTF8() error {
	content := lx.file.Content
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size <= 1 {
			off := uint32(i)
			return errAt(diag.LexInvalidUTF8, source.ByteSpan{File: lx.file.ID, Start: off, End: off + 1},
				"invalid UTF-8 byte sequence")
		}
		i += size
	}
	return nil
}

// Validate performs the up-front UTF-8 check. Callers invoke this once
// before tokenizing.
func Validate(f *source.File) error {
	lx := New(f)
	return lx.validateUTF8()
}

// isWordBoundary reports whether ch ends a word in command context.
// '{' and '}' are deliberately absent: they're word characters except
// when standing alone as group braces, which NextOperator recognizes by
// requiring a boundary after them.
func isWordBoundary(ch byte) bool {
	switch ch {
	case 0, ' ', '\t', '\n', ';', '&', '|', '(', ')', '<', '>':
		return true
	}
	return false
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentCont(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
