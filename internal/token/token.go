package token

import "bashrs/internal/source"

// Token represents a single lexical token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.ByteSpan
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric or word-literal token.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case WordLiteral, Number:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a shell keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwIf, KwThen, KwElif, KwElse, KwFi, KwWhile, KwDo, KwDone, KwUntil,
		KwCase, KwIn, KwEsac, KwFor, KwFunction, KwSelect, KwBreak, KwContinue,
		KwReturn, KwExit, KwTrap, KwLocal, KwExport, KwReadonly, KwDeclare,
		KwTypeset, KwCoproc, KwTime:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is a bare identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsRedirOp reports whether the token introduces a redirection.
func (t Token) IsRedirOp() bool {
	switch t.Kind {
	case Less, Great, DLess, DLessDash, DGreat, LessGreat, GreatPipe, GreatAmp, AmpGreat:
		return true
	default:
		return false
	}
}
