package lexer

import (
	"bashrs/internal/diag"
	"bashrs/internal/source"
)

// Error is a lexer failure. It carries the originating span so the
// driver can render it the same way it renders a rule diagnostic.
// Lexer errors are non-recoverable: the caller aborts the run rather
// than attempting partial recovery — a partial AST is never handed to
// downstream stages.
type Error struct {
	Code Code
	Span source.ByteSpan
	Msg  string
}

// Code re-exports the diag codes relevant to lexing, so callers only need
// to import this package to format a lexer error.
type Code = diag.Code

func (e *Error) Error() string { return e.Msg }

func errAt(code diag.Code, span source.ByteSpan, msg string) *Error {
	return &Error{Code: code, Span: span, Msg: msg}
}
