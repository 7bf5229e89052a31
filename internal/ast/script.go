package ast

import "bashrs/internal/source"

// Script is the top-level parse unit: an optional shebang line followed by
// a sequence of statements.
type Script struct {
	Span    source.ByteSpan
	Shebang string // empty if the source had none
	Items   []Stmt
}
