package token

import "bashrs/internal/source"

// TriviaKind classifies non-code source elements attached to a Token.
type TriviaKind uint8

const (
	// TriviaSpace represents horizontal whitespace.
	TriviaSpace TriviaKind = iota
	// TriviaComment represents a '#'-introduced line comment, including any
	// bashrs-disable/bashrs-enable suppression directive it may carry (the
	// directive text itself is re-parsed by the suppression scanner, not
	// interpreted here).
	TriviaComment
	// TriviaLineContinuation represents a backslash-newline pair.
	TriviaLineContinuation
)

// Trivia represents a non-code source element: whitespace, a comment, or a
// line continuation, carried as leading context on the next real token.
type Trivia struct {
	Kind TriviaKind
	Span source.ByteSpan
	Text string
}
