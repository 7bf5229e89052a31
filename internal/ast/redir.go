package ast

import "bashrs/internal/source"

// RedirOp identifies the kind of redirection operator.
type RedirOp uint8

const (
	RedirInput      RedirOp = iota // <
	RedirOutput                    // >
	RedirAppend                    // >>
	RedirHeredoc                   // <<
	RedirHeredocTab                // <<-
	RedirReadWrite                 // <>
	RedirNoClobber                 // >|
	RedirDupOutput                 // >&N or >&-
	RedirDupInput                  // <&N or <&-
	RedirOutErr                    // &> (bash-ism; purified away)
)

// Redir is one redirection attached to a command or compound statement.
type Redir struct {
	Span   source.ByteSpan
	FD     int // source file descriptor; -1 if not specified (defaults apply)
	Op     RedirOp
	Target *Word // redirection target word (heredoc tag for Op==RedirHeredoc*); nil when Closed is true
	Closed bool  // true for N>&- / N<&- (close the descriptor)
	DupFD  int   // target descriptor for N>&M / N<&M; -1 if not a dup
	// Heredoc carries the scanned body for Op == RedirHeredoc/RedirHeredocTab.
	Heredoc *Heredoc
}
