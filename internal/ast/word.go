package ast

import "bashrs/internal/source"

// Word is one shell word: a sequence of parts concatenated with no
// intervening whitespace (e.g. `"$a"b*` is a three-part Word).
type Word struct {
	Span  source.ByteSpan
	Parts []WordPart
}

// WordPart is one constituent of a Word.
type WordPart interface {
	wordPart()
	PartSpan() source.ByteSpan
}

// Literal is unquoted literal text, possibly containing glob metacharacters
// that GlobPart did not need to isolate (plain characters between special
// constructs).
type Literal struct {
	Span source.ByteSpan
	Text string
}

func (*Literal) wordPart()                     {}
func (l *Literal) PartSpan() source.ByteSpan { return l.Span }

// SingleQuoted is a `'...'` run: no expansions, no escapes.
type SingleQuoted struct {
	Span source.ByteSpan
	Text string
}

func (*SingleQuoted) wordPart()                     {}
func (s *SingleQuoted) PartSpan() source.ByteSpan { return s.Span }

// DoubleQuoted is a `"..."` run: escapes and `$`-expansions are recognized,
// literal text in between is not further split.
type DoubleQuoted struct {
	Span  source.ByteSpan
	Parts []WordPart
}

func (*DoubleQuoted) wordPart()                     {}
func (d *DoubleQuoted) PartSpan() source.ByteSpan { return d.Span }

// ParamExpOp identifies a parameter-expansion operator.
type ParamExpOp uint8

const (
	ParamExpNone        ParamExpOp = iota
	ParamExpDefault                // ${x-word} / ${x:-word}
	ParamExpAssign                 // ${x=word} / ${x:=word}
	ParamExpError                   // ${x?word} / ${x:?word}
	ParamExpAlternate               // ${x+word} / ${x:+word}
	ParamExpLength                  // ${#x}
	ParamExpRemoveShortestPrefix    // ${x#pattern}
	ParamExpRemoveLongestPrefix     // ${x##pattern}
	ParamExpRemoveShortestSuffix    // ${x%pattern}
	ParamExpRemoveLongestSuffix     // ${x%%pattern}
	ParamExpReplace                 // ${x/pat/repl}
	ParamExpReplaceAll              // ${x//pat/repl}
	ParamExpUpperFirst               // ${x^pattern}
	ParamExpUpperAll                 // ${x^^pattern}
	ParamExpLowerFirst               // ${x,pattern}
	ParamExpLowerAll                 // ${x,,pattern}
	ParamExpSubstring                // ${x:offset:length}
	ParamExpIndirection              // ${!x}
)

// ParamExpansion is `$NAME` or `${...}`.
type ParamExpansion struct {
	Span     source.ByteSpan
	Name     string
	Op       ParamExpOp
	ColonForm bool // true if the ':'-prefixed variant was used (":-" vs "-")
	RHS      *Word // operand word for Op, if any
	Offset   *ArithExpr
	Length   *ArithExpr
}

func (*ParamExpansion) wordPart()                     {}
func (p *ParamExpansion) PartSpan() source.ByteSpan { return p.Span }

// CommandSubst is `$(...)` or a backtick command substitution.
type CommandSubst struct {
	Span     source.ByteSpan
	Backtick bool
	Body     []Stmt
}

func (*CommandSubst) wordPart()                     {}
func (c *CommandSubst) PartSpan() source.ByteSpan { return c.Span }

// ArithSubst is `$(( ... ))`.
type ArithSubst struct {
	Span source.ByteSpan
	Expr *ArithExpr
}

func (*ArithSubst) wordPart()                     {}
func (a *ArithSubst) PartSpan() source.ByteSpan { return a.Span }

// ProcessSubstDir distinguishes `<(...)` from `>(...)`.
type ProcessSubstDir uint8

const (
	ProcessSubstIn ProcessSubstDir = iota
	ProcessSubstOut
)

// ProcessSubst is `<(...)` or `>(...)`.
type ProcessSubst struct {
	Span source.ByteSpan
	Dir  ProcessSubstDir
	Body []Stmt
}

func (*ProcessSubst) wordPart()                     {}
func (p *ProcessSubst) PartSpan() source.ByteSpan { return p.Span }

// GlobKind classifies a glob pattern part.
type GlobKind uint8

const (
	GlobStar      GlobKind = iota // *
	GlobQuestion                  // ?
	GlobBracket                   // [...]
	GlobExtAt                     // @(...)
	GlobExtQ                      // ?(...)
	GlobExtPlus                   // +(...)
	GlobExtStar                   // *(...)
	GlobExtBang                   // !(...)
)

// Glob is an unquoted glob metacharacter sequence, left unexpanded for the
// shell to resolve at run time.
type Glob struct {
	Span    source.ByteSpan
	Kind    GlobKind
	Pattern string         // raw pattern text, including for ext-glob groups
	Alts    []*Word        // alternatives inside an ext-glob group, if any
}

func (*Glob) wordPart()                     {}
func (g *Glob) PartSpan() source.ByteSpan { return g.Span }
