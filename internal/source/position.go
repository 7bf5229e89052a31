package source

import "fmt"

// Position is a 1-based line/column location within a source file.
// Columns count Unicode code points, not bytes.
type Position struct {
	Line uint32
	Col  uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Less reports whether p comes strictly before other.
func (p Position) Less(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

// Span is a (start, end) pair of positions, end exclusive at the column
// level. It is the span representation diagnostics and AST nodes carry.
type Span struct {
	File  FileID
	Start Position
	End   Position
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%s-%s", s.File, s.Start, s.End)
}

// Empty reports whether the span covers no positions at all.
func (s Span) Empty() bool {
	return s.Start == s.End
}

// Contains reports whether other lies entirely within s (same file).
func (s Span) Contains(other Span) bool {
	if s.File != other.File {
		return false
	}
	return !other.Start.Less(s.Start) && !s.End.Less(other.End)
}

// Cover returns the smallest span covering both s and other.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	start, end := s.Start, s.End
	if other.Start.Less(start) {
		start = other.Start
	}
	if end.Less(other.End) {
		end = other.End
	}
	return Span{File: s.File, Start: start, End: end}
}

// ByteSpan is a byte-offset range within a single file (half-open: End
// exclusive). The lexer, parser, and fix-application engine work in bytes;
// ByteSpan is converted to the user-facing, line/column Span via
// FileSet.Resolve.
type ByteSpan struct {
	File  FileID
	Start uint32
	End   uint32
}

func (b ByteSpan) String() string {
	return fmt.Sprintf("%d:%d-%d", b.File, b.Start, b.End)
}

// Empty reports whether the byte span has zero length.
func (b ByteSpan) Empty() bool {
	return b.Start == b.End
}

// Len returns the length of the byte span.
func (b ByteSpan) Len() uint32 {
	return b.End - b.Start
}
