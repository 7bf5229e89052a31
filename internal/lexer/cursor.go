package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"bashrs/internal/source"
)

// Cursor is a byte-offset position within a file's content.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32
}

// NewCursor creates a cursor positioned at the start of f's content.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Off: 0, Limit: limit}
}

// EOF reports whether the cursor has reached the end of its range.
func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt returns the byte n positions ahead of the cursor, or 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	off := c.Off + n
	if off >= c.Limit {
		return 0
	}
	return c.File.Content[off]
}

// Bump advances the cursor by one byte and returns the byte consumed.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it equals b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// EatString consumes s if it appears literally at the cursor.
func (c *Cursor) EatString(s string) bool {
	end := c.Off + uint32(len(s))
	if end > c.Limit {
		return false
	}
	if string(c.File.Content[c.Off:end]) != s {
		return false
	}
	c.Off = end
	return true
}

// Mark is a saved cursor offset used to compute a span after further
// scanning.
type Mark uint32

// Mark captures the current offset.
func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the byte span from m to the current offset.
func (c *Cursor) SpanFrom(m Mark) source.ByteSpan {
	return source.ByteSpan{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset rewinds the cursor to a previously captured mark.
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
