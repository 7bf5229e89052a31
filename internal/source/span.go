package source

// Cover returns the smallest byte span that covers both b and other.
func (b ByteSpan) Cover(other ByteSpan) ByteSpan {
	if b.File != other.File {
		return b
	}
	if other.Start < b.Start {
		b.Start = other.Start
	}
	if other.End > b.End {
		b.End = other.End
	}
	return b
}

// ExtendRight extends b up to (not including) the start of other.
func (b ByteSpan) ExtendRight(other ByteSpan) ByteSpan {
	if b.File != other.File {
		return b
	}
	if b.End < other.Start {
		return ByteSpan{File: b.File, Start: b.Start, End: other.Start}
	}
	return b
}

// ExtendLeft extends b back to (not including) the end of other.
func (b ByteSpan) ExtendLeft(other ByteSpan) ByteSpan {
	if b.File != other.File {
		return b
	}
	if b.Start > other.End {
		return ByteSpan{File: b.File, Start: other.End, End: b.End}
	}
	return b
}

// IsLeftThan reports whether b starts before other.
func (b ByteSpan) IsLeftThan(other ByteSpan) bool {
	return b.File == other.File && b.Start < other.Start
}

// IsRightThan reports whether b ends after other.
func (b ByteSpan) IsRightThan(other ByteSpan) bool {
	return b.File == other.File && b.End > other.End
}

// ShiftLeft moves b left by n bytes. If n exceeds Start, b is returned unchanged.
func (b ByteSpan) ShiftLeft(n uint32) ByteSpan {
	if n > b.Start {
		return b
	}
	return ByteSpan{File: b.File, Start: b.Start - n, End: b.End - n}
}

// ShiftRight moves b right by n bytes. If n exceeds the span's length, b is
// returned unchanged.
func (b ByteSpan) ShiftRight(n uint32) ByteSpan {
	if n > b.End-b.Start {
		return b
	}
	return ByteSpan{File: b.File, Start: b.Start + n, End: b.End + n}
}

// ZeroideToStart collapses b to an empty span at its start, for insert edits.
func (b ByteSpan) ZeroideToStart() ByteSpan {
	return ByteSpan{File: b.File, Start: b.Start, End: b.Start}
}

// ZeroideToEnd collapses b to an empty span at its end, for insert edits.
func (b ByteSpan) ZeroideToEnd() ByteSpan {
	return ByteSpan{File: b.File, Start: b.End, End: b.End}
}
